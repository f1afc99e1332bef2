package credstore

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE credentials (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func TestSetAndGet_InsertThenGet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, KeyAuthToken, []byte("abc")))

	v, err := r.Get(ctx, KeyAuthToken)
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), v)
}

func TestGet_NotExists_ReturnsNilNil(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	v, err := r.Get(ctx, "absent")
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestSet_UpsertOverwritesValue(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k", []byte("old")))
	require.NoError(t, r.Set(ctx, "k", []byte("new")))

	v, err := r.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("new"), v)
}

func TestDelete_RemovesKey_AndIsIdempotent(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, KeyAuthToken, []byte("abc")))
	require.NoError(t, r.Delete(ctx, KeyAuthToken))

	v, err := r.Get(ctx, KeyAuthToken)
	require.NoError(t, err)
	require.Nil(t, v)

	// deleting again must not fail
	require.NoError(t, r.Delete(ctx, KeyAuthToken))
}

func TestClear_RemovesAllKeys(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "a", []byte{0xAA}))
	require.NoError(t, r.Set(ctx, "b", []byte{0xBB}))
	require.NoError(t, r.Clear(ctx))

	m, err := r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestList_ReturnsAllPairs(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "a", []byte{0xAA}))
	require.NoError(t, r.Set(ctx, "b", []byte{0xBB, 0xCC}))

	m, err := r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, m, 2)
	assert.Equal(t, []byte{0xAA}, m["a"])
	assert.Equal(t, []byte{0xBB, 0xCC}, m["b"])
}

func TestOpen_MigratesAndRoundTrips(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Set(ctx, KeyAuthToken, []byte("tok_1")))

	v, err := s.Get(ctx, KeyAuthToken)
	require.NoError(t, err)
	require.Equal(t, []byte("tok_1"), v)

	require.NoError(t, s.Delete(ctx, KeyAuthToken))
	v, err = s.Get(ctx, KeyAuthToken)
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestStore_Update_ReadModifyWrite(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Update(ctx, KeySettings, func(old []byte) ([]byte, error) {
		require.Nil(t, old)
		return []byte(`{"theme":"dark"}`), nil
	}))

	require.NoError(t, s.Update(ctx, KeySettings, func(old []byte) ([]byte, error) {
		require.Equal(t, []byte(`{"theme":"dark"}`), old)
		return []byte(`{"theme":"light"}`), nil
	}))

	v, err := s.Get(ctx, KeySettings)
	require.NoError(t, err)
	require.Equal(t, []byte(`{"theme":"light"}`), v)
}

func TestStore_Update_ErrorLeavesValueUntouched(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Set(ctx, KeyLanguage, []byte("en-US")))

	boom := errors.New("boom")
	err = s.Update(ctx, KeyLanguage, func(old []byte) ([]byte, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)

	v, err := s.Get(ctx, KeyLanguage)
	require.NoError(t, err)
	require.Equal(t, []byte("en-US"), v)
}

func TestStore_Update_NilDeletesKey(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Set(ctx, "x", []byte("1")))
	require.NoError(t, s.Update(ctx, "x", func(old []byte) ([]byte, error) {
		return nil, nil
	}))

	v, err := s.Get(ctx, "x")
	require.NoError(t, err)
	require.Nil(t, v)
}
