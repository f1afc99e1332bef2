package credstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_RoundTrip(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, KeyAuthToken, []byte("abc")))

	v, err := r.Get(ctx, KeyAuthToken)
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), v)

	require.NoError(t, r.Delete(ctx, KeyAuthToken))

	v, err = r.Get(ctx, KeyAuthToken)
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestMemoryRepository_GetReturnsCopy(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k", []byte("abc")))

	v, _ := r.Get(ctx, "k")
	v[0] = 'x'

	again, _ := r.Get(ctx, "k")
	require.Equal(t, []byte("abc"), again)
}

func TestMemoryRepository_ClearAndList(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "a", []byte("1")))
	require.NoError(t, r.Set(ctx, "b", []byte("2")))

	m, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, m, 2)

	require.NoError(t, r.Clear(ctx))

	m, err = r.List(ctx)
	require.NoError(t, err)
	require.Empty(t, m)
}
