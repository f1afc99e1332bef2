// Package credstore is the durable key-value persistence layer surviving
// process restarts. It holds the auth token, the cached user profile and a
// handful of client settings, backed by a local SQLite file.
package credstore

import "context"

// Well-known keys.
const (
	KeyAuthToken = "auth_token"
	KeyUserInfo  = "user_info"
	KeyBaseURL   = "api_base_url"
	KeySettings  = "settings"
	KeyLanguage  = "language"
)

// Repository is a durable key-value store.
//
// Contract:
//   - Get returns (nil, nil) when the key is absent.
//   - Set overwrites atomically; no partial write is observable.
//   - Delete is a no-op when the key is absent.
//
// Calls are sequential in practice (single UI thread); last write wins.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	List(ctx context.Context) (map[string][]byte, error)
}
