// Package metadata is the client's local key/value store. It keeps the
// session token and other small pieces of client state in SQLite.
package metadata

import (
	"context"
)

const (
	// KeySession holds the signed session token.
	KeySession = "session_token"
	// KeySessionSecret holds the per-install key that signs session tokens.
	KeySessionSecret = "session_secret"
)

// Repository stores opaque values by key. Get returns (nil, nil) when the
// key is absent.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
