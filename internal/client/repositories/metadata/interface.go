// Package metadata is a small key/value table in the local store. The
// client keeps the signed-in session there.
package metadata

import (
	"context"
)

// Keys used by the auth session.
const (
	KeyUsername     = "username"
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeySalt         = "salt"
)

type Repository interface {
	// Get returns common.ErrorNotFound for an absent key.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error

	// SetMany upserts all pairs in one transaction.
	SetMany(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string][]byte, error)
}
