package session

import (
	"context"
	"errors"
)

// ErrTokenNotFound is returned for tokens that are absent or expired.
// Callers must not be able to tell the two cases apart.
var ErrTokenNotFound = errors.New("token not found")

// ErrRedisUnavailable is an exported constant or variable used by the session engine.
var ErrRedisUnavailable = errors.New("redis unavailable")

// Store is the persistence contract for active bearer tokens. Every
// implementation must serialize its read-modify-write sequences: two
// concurrent validations of the same expired token must not both observe it
// as live.
type Store interface {
	// Save inserts the token. Issuance never overwrites: token values are
	// random enough that a collision indicates a caller bug.
	Save(ctx context.Context, tok Token) error

	// Validate resolves a token value to its record. Expired entries are
	// evicted on touch and reported as ErrTokenNotFound, exactly like
	// entries that never existed.
	Validate(ctx context.Context, value string) (Token, error)

	// Revoke removes the token regardless of its expiry state. Revoking an
	// absent token is not an error.
	Revoke(ctx context.Context, value string) error

	// RevokeAllForUser removes every live token owned by the user.
	RevokeAllForUser(ctx context.Context, userID int64) error
}
