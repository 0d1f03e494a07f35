package tokenstore

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Read when no token has been persisted.
	ErrNotFound = errors.New("token not found")

	// ErrReadOnly is returned by Write and Delete on read-only backends.
	ErrReadOnly = errors.New("token storage is read-only")
)

// TokenStore reads and writes the single persisted token.
type TokenStore interface {
	// Read returns the stored token. Returns ErrNotFound (possibly wrapped)
	// if nothing is stored.
	Read(ctx context.Context) (string, error)

	// Write persists the token, replacing any previous value.
	Write(ctx context.Context, token string) error

	// Delete removes the stored token. Deleting a missing entry is not an error.
	Delete(ctx context.Context) error
}
