package tokensource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/oauth2"

	"github.com/rockrashit19/Duslar/internal/api"
	"github.com/rockrashit19/Duslar/internal/tokenstore"
)

// ErrNoToken is returned by Token when no bearer token is held.
var ErrNoToken = errors.New("no bearer token")

// Holder is the process-wide current bearer token backed by a TokenStore.
type Holder struct {
	store tokenstore.TokenStore

	// current is nil or points to a non-empty token.
	current atomic.Pointer[string]
	writeMu sync.Mutex
}

// Compile-time checks to ensure Holder implements api.Tokens and oauth2.TokenSource
var (
	_ api.Tokens         = (*Holder)(nil)
	_ oauth2.TokenSource = (*Holder)(nil)
)

// NewHolder creates a Holder seeded with whatever store currently holds.
// A missing entry means no token.
func NewHolder(ctx context.Context, store tokenstore.TokenStore) (*Holder, error) {
	if store == nil {
		return nil, fmt.Errorf("missing token store")
	}

	h := &Holder{store: store}

	token, err := store.Read(ctx)
	switch {
	case errors.Is(err, tokenstore.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("failed to read initial token: %w", err)
	case token != "":
		h.current.Store(&token)
	}

	return h, nil
}

// Get returns the current token and whether one is held.
func (h *Holder) Get() (string, bool) {
	ptr := h.current.Load()
	if ptr == nil {
		return "", false
	}
	return *ptr, true
}

// Set replaces the current token and persists it. Setting "" is Clear.
// The new token is visible to Get before persistence is attempted; a
// persistence failure is returned but does not undo the update.
func (h *Holder) Set(ctx context.Context, token string) error {
	if token == "" {
		return h.Clear(ctx)
	}

	h.writeMu.Lock()
	defer h.writeMu.Unlock()

	h.current.Store(&token)
	if err := h.store.Write(ctx, token); err != nil {
		if errors.Is(err, tokenstore.ErrReadOnly) {
			slog.DebugContext(ctx, "token kept in memory only", "reason", err)
			return nil
		}
		return fmt.Errorf("persisting token: %w", err)
	}
	return nil
}

// Clear drops the current token and removes the persisted entry.
func (h *Holder) Clear(ctx context.Context) error {
	h.writeMu.Lock()
	defer h.writeMu.Unlock()

	h.current.Store(nil)
	if err := h.store.Delete(ctx); err != nil {
		if errors.Is(err, tokenstore.ErrReadOnly) {
			slog.DebugContext(ctx, "persisted token left in place", "reason", err)
			return nil
		}
		return fmt.Errorf("deleting persisted token: %w", err)
	}
	return nil
}

// Token implements oauth2.TokenSource. The token has no expiry: the API does
// not publish one.
func (h *Holder) Token() (*oauth2.Token, error) {
	token, ok := h.Get()
	if !ok {
		return nil, ErrNoToken
	}
	return &oauth2.Token{AccessToken: token, TokenType: "Bearer"}, nil
}
