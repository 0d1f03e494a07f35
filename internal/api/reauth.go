package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"
)

// ErrReauthFailed is returned when the credential exchange did not yield a token.
var ErrReauthFailed = errors.New("re-authentication failed")

// reauthKey is the only key in the group: there is one token per process.
const reauthKey = "reauth"

// Tokens is the Token Store as seen by the client core.
type Tokens interface {
	Get() (string, bool)
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// Exchanger trades a freshly obtained credential for a new bearer token.
type Exchanger interface {
	Exchange(ctx context.Context) (string, error)
}

// Reauthenticator coalesces concurrent re-authentication attempts into one
// exchange whose outcome every caller shares.
type Reauthenticator struct {
	exchanger Exchanger
	tokens    Tokens
	timeout   time.Duration

	group singleflight.Group
}

// NewReauthenticator creates a Reauthenticator. A positive timeout bounds each
// exchange so a hung auth endpoint cannot stall queued callers forever.
func NewReauthenticator(exchanger Exchanger, tokens Tokens, timeout time.Duration) (*Reauthenticator, error) {
	if exchanger == nil {
		return nil, fmt.Errorf("missing exchanger")
	}
	if tokens == nil {
		return nil, fmt.Errorf("missing token store")
	}
	return &Reauthenticator{
		exchanger: exchanger,
		tokens:    tokens,
		timeout:   timeout,
	}, nil
}

// Reauthenticate returns a new token. If an exchange is already in flight the
// caller waits for it instead of starting another one. On failure the Token
// Store is cleared and the error wraps ErrReauthFailed; if ctx ends first,
// ctx.Err() is returned and the shared exchange keeps running for the others.
func (r *Reauthenticator) Reauthenticate(ctx context.Context) (string, error) {
	ch := r.group.DoChan(reauthKey, func() (any, error) {
		return r.exchange(ctx)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// exchange performs the one network call. It runs detached from the cancellation
// of whichever caller happened to start it, since others may be waiting on it.
func (r *Reauthenticator) exchange(ctx context.Context) (string, error) {
	ctx = context.WithoutCancel(ctx)
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	token, err := r.exchanger.Exchange(ctx)
	if err != nil {
		slog.WarnContext(ctx, "re-authentication failed", "error", err)
		if clearErr := r.tokens.Clear(ctx); clearErr != nil {
			slog.ErrorContext(ctx, "failed to clear token", "error", clearErr)
		}
		return "", fmt.Errorf("%w: %w", ErrReauthFailed, err)
	}

	if err := r.tokens.Set(ctx, token); err != nil {
		// The in-memory token is already current; only persistence failed.
		slog.ErrorContext(ctx, "failed to persist token", "error", err)
	}
	slog.DebugContext(ctx, "re-authenticated")
	return token, nil
}
