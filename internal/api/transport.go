package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"golang.org/x/oauth2"
)

// retriedKey marks a request that already went through one re-auth cycle.
type retriedKey struct{}

func withRetried(ctx context.Context) context.Context {
	return context.WithValue(ctx, retriedKey{}, true)
}

func isRetried(ctx context.Context) bool {
	retried, _ := ctx.Value(retriedKey{}).(bool)
	return retried
}

// AuthTransport attaches the current bearer token and retries a request once
// after re-authentication when the server answers 401.
type AuthTransport struct {
	// Base performs the actual requests. Defaults to http.DefaultTransport.
	Base http.RoundTripper
	// Tokens supplies the current token. Requests go out unauthenticated while it's empty.
	Tokens Tokens
	// Reauth recovers from 401 responses. Nil disables the retry.
	Reauth *Reauthenticator
}

// Compile-time check that AuthTransport implements http.RoundTripper.
var _ http.RoundTripper = (*AuthTransport)(nil)

// RoundTrip implements http.RoundTripper.
func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	req, err := replayable(req)
	if err != nil {
		return nil, err
	}

	out := req.Clone(req.Context())
	t.attach(out)

	resp, err := base.RoundTrip(out)
	if err != nil || resp.StatusCode != http.StatusUnauthorized || t.Reauth == nil || isRetried(req.Context()) {
		return resp, err
	}

	token, err := t.Reauth.Reauthenticate(req.Context())
	if err != nil {
		if errors.Is(err, ErrReauthFailed) {
			// Surface the original 401 to the caller.
			return resp, nil
		}
		_ = resp.Body.Close()
		return nil, err
	}

	// The original response is superseded by the retry.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	_ = resp.Body.Close()

	retry := req.Clone(withRetried(req.Context()))
	if req.GetBody != nil {
		if retry.Body, err = req.GetBody(); err != nil {
			return nil, fmt.Errorf("rewinding request body: %w", err)
		}
	}
	setBearer(retry, token)

	slog.DebugContext(req.Context(), "retrying request after re-authentication",
		"method", req.Method, "path", req.URL.Path)
	return base.RoundTrip(retry)
}

// attach sets the Authorization header iff a token is held.
func (t *AuthTransport) attach(req *http.Request) {
	req.Header.Del("Authorization")
	if t.Tokens == nil {
		return
	}
	if token, ok := t.Tokens.Get(); ok {
		setBearer(req, token)
	}
}

func setBearer(req *http.Request, token string) {
	(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(req)
}

// replayable ensures the request body can be sent twice. Bodies without GetBody
// (e.g. inbound proxy requests) are buffered once up front.
func replayable(req *http.Request) (*http.Request, error) {
	if req.Body == nil || req.Body == http.NoBody || req.GetBody != nil {
		return req, nil
	}

	defer func() { _ = req.Body.Close() }()
	data, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, fmt.Errorf("reading request body: %w", err)
	}

	buffered := req.Clone(req.Context())
	buffered.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}
	buffered.Body, _ = buffered.GetBody()
	buffered.ContentLength = int64(len(data))
	return buffered, nil
}
