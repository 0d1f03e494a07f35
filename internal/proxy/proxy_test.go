package proxy

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rockrashit19/Duslar/internal/api"
	"github.com/rockrashit19/Duslar/internal/tokensource"
	"github.com/rockrashit19/Duslar/internal/tokenstore"
)

type staticExchanger struct {
	calls atomic.Int32
	token string
}

func (e *staticExchanger) Exchange(context.Context) (string, error) {
	e.calls.Add(1)
	return e.token, nil
}

// newAuthTransport returns a transport holding "old" that re-authenticates to "new".
func newAuthTransport(t *testing.T) (*api.AuthTransport, *staticExchanger) {
	t.Helper()
	holder, err := tokensource.NewHolder(context.Background(), tokenstore.NewMemoryStore("old"))
	require.NoError(t, err)
	ex := &staticExchanger{token: "new"}
	reauth, err := api.NewReauthenticator(ex, holder, time.Second)
	require.NoError(t, err)
	return &api.AuthTransport{Tokens: holder, Reauth: reauth}, ex
}

func TestProxyForwardsWithSessionToken(t *testing.T) {
	var seen []*http.Request
	var bodies []string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		seen = append(seen, r.Clone(context.Background()))
		bodies = append(bodies, string(body))
		if r.Header.Get("Authorization") != "Bearer new" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":1}`)
	}))
	defer upstream.Close()

	transport, ex := newAuthTransport(t)
	p, err := New(transport, WithBaseURL(upstream.URL+"/api/v1"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/events?x=1", strings.NewReader(`{"title":"Чай"}`))
	req.Header.Set("Authorization", "Bearer forged")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cookie", "secret=1")
	rec := httptest.NewRecorder()

	p.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":1}`, rec.Body.String())
	assert.Equal(t, int32(1), ex.calls.Load())

	require.Len(t, seen, 2, "original request plus one retry")
	assert.Equal(t, "Bearer old", seen[0].Header.Get("Authorization"), "client Authorization is replaced")
	assert.Equal(t, "/api/v1/events", seen[1].URL.Path)
	assert.Equal(t, "1", seen[1].URL.Query().Get("x"))
	assert.Empty(t, seen[1].Header.Get("Cookie"))
	assert.Equal(t, "application/json", seen[1].Header.Get("Content-Type"))
	assert.Equal(t, []string{`{"title":"Чай"}`, `{"title":"Чай"}`}, bodies, "body replayed on retry")
}

func TestProxyUpstreamUnreachable(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	baseURL := upstream.URL
	upstream.Close()

	transport, _ := newAuthTransport(t)
	p, err := New(transport, WithBaseURL(baseURL))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	p.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Bad Gateway", body.Detail)
}

func TestProxyHealth(t *testing.T) {
	transport, _ := newAuthTransport(t)
	p, err := New(transport,
		WithBaseURL("http://127.0.0.1:1"),
		WithHealth(func(context.Context) any { return map[string]string{"status": "ready"} }),
	)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	p.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, HealthPath, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ready"}`, rec.Body.String())
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	_, err := New(http.DefaultTransport, WithBaseURL("/relative"))
	assert.Error(t, err)
}

func TestProxyStartShutdown(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	}))
	defer upstream.Close()

	transport, _ := newAuthTransport(t)
	p, err := New(transport, WithBaseURL(upstream.URL))
	require.NoError(t, err)

	errCh, err := p.Start(context.Background(), "127.0.0.1:0")
	require.NoError(t, err)

	resp, err := http.Get("http://" + p.Addr().String() + "/events")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, p.Shutdown(ctx))

	_, open := <-errCh
	assert.False(t, open, "no runtime error after graceful shutdown")
}

func TestRecovery(t *testing.T) {
	h := Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRecoveryWritesJSON(t *testing.T) {
	h := Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"detail":"Internal Server Error"}`, rec.Body.String())
}
