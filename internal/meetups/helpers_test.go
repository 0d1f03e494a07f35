package meetups

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rockrashit19/Duslar/internal/api"
)

type staticTokens string

func (s staticTokens) Get() (string, bool)             { return string(s), s != "" }
func (staticTokens) Set(context.Context, string) error { return nil }
func (staticTokens) Clear(context.Context) error       { return nil }

// newTestService serves handler and returns a Service pointed at it.
func newTestService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := api.NewClient(srv.URL, staticTokens("T"), nil)
	require.NoError(t, err)
	return New(client)
}
