package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rockrashit19/Duslar/internal/meetups"
)

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/telegram/init", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"token":"tok1"}`)
	})
	mux.HandleFunc("GET /api/v1/me", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id":7,"full_name":"Алсу","role":"user","gender":"female"}`)
	})
	mux.HandleFunc("GET /api/v1/events", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Казань", r.URL.Query().Get("city"))
		assert.Equal(t, "Bearer tok1", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `[{"id":1,"title":"Чай","city":"Казань","status":"open","gender_restriction":"all"}]`)
	})
	mux.HandleFunc("GET /api/v1/users/{id}/note", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"detail":"Note not found"}`)
	})
	mux.HandleFunc("POST /api/v1/events/{id}/join", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = io.WriteString(w, `{"detail":"Мест нет"}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()
	t.Setenv("TELEGRAM_INIT_DATA", "query_id=1&hash=x")

	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.Writer = &out

	base := []string{"duslar", "--api--base-url", srv.URL + "/api/v1", "--auth--storage", "memory", "-o", "json"}
	err := cmd.Run(context.Background(), append(base, args...))
	return out.String(), err
}

func TestEventsList(t *testing.T) {
	srv := newBackend(t)

	out, err := run(t, srv, "events", "list", "--city", "  Казань ")
	require.NoError(t, err)

	var events []meetups.EventCard
	require.NoError(t, json.Unmarshal([]byte(out), &events))
	require.Len(t, events, 1)
	assert.Equal(t, "Чай", events[0].Title)
}

func TestSession(t *testing.T) {
	srv := newBackend(t)

	out, err := run(t, srv, "session")
	require.NoError(t, err)

	var view sessionView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	require.NotNil(t, view.User)
	assert.Equal(t, int64(7), view.User.ID)
}

func TestNotesGetMissing(t *testing.T) {
	srv := newBackend(t)

	out, err := run(t, srv, "notes", "get", "3")
	require.NoError(t, err)
	assert.Equal(t, "null\n", out)
}

func TestAPIErrorShowsDetail(t *testing.T) {
	srv := newBackend(t)

	_, err := run(t, srv, "events", "join", "5")
	assert.EqualError(t, err, "Мест нет")
}

func TestInvalidID(t *testing.T) {
	srv := newBackend(t)

	_, err := run(t, srv, "users", "show", "abc")
	assert.EqualError(t, err, `invalid user id "abc"`)
}

func TestInitDataMock(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.Writer = &out

	err := cmd.Run(context.Background(), []string{"duslar", "initdata", "mock", "--bot-token", "123:abc", "--user-id", "42"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "hash=")
}
