package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rockrashit19/Duslar/internal/i18n"
)

func TestNewClientRejectsRelativeURL(t *testing.T) {
	_, err := NewClient("/api", newMemTokens(""), nil)
	assert.Error(t, err)

	_, err = NewClient("https://api.example.com", newMemTokens(""), nil)
	assert.NoError(t, err)
}

func TestClientRequestShape(t *testing.T) {
	var got *http.Request
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		_, _ = io.WriteString(w, `{"id":7}`)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL+"/api", newMemTokens("T"), nil, WithUserAgent("duslar-test"))
	require.NoError(t, err)

	var out struct {
		ID int `json:"id"`
	}
	err = client.Post(context.Background(), "/events", map[string]string{"title": "x"}, &out,
		WithQuery(url.Values{"limit": {"10"}}))
	require.NoError(t, err)

	assert.Equal(t, 7, out.ID)
	assert.Equal(t, "/api/events", got.URL.Path)
	assert.Equal(t, "10", got.URL.Query().Get("limit"))
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
	assert.Equal(t, "duslar-test", got.Header.Get("User-Agent"))
	assert.NotEmpty(t, got.Header.Get("X-Request-ID"))
	assert.JSONEq(t, `{"title":"x"}`, gotBody)
}

func TestClientAPIErrorDetail(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		detail string
	}{
		{name: "string detail", status: http.StatusConflict, body: `{"detail":"Мест нет"}`, detail: "Мест нет"},
		{name: "validation list", status: http.StatusUnprocessableEntity, body: `{"detail":[{"msg":"bad"}]}`, detail: ""},
		{name: "not json", status: http.StatusBadGateway, body: `<html>oops</html>`, detail: ""},
		{name: "empty body", status: http.StatusNotFound, body: ``, detail: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			client := newTestClient(t, srv.URL, newMemTokens(""), nil)
			err := client.Get(context.Background(), "/events/1", nil)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.detail, apiErr.Detail)
			assert.Equal(t, http.MethodGet, apiErr.Method)
			assert.Equal(t, "/events/1", apiErr.Path)
			assert.True(t, IsStatus(err, tt.status))
			assert.False(t, IsNetwork(err))
		})
	}
}

func TestClientNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := srv.URL
	srv.Close()

	client := newTestClient(t, baseURL, newMemTokens(""), nil)
	err := client.Get(context.Background(), "/me", nil)

	assert.True(t, IsNetwork(err))
	assert.False(t, IsStatus(err, http.StatusUnauthorized))
}

func TestMessage(t *testing.T) {
	ru := message.NewPrinter(language.Russian)

	withDetail := &APIError{Status: http.StatusBadRequest, Detail: "Событие уже прошло"}
	assert.Equal(t, "Событие уже прошло", Message(withDetail, ru, i18n.AuthFailed))

	noDetail := &APIError{Status: http.StatusInternalServerError}
	assert.Equal(t, "Ошибка аутентификации", Message(noDetail, ru, i18n.AuthFailed))

	network := &NetworkError{Method: http.MethodGet, Path: "/me", Err: io.ErrUnexpectedEOF}
	assert.Equal(t, "Ошибка аутентификации", Message(network, ru, i18n.AuthFailed))
}

func TestResponseDecodeEmpty(t *testing.T) {
	var out map[string]any
	assert.Error(t, (&Response{}).Decode(&out))
}
