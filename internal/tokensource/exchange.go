package tokensource

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/rockrashit19/Duslar/internal/api"
)

// ExchangePath is the auth endpoint, relative to the API base URL.
const ExchangePath = "/auth/telegram/init"

// ErrEmptyToken is returned when the auth endpoint answers 2xx without a token.
var ErrEmptyToken = errors.New("auth response carried no token")

// CredentialSource yields the init data to exchange. initdata.Provider
// satisfies it.
type CredentialSource interface {
	Credential() string
}

// ExchangeError is a failed credential exchange. Err is an *api.APIError
// when the backend rejected the credential, an *api.NetworkError when it
// could not be reached.
type ExchangeError struct {
	Err error
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("auth exchange: %v", e.Err)
}

func (e *ExchangeError) Unwrap() error {
	return e.Err
}

// ExchangerOption configures an Exchanger.
type ExchangerOption func(*exchangerConfig)

// exchangerConfig holds configuration for NewExchanger.
type exchangerConfig struct {
	baseTransport http.RoundTripper
	timeout       time.Duration
}

// WithTransport sets a custom base transport for exchange requests.
// If not provided, http.DefaultTransport is used.
func WithTransport(transport http.RoundTripper) ExchangerOption {
	return func(c *exchangerConfig) {
		c.baseTransport = transport
	}
}

// WithTimeout bounds each exchange request. Defaults to 30 seconds.
func WithTimeout(timeout time.Duration) ExchangerOption {
	return func(c *exchangerConfig) {
		c.timeout = timeout
	}
}

// Exchanger trades init data for a bearer token.
type Exchanger struct {
	endpoint    string
	credentials CredentialSource
	httpClient  *http.Client
}

// Compile-time check to ensure Exchanger implements api.Exchanger
var _ api.Exchanger = (*Exchanger)(nil)

// NewExchanger creates an Exchanger for the API rooted at baseURL.
func NewExchanger(baseURL string, credentials CredentialSource, opts ...ExchangerOption) (*Exchanger, error) {
	if credentials == nil {
		return nil, fmt.Errorf("missing credential source")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: scheme and host required", baseURL)
	}

	cfg := &exchangerConfig{
		baseTransport: http.DefaultTransport,
		timeout:       30 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Exchanger{
		endpoint:    u.JoinPath(ExchangePath).String(),
		credentials: credentials,
		// A plain transport: the exchange never carries the bearer token and
		// is never itself retried on 401.
		httpClient: &http.Client{
			Timeout:   cfg.timeout,
			Transport: cfg.baseTransport,
		},
	}, nil
}

type exchangeRequest struct {
	InitData string `json:"init_data"`
}

type exchangeResponse struct {
	Token string `json:"token"`
}

// Exchange obtains a fresh credential and exchanges it. An empty credential
// is sent as-is; the backend decides whether to accept it.
func (e *Exchanger) Exchange(ctx context.Context) (string, error) {
	body, err := json.Marshal(exchangeRequest{InitData: e.credentials.Credential()})
	if err != nil {
		return "", fmt.Errorf("marshaling exchange request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating exchange request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", &ExchangeError{Err: &api.NetworkError{Method: req.Method, Path: req.URL.Path, Err: err}}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &ExchangeError{Err: api.NewAPIError(resp)}
	}

	var out exchangeResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
		return "", &ExchangeError{Err: fmt.Errorf("decoding exchange response: %w", err)}
	}
	if out.Token == "" {
		return "", &ExchangeError{Err: ErrEmptyToken}
	}

	slog.DebugContext(ctx, "exchanged init data for token")
	return out.Token, nil
}
