package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultTimeout bounds a whole request including the retry.
	DefaultTimeout = 30 * time.Second

	// maxResponseBody bounds successful response bodies.
	maxResponseBody = 10 << 20
)

// ClientOption configures a Client.
type ClientOption func(*clientConfig)

type clientConfig struct {
	baseTransport http.RoundTripper
	timeout       time.Duration
	userAgent     string
}

// WithTransport sets the transport that performs the actual requests.
// If not provided, http.DefaultTransport is used.
func WithTransport(transport http.RoundTripper) ClientOption {
	return func(c *clientConfig) {
		c.baseTransport = transport
	}
}

// WithTimeout overrides DefaultTimeout. Zero disables the client-side timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithUserAgent sets the User-Agent header on every request.
func WithUserAgent(userAgent string) ClientOption {
	return func(c *clientConfig) {
		c.userAgent = userAgent
	}
}

// Client issues requests against the events API.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	userAgent  string
}

// Response is a successful (2xx) API response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v any) error {
	if len(bytes.TrimSpace(r.Body)) == 0 {
		return fmt.Errorf("empty response body")
	}
	return json.Unmarshal(r.Body, v)
}

// NewClient creates a Client rooted at baseURL. tokens supplies the bearer
// token; reauth may be nil to disable the 401 retry.
func NewClient(baseURL string, tokens Tokens, reauth *Reauthenticator, opts ...ClientOption) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: scheme and host required", baseURL)
	}

	cfg := &clientConfig{
		baseTransport: http.DefaultTransport,
		timeout:       DefaultTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Client{
		baseURL: u,
		httpClient: &http.Client{
			Timeout: cfg.timeout,
			Transport: &AuthTransport{
				Base:   cfg.baseTransport,
				Tokens: tokens,
				Reauth: reauth,
			},
		},
		userAgent: cfg.userAgent,
	}, nil
}

// RequestOption customises a single request.
type RequestOption func(*requestConfig)

type requestConfig struct {
	query       url.Values
	header      http.Header
	rawBody     io.Reader
	contentType string
}

// WithQuery adds query parameters.
func WithQuery(query url.Values) RequestOption {
	return func(c *requestConfig) {
		for k, vs := range query {
			for _, v := range vs {
				c.query.Add(k, v)
			}
		}
	}
}

// WithHeader sets a request header.
func WithHeader(key, value string) RequestOption {
	return func(c *requestConfig) {
		c.header.Set(key, value)
	}
}

// WithRawBody sends body as-is instead of JSON-encoding the body argument.
func WithRawBody(body io.Reader, contentType string) RequestOption {
	return func(c *requestConfig) {
		c.rawBody = body
		c.contentType = contentType
	}
}

// Do sends a request and returns the response if its status is 2xx.
// A non-nil body is JSON-encoded unless WithRawBody is given.
func (c *Client) Do(ctx context.Context, method, path string, body any, opts ...RequestOption) (*Response, error) {
	rc := &requestConfig{query: url.Values{}, header: http.Header{}}
	for _, opt := range opts {
		opt(rc)
	}

	req, err := c.newRequest(ctx, method, path, body, rc)
	if err != nil {
		return nil, err
	}

	logAttrs := []any{"method", method, "path", req.URL.Path, "request_id", req.Header.Get("X-Request-ID")}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		logAttrs = append(logAttrs, "trace_id", sc.TraceID().String())
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.DebugContext(ctx, "request failed", append(logAttrs, "error", err)...)
		return nil, &NetworkError{Method: method, Path: req.URL.Path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	slog.DebugContext(ctx, "request completed",
		append(logAttrs, "status", resp.StatusCode, "duration", time.Since(start))...)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, NewAPIError(resp)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody+1))
	if err != nil {
		return nil, &NetworkError{Method: method, Path: req.URL.Path, Err: fmt.Errorf("reading response body: %w", err)}
	}
	if len(data) > maxResponseBody {
		return nil, fmt.Errorf("%s %s: response body exceeds %d bytes", method, req.URL.Path, maxResponseBody)
	}

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any, rc *requestConfig) (*http.Request, error) {
	u := c.baseURL.JoinPath(path)
	if len(rc.query) > 0 {
		u.RawQuery = rc.query.Encode()
	}

	var bodyReader io.Reader
	contentType := rc.contentType
	switch {
	case rc.rawBody != nil:
		bodyReader = rc.rawBody
	case body != nil:
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	for k, vs := range rc.header {
		req.Header[k] = vs
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if req.Header.Get("X-Request-ID") == "" {
		req.Header.Set("X-Request-ID", uuid.NewString())
	}
	return req, nil
}

// Get fetches path and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out any, opts ...RequestOption) error {
	return c.DoJSON(ctx, http.MethodGet, path, nil, out, opts...)
}

// Post sends body and decodes the JSON response into out. out may be nil.
func (c *Client) Post(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.DoJSON(ctx, http.MethodPost, path, body, out, opts...)
}

// Put sends body and decodes the JSON response into out. out may be nil.
func (c *Client) Put(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.DoJSON(ctx, http.MethodPut, path, body, out, opts...)
}

// Delete issues a DELETE request, ignoring any response body.
func (c *Client) Delete(ctx context.Context, path string, opts ...RequestOption) error {
	return c.DoJSON(ctx, http.MethodDelete, path, nil, nil, opts...)
}

// DoJSON sends a request and decodes the JSON response into out. out may be nil.
func (c *Client) DoJSON(ctx context.Context, method, path string, body, out any, opts ...RequestOption) error {
	resp, err := c.Do(ctx, method, path, body, opts...)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := resp.Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}
