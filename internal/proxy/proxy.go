package proxy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"
)

// HealthPath answers locally and is never forwarded.
const HealthPath = "/_duslar/health"

// Proxy forwards local requests to the events API with the session's bearer token.
type Proxy struct {
	mux    *http.ServeMux
	server *http.Server
	addr   net.Addr
}

// Compile-time check that Proxy implements http.Handler
var _ http.Handler = (*Proxy)(nil)

// Option configures a Proxy.
type Option func(*config)

type config struct {
	baseURL string
	health  func(context.Context) any
}

// WithBaseURL sets the API base URL requests are forwarded to.
func WithBaseURL(baseURL string) Option {
	return func(c *config) {
		c.baseURL = baseURL
	}
}

// WithHealth reports fn's result as JSON on HealthPath.
func WithHealth(fn func(context.Context) any) Option {
	return func(c *config) {
		c.health = fn
	}
}

// New creates a Proxy sending requests through transport, which is expected
// to attach the token and recover from 401s (see api.AuthTransport).
func New(transport http.RoundTripper, opts ...Option) (*Proxy, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	upstream, err := url.Parse(cfg.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid upstream URL: %w", err)
	}
	if upstream.Scheme == "" || upstream.Host == "" {
		return nil, fmt.Errorf("invalid upstream URL %q: scheme and host required", cfg.baseURL)
	}

	reverseProxyHandler := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(upstream)
			filterHeaders(pr.Out.Header)
		},
		Transport:    transport,
		ErrorHandler: upstreamError,
	}

	logger := slog.Default()

	mux := http.NewServeMux()
	mux.Handle("/", applyMiddlewares(reverseProxyHandler,
		Logging(logger),
		Recovery,
	))
	if cfg.health != nil {
		mux.Handle("GET "+HealthPath, applyMiddlewares(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(r.Context(), w, cfg.health(r.Context()), http.StatusOK)
		}), Recovery))
	}

	return &Proxy{mux: mux}, nil
}

// upstreamError renders transport failures in the API's own error shape.
func upstreamError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusBadGateway
	if errors.Is(err, context.DeadlineExceeded) {
		status = http.StatusGatewayTimeout
	}
	slog.WarnContext(r.Context(), "upstream request failed", "path", r.URL.Path, "error", err)
	writeStatus(r.Context(), w, status)
}

// ServeHTTP implements http.Handler interface
func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.mux.ServeHTTP(w, r)
}

// Start starts the HTTP server in the background and returns immediately.
// Returns a channel for runtime errors and a startup error if any.
//
// Startup errors (port in use, permission denied) are returned immediately.
// Runtime errors (network failures during operation) are sent to the error channel.
//
// The caller is responsible for calling Shutdown() to stop the server.
func (p *Proxy) Start(ctx context.Context, address string) (<-chan error, error) {
	// Startup phase: Create listener synchronously to catch port-in-use errors immediately
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", address, err)
	}
	p.addr = listener.Addr()

	p.server = &http.Server{
		Handler:      p,
		ReadTimeout:  30 * time.Second, // Inbound: Read entire client request, uploads included
		WriteTimeout: 2 * time.Minute,  // Inbound: Covers an upstream call plus one re-auth and retry
		IdleTimeout:  90 * time.Second, // Inbound: Keep-alive wait for next request from client
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	errCh := make(chan error, 1)

	go func() {
		err := p.server.Serve(listener)
		// Only report error if not from graceful shutdown
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	return errCh, nil
}

// Addr returns the listening address once started, nil before.
func (p *Proxy) Addr() net.Addr {
	return p.addr
}

// Shutdown performs graceful shutdown of the HTTP server.
// Returns error if shutdown fails or times out.
func (p *Proxy) Shutdown(ctx context.Context) error {
	if p.server == nil {
		return nil
	}

	if err := p.server.Shutdown(ctx); err != nil {
		// Graceful shutdown failed - force close
		_ = p.server.Close()
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	return nil
}
