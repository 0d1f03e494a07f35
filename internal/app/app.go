package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/message"

	"github.com/rockrashit19/Duslar/internal/api"
	"github.com/rockrashit19/Duslar/internal/i18n"
	"github.com/rockrashit19/Duslar/internal/meetups"
	"github.com/rockrashit19/Duslar/internal/proxy"
	"github.com/rockrashit19/Duslar/internal/session"
	"github.com/rockrashit19/Duslar/internal/tokensource"
)

// Version is reported in the User-Agent header.
var Version = "dev"

// App wires the client stack together: token store, exchanger, client core,
// session and feature services.
type App struct {
	cfg *Config

	Tokens  *tokensource.Holder
	Session *session.Session
	Meetups *meetups.Service
	Printer *message.Printer

	transport *api.AuthTransport
}

// New creates a new App instance. The persisted token, if any, is read here.
func New(ctx context.Context, cfg *Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	store, err := cfg.Auth.NewTokenStore()
	if err != nil {
		return nil, fmt.Errorf("failed to create token store: %w", err)
	}

	holder, err := tokensource.NewHolder(ctx, store)
	if err != nil {
		return nil, fmt.Errorf("failed to load token: %w", err)
	}

	exchanger, err := tokensource.NewExchanger(cfg.API.BaseURL, cfg.Auth.NewInitDataProvider(),
		tokensource.WithTimeout(cfg.Auth.ReauthTimeout))
	if err != nil {
		return nil, fmt.Errorf("failed to create exchanger: %w", err)
	}

	reauth, err := api.NewReauthenticator(exchanger, holder, cfg.Auth.ReauthTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to create reauthenticator: %w", err)
	}

	client, err := api.NewClient(cfg.API.BaseURL, holder, reauth,
		api.WithTimeout(cfg.API.Timeout),
		api.WithUserAgent("duslar/"+Version))
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}

	printer := i18n.NewPrinter(cfg.Locale)
	services := meetups.New(client)

	sess, err := session.New(holder, exchanger, services.Users, session.WithPrinter(printer))
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &App{
		cfg:       cfg,
		Tokens:    holder,
		Session:   sess,
		Meetups:   services,
		Printer:   printer,
		transport: &api.AuthTransport{Tokens: holder, Reauth: reauth},
	}, nil
}

// Authenticate bootstraps the session and fails with the human-readable
// reason if it did not become usable.
func (a *App) Authenticate(ctx context.Context) (*meetups.UserMe, error) {
	state := a.Session.Bootstrap(ctx)
	if !state.OK() {
		return nil, &AuthError{Reason: state.Reason, Err: state.Err}
	}
	return state.Me, nil
}

// Logout forgets the bearer token, in memory and in storage.
func (a *App) Logout(ctx context.Context) error {
	return a.Tokens.Clear(ctx)
}

// AuthError is a failed session bootstrap.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	return e.Reason
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// healthStatus is served by the proxy's health endpoint.
type healthStatus struct {
	Status string `json:"status"`
	UserID int64  `json:"user_id,omitempty"`
	Reason string `json:"reason,omitempty"`
}

func (a *App) health(context.Context) any {
	state := a.Session.State()
	h := healthStatus{Status: state.Status.String(), Reason: state.Reason}
	if state.Me != nil {
		h.UserID = state.Me.ID
	}
	return h
}

// Start authenticates, starts the local proxy and blocks until shutdown is
// triggered. Uses errgroup for runtime error monitoring and shutdown function
// collection for coordinated cleanup.
func (a *App) Start(ctx context.Context) error {
	if _, err := a.Authenticate(ctx); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	proxyServer, err := proxy.New(a.transport,
		proxy.WithBaseURL(a.cfg.API.BaseURL),
		proxy.WithHealth(a.health))
	if err != nil {
		return fmt.Errorf("failed to create proxy: %w", err)
	}

	g, gCtx := errgroup.WithContext(ctx)

	address := a.cfg.Server.Host + ":" + strconv.FormatUint(uint64(a.cfg.Server.Port), 10)
	var shutdownFuncs []func(context.Context) error

	// Startup phase: Start services
	slog.InfoContext(gCtx, "starting proxy server", "address", address, "upstream", a.cfg.API.BaseURL)
	proxyErrCh, err := proxyServer.Start(gCtx, address)
	if err != nil {
		return fmt.Errorf("proxy startup failed: %w", err)
	}
	shutdownFuncs = append(shutdownFuncs, proxyServer.Shutdown)

	// Monitor runtime errors - errgroup cancels context on first error
	g.Go(func() error {
		select {
		case err := <-proxyErrCh:
			if err != nil {
				slog.ErrorContext(gCtx, "proxy runtime error", "error", err)
				return fmt.Errorf("proxy: %w", err)
			}
			return nil
		case <-gCtx.Done():
			return nil
		}
	})

	slog.InfoContext(gCtx, "application ready", "address", address)

	runtimeErr := g.Wait()

	slog.InfoContext(gCtx, "shutting down services")

	// Shutdown phase: Stop all services
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Shutdown.Timeout)
	defer cancel()

	var errs []error
	if runtimeErr != nil {
		errs = append(errs, fmt.Errorf("runtime: %w", runtimeErr))
	}

	for i := len(shutdownFuncs) - 1; i >= 0; i-- {
		if err := shutdownFuncs[i](shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "service shutdown failed", "error", err)
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	slog.Info("application stopped")
	return nil
}
