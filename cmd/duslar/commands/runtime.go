package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/rockrashit19/Duslar/internal/api"
	"github.com/rockrashit19/Duslar/internal/app"
	"github.com/rockrashit19/Duslar/internal/observability"
)

// runtime is what a command action works with: the loaded configuration,
// the wired application and an output renderer.
type runtime struct {
	cfg      *app.Config
	app      *app.App
	out      *renderer
	shutdown observability.ShutdownFunc
}

// setup loads configuration, installs logging and builds the application.
// With authenticate set, the session is bootstrapped before returning.
func setup(ctx context.Context, cmd *cli.Command, authenticate bool) (*runtime, error) {
	cfg, err := loadConfig(cmd.String("config"), cmd, os.Environ)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Set up observability before creating app
	shutdown, err := observability.Instrument(cfg.LogLevel, string(cfg.LogFormat),
		observability.WithExporter(cfg.Telemetry.Exporter, cfg.Telemetry.Endpoint))
	if err != nil {
		return nil, fmt.Errorf("failed to set up observability layer: %w", err)
	}

	out, err := newRenderer(cmd.Root().Writer, OutputFormat(cmd.String("output")))
	if err != nil {
		_ = shutdown(ctx)
		return nil, err
	}

	application, err := app.New(ctx, cfg)
	if err != nil {
		_ = shutdown(ctx)
		return nil, fmt.Errorf("failed to create app: %w", err)
	}

	rt := &runtime{cfg: cfg, app: application, out: out, shutdown: shutdown}
	if authenticate {
		if _, err := application.Authenticate(ctx); err != nil {
			rt.Close(ctx)
			return nil, err
		}
	}
	return rt, nil
}

// Close flushes the logging pipeline.
func (rt *runtime) Close(ctx context.Context) {
	if err := rt.shutdown(context.WithoutCancel(ctx)); err != nil {
		fmt.Fprintln(os.Stderr, "flushing logs:", err)
	}
}

// fail turns an API failure into the message shown to the user: the server's
// detail when it sent one, the localized fallback otherwise. Other errors are
// returned unchanged.
func (rt *runtime) fail(ctx context.Context, err error, fallback string) error {
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) && !api.IsNetwork(err) {
		return err
	}
	slog.DebugContext(ctx, "request failed", "error", err)
	return errors.New(api.Message(err, rt.app.Printer, fallback))
}

// withRuntime adapts an action that needs a ready session.
func withRuntime(action func(context.Context, *cli.Command, *runtime) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		rt, err := setup(ctx, cmd, true)
		if err != nil {
			return err
		}
		defer rt.Close(ctx)
		return action(ctx, cmd, rt)
	}
}
