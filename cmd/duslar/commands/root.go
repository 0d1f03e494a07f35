package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/rockrashit19/Duslar/internal/app"
)

// Execute runs the root command with the given context and arguments.
func Execute(ctx context.Context, args []string) error {
	return newRootCommand().Run(ctx, args)
}

func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:    "duslar",
		Usage:   "Find events and meet people through the Duslar API",
		Version: app.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level (debug|info|warn|error)",
				Value: slog.LevelInfo.String(),
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "log format (text|json)",
				Value: string(app.DefaultConfigLogFormat),
			},
			&cli.StringFlag{
				Name:  "locale",
				Usage: "language of messages (ru|en)",
				Value: app.DefaultConfigLocale,
			},
			&cli.StringFlag{
				Name:  "api--base-url",
				Usage: "events API base URL",
				Value: app.DefaultConfigAPIBaseURL,
			},
			&cli.StringFlag{
				Name:  "auth--storage",
				Usage: "where the session token is kept (file|env|keyring|memory)",
				Value: string(app.DefaultConfigAuthStorage),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output format (table|json); defaults to table on a terminal",
			},
		},
		Commands: []*cli.Command{
			sessionCommand(),
			eventsCommand(),
			profileCommand(),
			usersCommand(),
			notesCommand(),
			historyCommand(),
			uploadCommand(),
			initDataCommand(),
			proxyCommand(),
		},
	}
}

// idArg parses the positional argument at index i as an object id.
func idArg(cmd *cli.Command, i int, name string) (int64, error) {
	raw := cmd.Args().Get(i)
	if raw == "" {
		return 0, fmt.Errorf("missing %s argument", name)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return id, nil
}
