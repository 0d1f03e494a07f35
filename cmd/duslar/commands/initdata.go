package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/rockrashit19/Duslar/internal/initdata"
)

func initDataCommand() *cli.Command {
	return &cli.Command{
		Name:  "initdata",
		Usage: "work with Telegram Mini App init data",
		Commands: []*cli.Command{
			{
				Name:  "mock",
				Usage: "sign init data for a test user, for use outside Telegram",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "bot-token",
						Usage:    "bot token shared with the backend",
						Sources:  cli.EnvVars("TELEGRAM_BOT_TOKEN"),
						Required: true,
					},
					&cli.Int64Flag{Name: "user-id", Required: true},
					&cli.StringFlag{Name: "username"},
					&cli.StringFlag{Name: "first-name"},
					&cli.StringFlag{Name: "last-name"},
				},
				Action: initDataMockAction,
			},
		},
	}
}

func initDataMockAction(_ context.Context, cmd *cli.Command) error {
	user := initdata.User{
		ID:        cmd.Int64("user-id"),
		Username:  cmd.String("username"),
		FirstName: cmd.String("first-name"),
		LastName:  cmd.String("last-name"),
	}

	data, err := initdata.Sign(cmd.String("bot-token"), user, time.Now())
	if err != nil {
		return fmt.Errorf("signing init data: %w", err)
	}

	_, err = fmt.Fprintln(cmd.Root().Writer, data)
	return err
}
