package commands

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/rockrashit19/Duslar/internal/meetups"
	"github.com/rockrashit19/Duslar/internal/tokensource"
)

func sessionCommand() *cli.Command {
	return &cli.Command{
		Name:   "session",
		Usage:  "sign in with Telegram init data and show the current user",
		Action: withRuntime(sessionAction),
		Commands: []*cli.Command{
			{
				Name:   "logout",
				Usage:  "forget the stored session token",
				Action: logoutAction,
			},
		},
	}
}

type sessionView struct {
	User   *meetups.UserMe     `json:"user"`
	Claims *tokensource.Claims `json:"claims,omitempty"`
}

func sessionAction(ctx context.Context, _ *cli.Command, rt *runtime) error {
	state := rt.app.Session.State()
	view := sessionView{User: state.Me}

	if token, ok := rt.app.Tokens.Get(); ok {
		claims, err := tokensource.Describe(token)
		if err != nil {
			slog.DebugContext(ctx, "token is not a readable JWT", "error", err)
		} else {
			view.Claims = claims
		}
	}

	me := state.Me
	fields := [][2]string{
		{"id", strconv.FormatInt(me.ID, 10)},
		{"name", me.FullName},
		{"username", me.Username},
		{"city", me.City},
		{"gender", string(me.Gender)},
		{"role", me.Role},
		{"events", strconv.Itoa(me.EventsTotal)},
	}
	if c := view.Claims; c != nil && !c.ExpiresAt.IsZero() {
		fields = append(fields, [2]string{"token expires", c.ExpiresAt.Local().Format(time.DateTime)})
	}
	return rt.out.Record(view, fields)
}

func logoutAction(ctx context.Context, cmd *cli.Command) error {
	rt, err := setup(ctx, cmd, false)
	if err != nil {
		return err
	}
	defer rt.Close(ctx)

	if err := rt.app.Logout(ctx); err != nil {
		return err
	}
	return rt.out.Message(map[string]bool{"logged_out": true}, "Logged out.")
}
