package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/rockrashit19/Duslar/internal/i18n"
	"github.com/rockrashit19/Duslar/internal/meetups"
)

func profileCommand() *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "view and edit your profile",
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "show your profile",
				Action: withRuntime(profileShowAction),
			},
			{
				Name:  "update",
				Usage: "change your city or gender",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "city", Usage: "city name in Cyrillic; empty clears it"},
					&cli.StringFlag{Name: "gender", Usage: "male|female|unknown"},
				},
				Action: withRuntime(profileUpdateAction),
			},
			{
				Name:  "events",
				Usage: "list events you joined",
				Flags: append(pageFlags(),
					&cli.StringFlag{Name: "status", Usage: "past|future|all", Value: string(meetups.MyEventsFuture)},
				),
				Action: withRuntime(profileEventsAction),
			},
		},
	}
}

func usersCommand() *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "look up other users",
		Commands: []*cli.Command{
			{
				Name:      "show",
				Usage:     "show a user's public profile",
				ArgsUsage: "<user-id>",
				Action:    withRuntime(usersShowAction),
			},
		},
	}
}

func renderMe(rt *runtime, me *meetups.UserMe) error {
	return rt.out.Record(me, [][2]string{
		{"id", strconv.FormatInt(me.ID, 10)},
		{"name", me.FullName},
		{"username", me.Username},
		{"city", me.City},
		{"gender", string(me.Gender)},
		{"role", me.Role},
		{"events", strconv.Itoa(me.EventsTotal)},
	})
}

func profileShowAction(ctx context.Context, _ *cli.Command, rt *runtime) error {
	me, err := rt.app.Session.RefreshMe(ctx)
	if err != nil {
		return rt.fail(ctx, err, i18n.LoadFailed)
	}
	return renderMe(rt, me)
}

func profileUpdateAction(ctx context.Context, cmd *cli.Command, rt *runtime) error {
	var update meetups.ProfileUpdate
	if cmd.IsSet("city") {
		city := meetups.NormalizeCyrillic(cmd.String("city"))
		update.City = &city
	}
	if cmd.IsSet("gender") {
		gender := meetups.Gender(cmd.String("gender"))
		update.Gender = &gender
	}
	if update.City == nil && update.Gender == nil {
		return fmt.Errorf("nothing to update: set --city or --gender")
	}

	me, err := rt.app.Meetups.Users.UpdateMe(ctx, update)
	if err != nil {
		return rt.fail(ctx, err, i18n.SaveFailed)
	}
	return renderMe(rt, me)
}

func profileEventsAction(ctx context.Context, cmd *cli.Command, rt *runtime) error {
	status := meetups.MyEventsStatus(cmd.String("status"))
	events, err := collect(ctx, cmd, meetups.EventCardID, func(ctx context.Context, page meetups.Page) ([]meetups.EventCard, error) {
		return rt.app.Meetups.Users.MyEvents(ctx, status, page)
	})
	if err != nil {
		return rt.fail(ctx, err, i18n.LoadFailed)
	}
	return renderEvents(rt, events)
}

func usersShowAction(ctx context.Context, cmd *cli.Command, rt *runtime) error {
	id, err := idArg(cmd, 0, "user id")
	if err != nil {
		return err
	}

	user, err := rt.app.Meetups.Users.Get(ctx, id)
	if err != nil {
		return rt.fail(ctx, err, i18n.LoadFailed)
	}
	return rt.out.Record(user, [][2]string{
		{"id", strconv.FormatInt(user.ID, 10)},
		{"name", user.FullName},
		{"username", user.Username},
		{"city", user.City},
		{"events together", strconv.Itoa(user.EventsTogether)},
	})
}
