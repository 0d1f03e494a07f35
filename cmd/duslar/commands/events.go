package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/message"

	"github.com/rockrashit19/Duslar/internal/i18n"
	"github.com/rockrashit19/Duslar/internal/meetups"
)

func pageFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "limit",
			Usage: "page size",
			Value: meetups.DefaultPageSize,
		},
		&cli.IntFlag{
			Name:  "pages",
			Usage: "number of pages to fetch (0 fetches all)",
			Value: 1,
		},
	}
}

// collect pages through fetch with a Pager, the way a scrolling list loads
// more items, until pages are fetched or the list is exhausted.
func collect[T any](ctx context.Context, cmd *cli.Command, key func(T) int64, fetch func(context.Context, meetups.Page) ([]T, error)) ([]T, error) {
	limit := cmd.Int("limit")
	if limit <= 0 {
		return nil, fmt.Errorf("invalid limit %d", limit)
	}
	pager := meetups.NewPager(limit, key)

	for n := 0; !pager.EOF() && (cmd.Int("pages") <= 0 || n < cmd.Int("pages")); n++ {
		if _, err := pager.Next(ctx, fetch); err != nil {
			return nil, err
		}
	}
	return pager.Items(), nil
}

func eventsCommand() *cli.Command {
	return &cli.Command{
		Name:  "events",
		Usage: "browse, create and join events",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list upcoming events",
				Flags: append(pageFlags(),
					&cli.StringFlag{Name: "city", Usage: "city name"},
					&cli.StringFlag{Name: "from", Usage: "first day, YYYY-MM-DD"},
					&cli.StringFlag{Name: "to", Usage: "last day, YYYY-MM-DD"},
					&cli.StringFlag{Name: "gender", Usage: "audience (male|female|all)"},
					&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: "search in titles"},
				),
				Action: withRuntime(eventsListAction),
			},
			{
				Name:      "show",
				Usage:     "show an event and its participants",
				ArgsUsage: "<event-id>",
				Action:    withRuntime(eventsShowAction),
			},
			{
				Name:  "create",
				Usage: "create an event",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Required: true},
					&cli.StringFlag{Name: "description"},
					&cli.StringFlag{Name: "city", Required: true},
					&cli.StringFlag{Name: "location", Usage: "address", Required: true},
					&cli.TimestampFlag{
						Name:     "at",
						Usage:    "start time, YYYY-MM-DD HH:MM in local time",
						Required: true,
						Config:   cli.TimestampConfig{Layouts: []string{"2006-01-02 15:04", time.RFC3339}, Timezone: time.Local},
					},
					&cli.StringFlag{Name: "gender", Usage: "audience (male|female|all)", Value: string(meetups.GenderAll)},
					&cli.IntFlag{Name: "max", Usage: "maximum participants (0 means unlimited)"},
					&cli.StringFlag{Name: "photo", Usage: "path to a cover image to upload"},
				},
				Action: withRuntime(eventsCreateAction),
			},
			{
				Name:      "join",
				Usage:     "join an event",
				ArgsUsage: "<event-id>",
				Action:    withRuntime(membershipAction(true)),
			},
			{
				Name:      "leave",
				Usage:     "leave an event",
				ArgsUsage: "<event-id>",
				Action:    withRuntime(membershipAction(false)),
			},
			{
				Name:      "visibility",
				Usage:     "show or hide yourself in an event's participant list",
				ArgsUsage: "<event-id> <visible|hidden>",
				Action:    withRuntime(eventsVisibilityAction),
			},
			{
				Name:      "participants",
				Usage:     "list an event's participants",
				ArgsUsage: "<event-id>",
				Flags:     pageFlags(),
				Action:    withRuntime(eventsParticipantsAction),
			},
		},
	}
}

func eventsListAction(ctx context.Context, cmd *cli.Command, rt *runtime) error {
	filter := meetups.Filter{
		City:   cmd.String("city"),
		From:   cmd.String("from"),
		To:     cmd.String("to"),
		Gender: meetups.Gender(cmd.String("gender")),
		Query:  cmd.String("query"),
	}

	events, err := collect(ctx, cmd, meetups.EventCardID, func(ctx context.Context, page meetups.Page) ([]meetups.EventCard, error) {
		return rt.app.Meetups.Events.List(ctx, filter, page)
	})
	if err != nil {
		return rt.fail(ctx, err, i18n.LoadFailed)
	}
	return renderEvents(rt, events)
}

func renderEvents(rt *runtime, events []meetups.EventCard) error {
	p := rt.app.Printer
	rows := make([][]string, 0, len(events))
	for _, e := range events {
		rows = append(rows, []string{
			strconv.FormatInt(e.ID, 10),
			e.DateTime.Local().Format("02.01 15:04"),
			meetups.Clip(e.Title, 40),
			e.City,
			meetups.GenderLabel(p, e.GenderRestriction),
			seats(e),
			meetups.StatusLabel(p, e),
			joinedMark(e.IsUserJoined),
		})
	}
	return rt.out.List(events, []string{"ID", "WHEN", "TITLE", "CITY", "FOR", "SEATS", "STATUS", "JOINED"}, rows)
}

func seats(e meetups.EventCard) string {
	if e.MaxParticipants == nil {
		return strconv.Itoa(e.ParticipantsCount)
	}
	return fmt.Sprintf("%d/%d", e.ParticipantsCount, *e.MaxParticipants)
}

func joinedMark(joined bool) string {
	if joined {
		return "yes"
	}
	return ""
}

type eventView struct {
	*meetups.Event
	Participants []meetups.Participant `json:"participants"`
}

func eventsShowAction(ctx context.Context, cmd *cli.Command, rt *runtime) error {
	id, err := idArg(cmd, 0, "event id")
	if err != nil {
		return err
	}

	var view eventView
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		event, err := rt.app.Meetups.Events.Get(gCtx, id)
		view.Event = event
		return err
	})
	g.Go(func() error {
		participants, err := rt.app.Meetups.Events.Participants(gCtx, id, meetups.Page{Limit: 50})
		view.Participants = participants
		return err
	})
	if err := g.Wait(); err != nil {
		return rt.fail(ctx, err, i18n.LoadFailed)
	}

	return rt.out.Record(view, eventFields(rt.app.Printer, view))
}

func eventFields(p *message.Printer, view eventView) [][2]string {
	e := view.Event
	fields := [][2]string{
		{"id", strconv.FormatInt(e.ID, 10)},
		{"title", e.Title},
		{"when", e.DateTime.Local().Format(time.DateTime)},
		{"city", e.City},
		{"address", e.Location},
		{"for", meetups.GenderLabel(p, e.GenderRestriction)},
		{"seats", seats(e.EventCard)},
		{"status", meetups.StatusLabel(p, e.EventCard)},
	}
	if e.Description != "" {
		fields = append(fields, [2]string{"about", e.Description})
	}
	for i, pt := range view.Participants {
		label := ""
		if i == 0 {
			label = "participants"
		}
		fields = append(fields, [2]string{label, participantName(pt)})
	}
	return fields
}

func participantName(p meetups.Participant) string {
	if p.Username != "" {
		return fmt.Sprintf("%s (@%s)", p.FullName, p.Username)
	}
	return p.FullName
}

func eventsCreateAction(ctx context.Context, cmd *cli.Command, rt *runtime) error {
	payload := meetups.EventCreate{
		Title:             cmd.String("title"),
		Description:       cmd.String("description"),
		Location:          cmd.String("location"),
		City:              cmd.String("city"),
		DateTime:          cmd.Timestamp("at").UTC(),
		GenderRestriction: meetups.Gender(cmd.String("gender")),
	}
	if limit := cmd.Int("max"); limit > 0 {
		payload.MaxParticipants = &limit
	}

	if path := cmd.String("photo"); path != "" {
		upload, err := uploadFile(ctx, rt, path)
		if err != nil {
			return err
		}
		payload.PhotoURL = upload.URL
	}

	event, err := rt.app.Meetups.Events.Create(ctx, payload)
	if meetups.IsValidation(err) {
		return errors.New(i18n.Text(rt.app.Printer, i18n.RequiredFields) + ": " + err.Error())
	}
	if err != nil {
		return rt.fail(ctx, err, i18n.CreateFailed)
	}
	return rt.out.Record(event, eventFields(rt.app.Printer, eventView{Event: event}))
}

func membershipAction(join bool) func(context.Context, *cli.Command, *runtime) error {
	return func(ctx context.Context, cmd *cli.Command, rt *runtime) error {
		id, err := idArg(cmd, 0, "event id")
		if err != nil {
			return err
		}

		var m *meetups.Membership
		if join {
			m, err = rt.app.Meetups.Events.Join(ctx, id)
		} else {
			m, err = rt.app.Meetups.Events.Leave(ctx, id)
		}
		if err != nil {
			return rt.fail(ctx, err, i18n.SaveFailed)
		}

		text := fmt.Sprintf("Left event %d.", id)
		if join {
			text = fmt.Sprintf("Joined event %d.", id)
		}
		return rt.out.Message(m, text)
	}
}

func eventsVisibilityAction(ctx context.Context, cmd *cli.Command, rt *runtime) error {
	id, err := idArg(cmd, 0, "event id")
	if err != nil {
		return err
	}

	var visible bool
	switch mode := cmd.Args().Get(1); mode {
	case "visible":
		visible = true
	case "hidden":
	default:
		return fmt.Errorf("visibility must be visible or hidden, got %q", mode)
	}

	v, err := rt.app.Meetups.Events.SetVisibility(ctx, id, visible)
	if err != nil {
		return rt.fail(ctx, err, i18n.SaveFailed)
	}
	return rt.out.Message(v, fmt.Sprintf("You are %s in event %d.", cmd.Args().Get(1), id))
}

func eventsParticipantsAction(ctx context.Context, cmd *cli.Command, rt *runtime) error {
	id, err := idArg(cmd, 0, "event id")
	if err != nil {
		return err
	}

	participants, err := collect(ctx, cmd, meetups.ParticipantID, func(ctx context.Context, page meetups.Page) ([]meetups.Participant, error) {
		return rt.app.Meetups.Events.Participants(ctx, id, page)
	})
	if err != nil {
		return rt.fail(ctx, err, i18n.LoadFailed)
	}

	rows := make([][]string, 0, len(participants))
	for _, p := range participants {
		rows = append(rows, []string{strconv.FormatInt(p.ID, 10), participantName(p), joinedMark(p.IsVisible)})
	}
	return rt.out.List(participants, []string{"ID", "NAME", "VISIBLE"}, rows)
}
