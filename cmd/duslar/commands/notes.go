package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/rockrashit19/Duslar/internal/i18n"
	"github.com/rockrashit19/Duslar/internal/meetups"
)

func notesCommand() *cli.Command {
	return &cli.Command{
		Name:  "notes",
		Usage: "keep private notes about people",
		Commands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "show your note about a user",
				ArgsUsage: "<user-id>",
				Action:    withRuntime(notesGetAction),
			},
			{
				Name:      "set",
				Usage:     fmt.Sprintf("write a note about a user (up to %d characters)", meetups.MaxNoteLength),
				ArgsUsage: "<user-id> <text...>",
				Action:    withRuntime(notesSetAction),
			},
			{
				Name:      "delete",
				Usage:     "delete your note about a user",
				ArgsUsage: "<user-id>",
				Action:    withRuntime(notesDeleteAction),
			},
		},
	}
}

func notesGetAction(ctx context.Context, cmd *cli.Command, rt *runtime) error {
	id, err := idArg(cmd, 0, "user id")
	if err != nil {
		return err
	}

	note, err := rt.app.Meetups.Notes.Get(ctx, id)
	if errors.Is(err, meetups.ErrNoNote) {
		return rt.out.Message(nil, "No note.")
	}
	if err != nil {
		return rt.fail(ctx, err, i18n.LoadFailed)
	}
	return renderNote(rt, note)
}

func notesSetAction(ctx context.Context, cmd *cli.Command, rt *runtime) error {
	id, err := idArg(cmd, 0, "user id")
	if err != nil {
		return err
	}

	text := strings.Join(cmd.Args().Slice()[1:], " ")
	note, err := rt.app.Meetups.Notes.Put(ctx, id, text)
	if meetups.IsValidation(err) {
		if strings.TrimSpace(text) == "" {
			return errors.New(i18n.Text(rt.app.Printer, i18n.NoteEmpty))
		}
		return fmt.Errorf("note is longer than %d characters", meetups.MaxNoteLength)
	}
	if err != nil {
		return rt.fail(ctx, err, i18n.SaveFailed)
	}
	return renderNote(rt, note)
}

func notesDeleteAction(ctx context.Context, cmd *cli.Command, rt *runtime) error {
	id, err := idArg(cmd, 0, "user id")
	if err != nil {
		return err
	}

	if err := rt.app.Meetups.Notes.Delete(ctx, id); err != nil {
		return rt.fail(ctx, err, i18n.SaveFailed)
	}
	return rt.out.Message(map[string]int64{"deleted": id}, "Note deleted.")
}

func renderNote(rt *runtime, note *meetups.Note) error {
	return rt.out.Record(note, [][2]string{
		{"user", strconv.FormatInt(note.TargetUserID, 10)},
		{"note", note.Text},
		{"updated", note.UpdatedAt.Local().Format(time.DateTime)},
	})
}

func historyCommand() *cli.Command {
	return &cli.Command{
		Name:   "history",
		Usage:  "list people you attended past events with",
		Flags:  pageFlags(),
		Action: withRuntime(historyAction),
	}
}

func historyAction(ctx context.Context, cmd *cli.Command, rt *runtime) error {
	people, err := collect(ctx, cmd, meetups.PersonHistoryID, rt.app.Meetups.History.People)
	if err != nil {
		return rt.fail(ctx, err, i18n.LoadFailed)
	}

	rows := make([][]string, 0, len(people))
	for _, p := range people {
		lastSeen := ""
		if p.LastSeenAt != nil {
			lastSeen = p.LastSeenAt.Local().Format(time.DateOnly)
		}
		rows = append(rows, []string{
			strconv.FormatInt(p.ID, 10),
			p.FullName,
			p.City,
			strconv.Itoa(p.EventsTogether),
			lastSeen,
		})
	}
	return rt.out.List(people, []string{"ID", "NAME", "CITY", "TOGETHER", "LAST SEEN"}, rows)
}

func uploadCommand() *cli.Command {
	return &cli.Command{
		Name:      "upload",
		Usage:     "upload an image and print its URL",
		ArgsUsage: "<file>",
		Action: withRuntime(func(ctx context.Context, cmd *cli.Command, rt *runtime) error {
			path := cmd.Args().First()
			if path == "" {
				return errors.New("missing file argument")
			}
			upload, err := uploadFile(ctx, rt, path)
			if err != nil {
				return err
			}
			return rt.out.Message(upload, upload.URL)
		}),
	}
}

func uploadFile(ctx context.Context, rt *runtime, path string) (*meetups.Upload, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	upload, err := rt.app.Meetups.Files.Upload(ctx, filepath.Base(path), f)
	if err != nil {
		return nil, rt.fail(ctx, err, i18n.UploadFailed)
	}
	return upload, nil
}
