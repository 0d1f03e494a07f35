package meetups

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rockrashit19/Duslar/internal/api"
)

// MaxNoteLength is the longest note the API stores, in characters.
const MaxNoteLength = 80

// ErrNoNote is returned by Notes.Get when the user has no note about the target.
var ErrNoNote = errors.New("no note")

// Notes covers /users/{id}/note.
type Notes struct {
	client *api.Client
}

type noteInput struct {
	Text string `json:"text" validate:"required,max=80"`
}

// Get returns the current user's note about target.
func (s *Notes) Get(ctx context.Context, target int64) (*Note, error) {
	var note Note
	if err := s.client.Get(ctx, idPath("/users", target, "note"), &note); err != nil {
		if api.IsStatus(err, http.StatusNotFound) {
			return nil, ErrNoNote
		}
		return nil, err
	}
	return &note, nil
}

// Put creates or replaces the note about target. Text is trimmed first.
func (s *Notes) Put(ctx context.Context, target int64, text string) (*Note, error) {
	in := noteInput{Text: strings.TrimSpace(text)}
	if err := Validate(in); err != nil {
		return nil, fmt.Errorf("invalid note: %w", err)
	}

	var note Note
	if err := s.client.Put(ctx, idPath("/users", target, "note"), in, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// Delete removes the note about target.
func (s *Notes) Delete(ctx context.Context, target int64) error {
	return s.client.Delete(ctx, idPath("/users", target, "note"))
}
