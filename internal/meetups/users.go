package meetups

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/rockrashit19/Duslar/internal/api"
)

// Users covers /me and /users.
type Users struct {
	client *api.Client
}

// Me returns the current user's profile.
func (s *Users) Me(ctx context.Context) (*UserMe, error) {
	var me UserMe
	if err := s.client.Get(ctx, "/me", &me); err != nil {
		return nil, err
	}
	return &me, nil
}

// UpdateMe changes the current user's city and/or gender.
func (s *Users) UpdateMe(ctx context.Context, update ProfileUpdate) (*UserMe, error) {
	if update.City != nil {
		city := strings.Join(strings.Fields(*update.City), " ")
		update.City = &city
	}
	if err := Validate(update); err != nil {
		return nil, fmt.Errorf("invalid profile update: %w", err)
	}

	var me UserMe
	if err := s.client.Put(ctx, "/users/me", update, &me); err != nil {
		return nil, err
	}
	return &me, nil
}

// Get returns another user's public profile.
func (s *Users) Get(ctx context.Context, id int64) (*UserPublic, error) {
	var user UserPublic
	if err := s.client.Get(ctx, idPath("/users", id), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// MyEvents returns one page of events the current user joined, newest first.
// An empty status lists all of them.
func (s *Users) MyEvents(ctx context.Context, status MyEventsStatus, page Page) ([]EventCard, error) {
	q := url.Values{}
	switch status {
	case "":
	case MyEventsPast, MyEventsFuture, MyEventsAll:
		if err := addQuery(q, "status", string(status)); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("status must be past, future or all, got %q", status)
	}
	if err := page.encode(q); err != nil {
		return nil, err
	}

	var cards []EventCard
	if err := s.client.Get(ctx, "/users/me/events", &cards, api.WithQuery(q)); err != nil {
		return nil, err
	}
	return cards, nil
}
