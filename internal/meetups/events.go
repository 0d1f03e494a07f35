package meetups

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rockrashit19/Duslar/internal/api"
)

// Events covers /events.
type Events struct {
	client *api.Client
}

// List returns one page of upcoming events matching filter, ordered by start time.
func (s *Events) List(ctx context.Context, filter Filter, page Page) ([]EventCard, error) {
	filter, err := filter.Normalize()
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	if err := filter.encode(q); err != nil {
		return nil, err
	}
	if err := page.encode(q); err != nil {
		return nil, err
	}

	var cards []EventCard
	if err := s.client.Get(ctx, "/events", &cards, api.WithQuery(q)); err != nil {
		return nil, err
	}
	return cards, nil
}

// Get returns one event.
func (s *Events) Get(ctx context.Context, id int64) (*Event, error) {
	var event Event
	if err := s.client.Get(ctx, idPath("/events", id), &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// Create validates and creates an event. Only organizers and admins may do so;
// the API answers 403 otherwise.
func (s *Events) Create(ctx context.Context, payload EventCreate) (*Event, error) {
	if payload.GenderRestriction == "" {
		payload.GenderRestriction = GenderAll
	}
	if err := Validate(payload); err != nil {
		return nil, fmt.Errorf("invalid event: %w", err)
	}

	var event Event
	if err := s.client.Post(ctx, "/events", payload, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// Join signs the current user up for an event.
func (s *Events) Join(ctx context.Context, id int64) (*Membership, error) {
	var m Membership
	if err := s.client.Post(ctx, idPath("/events", id, "join"), nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Leave withdraws the current user from an event. Leaving an event the user
// never joined succeeds.
func (s *Events) Leave(ctx context.Context, id int64) (*Membership, error) {
	var m Membership
	if err := s.client.Post(ctx, idPath("/events", id, "leave"), nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// SetVisibility shows or hides the current user in an event's participant list.
func (s *Events) SetVisibility(ctx context.Context, id int64, visible bool) (*Visibility, error) {
	body := struct {
		IsVisible bool `json:"is_visible"`
	}{IsVisible: visible}

	var v Visibility
	if err := s.client.Post(ctx, idPath("/events", id, "visibility"), body, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Participants returns one page of an event's participants in join order.
func (s *Events) Participants(ctx context.Context, id int64, page Page) ([]Participant, error) {
	q := url.Values{}
	if err := page.encode(q); err != nil {
		return nil, err
	}

	var participants []Participant
	if err := s.client.Get(ctx, idPath("/events", id, "participants"), &participants, api.WithQuery(q)); err != nil {
		return nil, err
	}
	return participants, nil
}
