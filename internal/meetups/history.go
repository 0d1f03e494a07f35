package meetups

import (
	"context"
	"net/url"

	"github.com/rockrashit19/Duslar/internal/api"
)

// History covers /history.
type History struct {
	client *api.Client
}

// People returns one page of users the current user attended past events
// with, most recently seen first.
func (s *History) People(ctx context.Context, page Page) ([]PersonHistory, error) {
	q := url.Values{}
	if err := page.encode(q); err != nil {
		return nil, err
	}

	var people []PersonHistory
	if err := s.client.Get(ctx, "/history/people", &people, api.WithQuery(q)); err != nil {
		return nil, err
	}
	return people, nil
}
