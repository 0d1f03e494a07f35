package meetups

import "context"

// Pager accumulates a paged listing. Items are deduplicated by key: an item
// seen again keeps its first position and takes the newer value. A page
// shorter than the limit marks the end.
type Pager[T any] struct {
	limit int
	key   func(T) int64

	items  []T
	index  map[int64]int
	offset int
	eof    bool
}

// NewPager creates a Pager fetching limit items per page. limit <= 0 means
// DefaultPageSize.
func NewPager[T any](limit int, key func(T) int64) *Pager[T] {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	return &Pager[T]{limit: limit, key: key, index: make(map[int64]int)}
}

// Page returns the next page to fetch.
func (p *Pager[T]) Page() Page {
	return Page{Limit: p.limit, Offset: p.offset}
}

// Add merges a fetched page and advances to the next one.
func (p *Pager[T]) Add(page []T) {
	for _, item := range page {
		k := p.key(item)
		if i, ok := p.index[k]; ok {
			p.items[i] = item
			continue
		}
		p.index[k] = len(p.items)
		p.items = append(p.items, item)
	}
	p.offset += p.limit
	p.eof = len(page) < p.limit
}

// Next fetches and merges the next page unless the end was reached.
// It returns the number of items fetched.
func (p *Pager[T]) Next(ctx context.Context, fetch func(context.Context, Page) ([]T, error)) (int, error) {
	if p.eof {
		return 0, nil
	}
	page, err := fetch(ctx, p.Page())
	if err != nil {
		return 0, err
	}
	p.Add(page)
	return len(page), nil
}

// Items returns the accumulated items in first-seen order.
func (p *Pager[T]) Items() []T {
	return p.items
}

// EOF reports whether the last fetched page was short.
func (p *Pager[T]) EOF() bool {
	return p.eof
}

// Reset starts over from the first page, e.g. after the filter changed.
func (p *Pager[T]) Reset() {
	p.items = nil
	p.index = make(map[int64]int)
	p.offset = 0
	p.eof = false
}

// EventCardID keys event cards for a Pager.
func EventCardID(e EventCard) int64 { return e.ID }

// ParticipantID keys participants for a Pager.
func ParticipantID(p Participant) int64 { return p.ID }

// PersonHistoryID keys history entries for a Pager.
func PersonHistoryID(p PersonHistory) int64 { return p.ID }
