package meetups

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

// ErrInvalidFilter is wrapped by every Filter validation failure.
var ErrInvalidFilter = errors.New("invalid filter")

const (
	dayLayout   = "2006-01-02"
	dayStart    = "T00:00:00.000Z"
	dayEnd      = "T23:59:59.999Z"
	maxQueryLen = 120
)

// Filter narrows an event listing. From and To are calendar days
// (YYYY-MM-DD), both inclusive. Zero fields are not sent.
type Filter struct {
	City   string
	From   string
	To     string
	Gender Gender
	Query  string
}

// Normalize trims and collapses whitespace and validates the day range and
// gender. An "all" gender is kept; it still narrows to unrestricted events.
func (f Filter) Normalize() (Filter, error) {
	f.City = strings.Join(strings.Fields(f.City), " ")
	f.Query = strings.TrimSpace(f.Query)
	f.From = strings.TrimSpace(f.From)
	f.To = strings.TrimSpace(f.To)

	var from, to time.Time
	var err error
	if f.From != "" {
		if from, err = time.Parse(dayLayout, f.From); err != nil {
			return Filter{}, fmt.Errorf("%w: from %q is not a YYYY-MM-DD date", ErrInvalidFilter, f.From)
		}
	}
	if f.To != "" {
		if to, err = time.Parse(dayLayout, f.To); err != nil {
			return Filter{}, fmt.Errorf("%w: to %q is not a YYYY-MM-DD date", ErrInvalidFilter, f.To)
		}
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return Filter{}, fmt.Errorf("%w: from %s is after to %s", ErrInvalidFilter, f.From, f.To)
	}

	switch f.Gender {
	case "", GenderMale, GenderFemale, GenderAll:
	default:
		return Filter{}, fmt.Errorf("%w: gender must be male, female or all, got %q", ErrInvalidFilter, f.Gender)
	}

	if utf8.RuneCountInString(f.Query) > maxQueryLen {
		return Filter{}, fmt.Errorf("%w: query longer than %d characters", ErrInvalidFilter, maxQueryLen)
	}
	return f, nil
}

// encode adds the normalized filter to q. Day bounds become UTC instants
// covering the whole day.
func (f Filter) encode(q url.Values) error {
	params := []struct {
		name  string
		value string
	}{
		{"city", f.City},
		{"from", bound(f.From, dayStart)},
		{"to", bound(f.To, dayEnd)},
		{"gender", string(f.Gender)},
		{"q", f.Query},
	}
	for _, p := range params {
		if p.value == "" {
			continue
		}
		if err := addQuery(q, p.name, p.value); err != nil {
			return err
		}
	}
	return nil
}

func bound(day, suffix string) string {
	if day == "" {
		return ""
	}
	return day + suffix
}
