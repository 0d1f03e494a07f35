package meetups

import (
	"golang.org/x/text/message"

	"github.com/rockrashit19/Duslar/internal/i18n"
)

// Full reports whether a capped event has no seats left.
func (e EventCard) Full() bool {
	return e.MaxParticipants != nil && e.ParticipantsCount >= *e.MaxParticipants
}

// StatusLabel renders whether an event can still be joined.
func StatusLabel(p *message.Printer, e EventCard) string {
	switch {
	case e.Status == EventStatusPast:
		return i18n.Text(p, i18n.EventPast)
	case e.Full():
		return i18n.Text(p, i18n.EventFull)
	default:
		return i18n.Text(p, i18n.EventOpen)
	}
}

// GenderLabel renders an event's audience restriction.
func GenderLabel(p *message.Printer, g Gender) string {
	switch g {
	case GenderMale:
		return i18n.Text(p, i18n.GenderMale)
	case GenderFemale:
		return i18n.Text(p, i18n.GenderFemale)
	default:
		return i18n.Text(p, i18n.GenderAll)
	}
}

// Clip shortens s to at most n characters, marking the cut with "...".
// A non-positive n clips everything.
func Clip(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
