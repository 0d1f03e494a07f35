package meetups

import "time"

// Gender is both an event's audience restriction and a user's gender.
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderAll     Gender = "all"
	GenderUnknown Gender = "unknown"
)

// EventStatus is the effective event status. The API reports "past" for any
// event whose start time has gone by, regardless of the stored status.
type EventStatus string

const (
	EventStatusOpen   EventStatus = "open"
	EventStatusClosed EventStatus = "closed"
	EventStatusPast   EventStatus = "past"
)

// MyEventsStatus selects which of the current user's events to list.
type MyEventsStatus string

const (
	MyEventsPast   MyEventsStatus = "past"
	MyEventsFuture MyEventsStatus = "future"
	MyEventsAll    MyEventsStatus = "all"
)

// UserMe is the current user's profile.
type UserMe struct {
	ID          int64  `json:"id"`
	Username    string `json:"username,omitempty"`
	FullName    string `json:"full_name"`
	City        string `json:"city,omitempty"`
	Role        string `json:"role"`
	Gender      Gender `json:"gender"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	EventsTotal int    `json:"events_total"`
}

// UserPublic is another user's profile as seen by the current user.
type UserPublic struct {
	ID             int64  `json:"id"`
	Username       string `json:"username,omitempty"`
	FullName       string `json:"full_name"`
	City           string `json:"city,omitempty"`
	AvatarURL      string `json:"avatar_url,omitempty"`
	EventsTogether int    `json:"events_together"`
}

// EventCard is the list representation of an event.
type EventCard struct {
	ID                int64       `json:"id"`
	Title             string      `json:"title"`
	Location          string      `json:"location"`
	City              string      `json:"city"`
	DateTime          time.Time   `json:"date_time"`
	GenderRestriction Gender      `json:"gender_restriction"`
	CreatorID         *int64      `json:"creator_id"`
	ParticipantsCount int         `json:"participants_count"`
	IsUserJoined      bool        `json:"is_user_joined"`
	PhotoURL          string      `json:"photo_url,omitempty"`
	Status            EventStatus `json:"status"`
	MaxParticipants   *int        `json:"max_participants"`
}

// Event is the full representation of an event.
type Event struct {
	EventCard
	Description string `json:"description,omitempty"`
}

// EventCreate is the payload for creating an event.
type EventCreate struct {
	Title             string    `json:"title" validate:"required,max=120"`
	Description       string    `json:"description,omitempty"`
	Location          string    `json:"location" validate:"required"`
	City              string    `json:"city" validate:"required,cyrillic"`
	DateTime          time.Time `json:"date_time" validate:"required"`
	GenderRestriction Gender    `json:"gender_restriction,omitempty" validate:"omitempty,oneof=male female all"`
	MaxParticipants   *int      `json:"max_participants,omitempty" validate:"omitempty,min=1"`
	PhotoURL          string    `json:"photo_url,omitempty" validate:"omitempty,url"`
}

// ProfileUpdate changes the current user's profile. Nil fields are left as is;
// an empty City clears it.
type ProfileUpdate struct {
	City   *string `json:"city,omitempty" validate:"omitempty,cyrillic"`
	Gender *Gender `json:"gender,omitempty" validate:"omitempty,oneof=male female unknown"`
}

// Participant is an event participant. Hidden participants other than the
// current user come back anonymised.
type Participant struct {
	ID        int64  `json:"id"`
	Username  string `json:"username,omitempty"`
	FullName  string `json:"full_name"`
	IsVisible bool   `json:"is_visible"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Visibility is the current user's participation record after a visibility change.
type Visibility struct {
	EventID   int64  `json:"event_id"`
	UserID    int64  `json:"user_id"`
	IsVisible bool   `json:"is_visible"`
	Status    string `json:"status"`
}

// Membership is the outcome of joining or leaving an event.
type Membership struct {
	EventID int64 `json:"event_id"`
	Joined  bool  `json:"joined,omitempty"`
	Left    bool  `json:"left,omitempty"`
}

// Note is the current user's private note about another user.
type Note struct {
	TargetUserID int64     `json:"target_user_id"`
	Text         string    `json:"text"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PersonHistory is someone the current user attended past events with.
type PersonHistory struct {
	ID             int64      `json:"id"`
	FullName       string     `json:"full_name"`
	Username       string     `json:"username,omitempty"`
	City           string     `json:"city,omitempty"`
	AvatarURL      string     `json:"avatar_url,omitempty"`
	EventsTogether int        `json:"events_together"`
	LastSeenAt     *time.Time `json:"last_seen_at"`
}

// Upload is the stored location of an uploaded file.
type Upload struct {
	URL string `json:"url"`
}
