// Package session establishes the authenticated identity everything else
// depends on.
//
// A Session starts out Loading. Bootstrap makes sure a bearer token is held,
// exchanging init data for one if needed, then loads the current user's
// profile and moves to Ready. A Ready session either carries the profile or a
// human-readable reason why there is none; in the latter case nothing that
// needs identity can work.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/text/message"

	"github.com/rockrashit19/Duslar/internal/api"
	"github.com/rockrashit19/Duslar/internal/i18n"
	"github.com/rockrashit19/Duslar/internal/meetups"
)

// Status is the bootstrap phase.
type Status int

const (
	StatusLoading Status = iota
	StatusReady
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// State is a snapshot of the session.
type State struct {
	Status Status
	// Me is the current user once Ready without error.
	Me *meetups.UserMe
	// Err is the bootstrap failure, if any.
	Err error
	// Reason renders Err for humans.
	Reason string
}

// OK reports whether the session is Ready with a profile.
func (s State) OK() bool {
	return s.Status == StatusReady && s.Err == nil
}

// ProfileFetcher loads the current user's profile. meetups.Users satisfies it.
type ProfileFetcher interface {
	Me(ctx context.Context) (*meetups.UserMe, error)
}

// Option configures a Session.
type Option func(*Session)

// WithPrinter sets the printer used to localize failure reasons.
func WithPrinter(p *message.Printer) Option {
	return func(s *Session) {
		s.printer = p
	}
}

// Session owns the bootstrap state machine. Create one per process (or per
// test) with New.
type Session struct {
	tokens    api.Tokens
	exchanger api.Exchanger
	profiles  ProfileFetcher
	printer   *message.Printer

	mu      sync.Mutex
	state   State
	started bool
	done    chan struct{}
}

// New creates a Session in the Loading state.
func New(tokens api.Tokens, exchanger api.Exchanger, profiles ProfileFetcher, opts ...Option) (*Session, error) {
	if tokens == nil {
		return nil, fmt.Errorf("missing token store")
	}
	if exchanger == nil {
		return nil, fmt.Errorf("missing exchanger")
	}
	if profiles == nil {
		return nil, fmt.Errorf("missing profile fetcher")
	}

	s := &Session{
		tokens:    tokens,
		exchanger: exchanger,
		profiles:  profiles,
		printer:   i18n.Default(),
		state:     State{Status: StatusLoading},
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Bootstrap runs the Loading → Ready transition and returns the final state.
// Only the first call does any work; later calls wait for it and return the
// same state.
func (s *Session) Bootstrap(ctx context.Context) State {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		if err := s.Wait(ctx); err != nil {
			return State{Status: StatusLoading, Err: err, Reason: err.Error()}
		}
		return s.State()
	}
	s.started = true
	s.mu.Unlock()

	me, err := s.bootstrap(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = State{Status: StatusReady, Me: me}
	if err != nil {
		s.state.Err = err
		s.state.Reason = api.Message(err, s.printer, i18n.AuthFailed)
		slog.WarnContext(ctx, "session bootstrap failed", "error", err)
	} else {
		slog.InfoContext(ctx, "session ready", "user_id", me.ID, "role", me.Role)
	}
	close(s.done)
	return s.state
}

func (s *Session) bootstrap(ctx context.Context) (*meetups.UserMe, error) {
	if _, ok := s.tokens.Get(); !ok {
		token, err := s.exchanger.Exchange(ctx)
		if err != nil {
			if clearErr := s.tokens.Clear(ctx); clearErr != nil {
				slog.ErrorContext(ctx, "failed to clear token", "error", clearErr)
			}
			return nil, err
		}
		if err := s.tokens.Set(ctx, token); err != nil {
			slog.ErrorContext(ctx, "failed to persist token", "error", err)
		}
	}

	me, err := s.profiles.Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}
	return me, nil
}

// State returns the current snapshot.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Wait blocks until the session is Ready or ctx ends.
func (s *Session) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RefreshMe re-fetches the profile of a Ready session, e.g. after the user
// changed it. On failure the profile is dropped and the error returned; the
// session stays Ready.
func (s *Session) RefreshMe(ctx context.Context) (*meetups.UserMe, error) {
	if err := s.Wait(ctx); err != nil {
		return nil, err
	}

	me, err := s.profiles.Me(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Me = me
	if err != nil {
		return nil, err
	}
	return me, nil
}
