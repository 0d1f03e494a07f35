package api

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// memTokens is a minimal in-memory Token Store.
type memTokens struct {
	mu    sync.Mutex
	token string
	sets  int
}

func newMemTokens(initial string) *memTokens {
	return &memTokens{token: initial}
}

func (m *memTokens) Get() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.token != ""
}

func (m *memTokens) Set(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.sets++
	return nil
}

func (m *memTokens) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}

// fakeExchanger counts exchanges and optionally blocks until released.
type fakeExchanger struct {
	calls atomic.Int32
	token string
	err   error
	// wait, when non-nil, is invoked before answering.
	wait func()
}

func (f *fakeExchanger) Exchange(ctx context.Context) (string, error) {
	f.calls.Add(1)
	if f.wait != nil {
		f.wait()
	}
	if f.err != nil {
		return "", f.err
	}
	return f.token, nil
}

var errRejected = errors.New("credential rejected")
