// Package initdata obtains the opaque credential that the events API exchanges
// for a bearer token.
//
// The credential comes from the host environment (the Telegram client that
// launched us) when it is present, otherwise from a configured fallback. An
// absent credential is an empty string; rejecting it is the backend's job.
package initdata

import (
	"log/slog"
	"os"
)

// DefaultEnvKey is the variable the host launcher sets to pass init data along.
const DefaultEnvKey = "TELEGRAM_INIT_DATA"

// Bridge is the host environment's handle. Ready and Expand are lifecycle
// hooks the host expects to be notified of; both are best-effort.
type Bridge interface {
	Ready() error
	Expand() error
	InitData() string
}

// Provider resolves the credential. The zero value returns an empty credential.
type Provider struct {
	// Bridge is nil when no host environment is present.
	Bridge Bridge
	// Fallback is returned when there is no bridge.
	Fallback string
}

// NewProvider creates a Provider that uses bridge when non-nil and fallback otherwise.
func NewProvider(bridge Bridge, fallback string) *Provider {
	return &Provider{Bridge: bridge, Fallback: fallback}
}

// Credential returns the current init data. It never fails.
func (p *Provider) Credential() string {
	if p == nil {
		return ""
	}
	if p.Bridge == nil {
		return p.Fallback
	}

	notify(p.Bridge.Ready)
	notify(p.Bridge.Expand)

	return safeInitData(p.Bridge)
}

// notify invokes a host hook, ignoring errors and panics.
func notify(hook func() error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Debug("host bridge hook panicked", "panic", r)
		}
	}()
	if err := hook(); err != nil {
		slog.Debug("host bridge hook failed", "error", err)
	}
}

func safeInitData(b Bridge) (data string) {
	defer func() {
		if recover() != nil {
			data = ""
		}
	}()
	return b.InitData()
}

// EnvBridge reads init data the host launcher placed in an environment variable.
// The host has no lifecycle to notify from a process boundary, so the hooks are no-ops.
type EnvBridge struct {
	key string
}

// Compile-time check to ensure EnvBridge implements Bridge
var _ Bridge = (*EnvBridge)(nil)

// LookupEnvBridge returns a bridge if the host set the variable, nil otherwise.
// The nil result is returned as an interface-typed nil so Provider sees "no bridge".
func LookupEnvBridge(key string) Bridge {
	if key == "" {
		key = DefaultEnvKey
	}
	if _, ok := os.LookupEnv(key); !ok {
		return nil
	}
	return &EnvBridge{key: key}
}

func (b *EnvBridge) Ready() error  { return nil }
func (b *EnvBridge) Expand() error { return nil }

// InitData returns the variable's current value, possibly empty.
func (b *EnvBridge) InitData() string {
	return os.Getenv(b.key)
}
