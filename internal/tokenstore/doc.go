// Package tokenstore persists the bearer token issued by the events API.
//
// Four backends with different lifetimes:
//   - File: session-scoped file with atomic writes and 0600 permissions
//   - Keyring: OS-native credential storage (macOS Keychain, Secret Service, ...)
//   - Env: read-only seed from an environment variable
//   - Memory: process-local, nothing survives a restart
//
// Every backend stores exactly one entry. A missing entry is reported as
// ErrNotFound so callers can tell "not authenticated yet" from a broken store.
package tokenstore
