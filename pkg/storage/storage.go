// Package storage provides the client-local key/value storage that holds the
// console session between runs.
//
// Implementations include an SQLite file (default), a YAML file, and an
// in-memory store for tests. The fyne front-end adds one backed by the
// application preferences.
package storage

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownBackend is returned by Open for an unsupported backend name.
	ErrUnknownBackend = errors.New("storage: unknown backend")
	// ErrDesktopOnly is returned by Open for backends that live inside the
	// desktop application and cannot be opened from a path.
	ErrDesktopOnly = errors.New("storage: backend is only available in the desktop console")
)

// Storage is a string key/value store that survives restarts.
// Get returns ("", false, nil) for a missing key.
type Storage interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
	// BackendPreferences keeps the session in the desktop app's preferences.
	BackendPreferences = "preferences"
)

// Open returns the storage named by backend, rooted at path.
func Open(backend, path string) (Storage, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendSQLite, "":
		return NewSQLite(path)
	case BackendFile:
		return NewFile(path)
	case BackendMemory:
		return NewMemory(), nil
	case BackendPreferences:
		return nil, fmt.Errorf("%w: %q", ErrDesktopOnly, backend)
	default:
		return nil, fmt.Errorf("%w %q (valid: %s)", ErrUnknownBackend, backend, BackendNames())
	}
}

// BackendNames returns all valid backend names, useful for --help text.
func BackendNames() string {
	return "sqlite, file, memory, preferences"
}

// Compile-time checks.
var (
	_ Storage = (*SQLite)(nil)
	_ Storage = (*File)(nil)
	_ Storage = (*Memory)(nil)
)
