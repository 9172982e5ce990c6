package ui

import (
	"fyne.io/fyne/v2"

	"github.com/LunovVladyslav/ws-tutorial/pkg/storage"
)

// unset marks a missing preference; fyne has no existence check.
const unset = "\x00unset"

// Preferences is a storage.Storage kept in the application preferences,
// the desktop counterpart of the browser console's localStorage.
type Preferences struct {
	prefs  fyne.Preferences
	prefix string
}

// NewPreferences stores values under "session." in prefs.
func NewPreferences(prefs fyne.Preferences) *Preferences {
	return &Preferences{prefs: prefs, prefix: "session."}
}

// Get returns the value stored under key.
func (p *Preferences) Get(key string) (string, bool, error) {
	v := p.prefs.StringWithFallback(p.prefix+key, unset)
	if v == unset {
		return "", false, nil
	}
	return v, true, nil
}

// Set stores value under key.
func (p *Preferences) Set(key, value string) error {
	p.prefs.SetString(p.prefix+key, value)
	return nil
}

// Remove deletes key.
func (p *Preferences) Remove(key string) error {
	p.prefs.RemoveValue(p.prefix + key)
	return nil
}

// Close is a no-op; fyne persists preferences itself.
func (p *Preferences) Close() error {
	return nil
}

var _ storage.Storage = (*Preferences)(nil)
