package console

import (
	"fmt"
	"sort"
)

// Modal names.
const (
	ModalAddUser = "add-user"
	ModalBanUser = "ban-user"
)

// Modal is a front-end overlay that is shown and hidden, never rebuilt.
type Modal interface {
	Show()
	Hide()
}

type modalEntry struct {
	m    Modal
	open bool
}

// Modals tracks which overlays are open. There is no stacking: each modal is
// simply open or closed. Not safe for concurrent use; drive it from the Loop.
type Modals struct {
	entries map[string]*modalEntry
}

// NewModals creates an empty registry.
func NewModals() *Modals {
	return &Modals{entries: make(map[string]*modalEntry)}
}

// Add registers m under name, initially closed.
func (ms *Modals) Add(name string, m Modal) {
	ms.entries[name] = &modalEntry{m: m}
}

// Open shows the named modal.
func (ms *Modals) Open(name string) error {
	e, ok := ms.entries[name]
	if !ok {
		return fmt.Errorf("console: unknown modal %q", name)
	}
	e.open = true
	e.m.Show()
	return nil
}

// Close hides the named modal.
func (ms *Modals) Close(name string) error {
	e, ok := ms.entries[name]
	if !ok {
		return fmt.Errorf("console: unknown modal %q", name)
	}
	e.open = false
	e.m.Hide()
	return nil
}

// IsOpen reports whether the named modal is shown.
func (ms *Modals) IsOpen(name string) bool {
	e, ok := ms.entries[name]
	return ok && e.open
}

// CloseAction returns a callback for a close button that declares target.
func (ms *Modals) CloseAction(target string) func() {
	return func() { _ = ms.Close(target) }
}

// Backdrop handles a click outside the modal content: every open modal is
// closed.
func (ms *Modals) Backdrop() {
	for _, name := range ms.OpenNames() {
		_ = ms.Close(name)
	}
}

// OpenNames returns the names of the open modals, sorted.
func (ms *Modals) OpenNames() []string {
	var out []string
	for name, e := range ms.entries {
		if e.open {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
