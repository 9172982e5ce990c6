package console

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownAction is returned when dispatching an unregistered action.
var ErrUnknownAction = errors.New("console: unknown action")

// Action names. Rendered rows carry these instead of callbacks.
const (
	ActionUserDelete    = "user.delete"
	ActionUserBan       = "user.ban"
	ActionUserUnban     = "user.unban"
	ActionUserCreate    = "user.create"
	ActionUsersRefresh  = "users.refresh"
	ActionPeersRefresh  = "peers.refresh"
	ActionReportResolve = "report.resolve"
	ActionReportsReload = "reports.refresh"
	ActionLogsRefresh   = "logs.refresh"
	ActionLogout        = "session.logout"
	actionTabPrefix     = "tab."
)

// TabAction returns the action name that activates t.
func TabAction(t Tab) string {
	return actionTabPrefix + string(t)
}

// Action is a button on a rendered row or toolbar.
type Action struct {
	Name   string
	Label  string
	ID     int64
	Target string // username shown in the ban form
}

// Handler runs an action.
type Handler func(ctx context.Context, a Action) error

// Dispatcher maps action names to handlers.
type Dispatcher struct {
	handlers map[string]Handler
}

// NewDispatcher creates an empty table.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string]Handler)}
}

// Register adds a handler. Each name may only be registered once.
func (d *Dispatcher) Register(name string, h Handler) error {
	if _, ok := d.handlers[name]; ok {
		return fmt.Errorf("console: action %q already registered", name)
	}
	d.handlers[name] = h
	return nil
}

// Dispatch runs the handler registered for a.Name.
func (d *Dispatcher) Dispatch(ctx context.Context, a Action) error {
	h, ok := d.handlers[a.Name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAction, a.Name)
	}
	return h(ctx, a)
}

// Names returns the registered action names, sorted.
func (d *Dispatcher) Names() []string {
	out := make([]string, 0, len(d.handlers))
	for name := range d.handlers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
