package console

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnknownTab is returned when activating a tab that does not exist.
var ErrUnknownTab = errors.New("console: unknown tab")

// Tab identifies one of the console sections.
type Tab string

const (
	TabUsers   Tab = "users"
	TabPeers   Tab = "peers"
	TabLogs    Tab = "logs"
	TabReports Tab = "reports"
)

// Tabs lists the sections in menu order.
func Tabs() []Tab {
	return []Tab{TabUsers, TabPeers, TabLogs, TabReports}
}

// Title returns the heading shown while t is active.
func (t Tab) Title() string {
	switch t {
	case TabUsers:
		return "Users"
	case TabPeers:
		return "Active Peers"
	case TabLogs:
		return "Server Logs"
	case TabReports:
		return "Reports"
	default:
		return ""
	}
}

// ParseTab resolves a tab name.
func ParseTab(s string) (Tab, error) {
	for _, t := range Tabs() {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTab, s)
}

// Loader fetches and renders a tab's data.
type Loader func(ctx context.Context)

// Navigator keeps exactly one tab active.
type Navigator struct {
	active  Tab
	render  TabRenderer
	loaders map[Tab]Loader
}

// NewNavigator creates a navigator with TabUsers active.
func NewNavigator(render TabRenderer, loaders map[Tab]Loader) *Navigator {
	return &Navigator{
		active:  TabUsers,
		render:  render,
		loaders: loaders,
	}
}

// Active returns the current tab.
func (n *Navigator) Active() Tab {
	return n.active
}

// Activate switches to tab, updates the title and loads its data.
// Activating the current tab reloads it.
func (n *Navigator) Activate(ctx context.Context, tab Tab) error {
	if tab.Title() == "" {
		return fmt.Errorf("%w: %q", ErrUnknownTab, string(tab))
	}
	n.active = tab
	n.render.ShowTab(tab, tab.Title())
	if load := n.loaders[tab]; load != nil {
		load(ctx)
	}
	return nil
}
