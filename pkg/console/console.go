// Package console implements the admin console's controllers: the session
// guard, tab navigation, the action dispatch table, the modal registry and
// the users, peers, reports and logs views.
//
// Nothing here draws. Front-ends implement View, LoginView, Prompter, Router
// and Modal, and feed operator input back in as Actions, preferably through
// a Loop so each event runs to completion before the next.
package console

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/LunovVladyslav/ws-tutorial/pkg/api"
	"github.com/LunovVladyslav/ws-tutorial/pkg/rbac"
	"github.com/LunovVladyslav/ws-tutorial/pkg/session"
)

// MsgAccessDenied is alerted before redirecting an unauthorised start.
const MsgAccessDenied = "Access Denied: Admins Only"

// ErrAccessDenied is returned by New when the stored session may not open
// the console.
var ErrAccessDenied = errors.New("console: access denied")

// ErrPermissionDenied is returned by Dispatch when the session's role lacks
// the permission an action needs.
var ErrPermissionDenied = errors.New("console: permission denied")

// tabPermissions gates the tab switches.
var tabPermissions = map[Tab]rbac.Permission{
	TabUsers:   rbac.PermManageUsers,
	TabPeers:   rbac.PermViewPeers,
	TabLogs:    rbac.PermReadLogs,
	TabReports: rbac.PermResolveReports,
}

// Config wires a console to its collaborators.
type Config struct {
	Store    session.Store
	Client   *api.Client
	View     View
	Prompter Prompter
	Router   Router
	Modals   map[string]Modal // keyed by ModalAddUser and ModalBanUser
	Now      func() time.Time // defaults to time.Now
}

// Console is a signed-in admin console.
type Console struct {
	Session session.Session

	Nav     *Navigator
	Actions *Dispatcher
	Modals  *Modals

	Users   *UsersView
	Peers   *PeersView
	Reports *ReportsView
	Logs    *LogsView

	store  session.Store
	router Router
}

// New checks the stored session and builds the console. When the session is
// missing or not an admin's, the operator is alerted, sent to the login
// screen, and nothing is rendered.
func New(cfg Config) (*Console, error) {
	s, err := session.RequireAdmin(cfg.Store)
	if err != nil {
		slog.Warn("console refused", "err", err)
		cfg.Prompter.Alert(MsgAccessDenied)
		cfg.Router.ToLogin()
		return nil, fmt.Errorf("%w: %w", ErrAccessDenied, err)
	}

	client := cfg.Client.WithSessionToken(s.Token)
	modals := NewModals()
	for name, m := range cfg.Modals {
		modals.Add(name, m)
	}

	c := &Console{
		Session: s,
		Actions: NewDispatcher(),
		Modals:  modals,
		Users:   NewUsersView(client, cfg.Prompter, cfg.View, modals, cfg.Now),
		Peers:   NewPeersView(client, cfg.View),
		Reports: NewReportsView(client, cfg.Prompter, cfg.View),
		Logs:    NewLogsView(client, cfg.View),
		store:   cfg.Store,
		router:  cfg.Router,
	}
	c.Nav = NewNavigator(cfg.View, map[Tab]Loader{
		TabUsers:   c.Users.Load,
		TabPeers:   c.Peers.Load,
		TabLogs:    c.Logs.Load,
		TabReports: c.Reports.Load,
	})
	if err := c.registerActions(); err != nil {
		return nil, err
	}

	expires := ""
	if t, ok := session.ExpiresAt(s.Token); ok {
		expires = t.Local().Format("2006-01-02 15:04")
	}
	cfg.View.SetOperator(s.Username, expires)
	return c, nil
}

// Start shows the users tab and preloads the reports so the pending badge
// is populated.
func (c *Console) Start(ctx context.Context) {
	_ = c.Nav.Activate(ctx, TabUsers)
	c.Reports.Load(ctx)
}

// Dispatch runs an operator action.
func (c *Console) Dispatch(ctx context.Context, a Action) error {
	return c.Actions.Dispatch(ctx, a)
}

// Logout clears the stored session and returns to the login screen.
func (c *Console) Logout() error {
	if err := c.store.Clear(); err != nil {
		return fmt.Errorf("console: logout: %w", err)
	}
	slog.Info("logged out", "username", c.Session.Username)
	c.router.ToLogin()
	return nil
}

// guard wraps h so it runs only while the session's role holds perm.
func (c *Console) guard(perm rbac.Permission, h Handler) Handler {
	return func(ctx context.Context, a Action) error {
		if msg := rbac.RequirePermission(c.Session.Role, perm); msg != "" {
			slog.Warn("action refused", "action", a.Name, "role", c.Session.Role, "reason", msg)
			return fmt.Errorf("%w: %s", ErrPermissionDenied, msg)
		}
		return h(ctx, a)
	}
}

func (c *Console) registerActions() error {
	handlers := map[string]Handler{
		ActionUserCreate: c.guard(rbac.PermManageUsers, func(_ context.Context, _ Action) error {
			return c.Users.OpenCreate()
		}),
		ActionUserDelete: c.guard(rbac.PermManageUsers, func(ctx context.Context, a Action) error {
			c.Users.Delete(ctx, a.ID)
			return nil
		}),
		ActionUserBan: c.guard(rbac.PermBanUsers, func(_ context.Context, a Action) error {
			return c.Users.OpenBan(a.ID, a.Target)
		}),
		ActionUserUnban: c.guard(rbac.PermBanUsers, func(ctx context.Context, a Action) error {
			c.Users.Unban(ctx, a.ID)
			return nil
		}),
		ActionUsersRefresh: c.guard(rbac.PermManageUsers, func(ctx context.Context, _ Action) error {
			c.Users.Load(ctx)
			return nil
		}),
		ActionPeersRefresh: c.guard(rbac.PermViewPeers, func(ctx context.Context, _ Action) error {
			c.Peers.Load(ctx)
			return nil
		}),
		ActionReportResolve: c.guard(rbac.PermResolveReports, func(ctx context.Context, a Action) error {
			c.Reports.Resolve(ctx, a.ID)
			return nil
		}),
		ActionReportsReload: c.guard(rbac.PermResolveReports, func(ctx context.Context, _ Action) error {
			c.Reports.Load(ctx)
			return nil
		}),
		ActionLogsRefresh: c.guard(rbac.PermReadLogs, func(ctx context.Context, _ Action) error {
			c.Logs.Load(ctx)
			return nil
		}),
		ActionLogout: func(_ context.Context, _ Action) error {
			return c.Logout()
		},
	}
	for _, t := range Tabs() {
		handlers[TabAction(t)] = c.guard(tabPermissions[t], func(ctx context.Context, _ Action) error {
			return c.Nav.Activate(ctx, t)
		})
	}
	for name, h := range handlers {
		if err := c.Actions.Register(name, h); err != nil {
			return err
		}
	}
	return nil
}
