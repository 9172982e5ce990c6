package console

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/LunovVladyslav/ws-tutorial/pkg/model"
	"github.com/LunovVladyslav/ws-tutorial/pkg/session"
)

// MsgAdminsOnly is shown when a non-admin account logs in.
const MsgAdminsOnly = "Access denied: Admins only"

var (
	ErrMissingCredentials = errors.New("console: username and password are required")
	ErrAdminsOnly         = errors.New("console: account is not an admin")
)

// Login drives the login screen.
type Login struct {
	auth   Authenticator
	store  session.Store
	view   LoginView
	router Router
}

// NewLogin creates the login controller.
func NewLogin(auth Authenticator, store session.Store, view LoginView, router Router) *Login {
	return &Login{auth: auth, store: store, view: view, router: router}
}

// Resume skips the form when an admin session is already stored.
func (l *Login) Resume() bool {
	if _, err := session.RequireAdmin(l.store); err != nil {
		return false
	}
	l.router.ToConsole()
	return true
}

// Submit logs in. The session is written only for an admin account; every
// other outcome shows an error, re-enables the form and stores nothing.
// Blank fields are ignored.
func (l *Login) Submit(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return ErrMissingCredentials
	}

	l.view.SetBusy(true)
	l.view.HideError()

	s, err := l.authenticate(ctx, username, password)
	if err != nil {
		slog.Warn("login failed", "username", username, "err", err)
		l.view.ShowError(LoginErrorText(err))
		l.view.SetBusy(false)
		return err
	}

	slog.Info("logged in", "username", s.Username)
	l.router.ToConsole()
	return nil
}

func (l *Login) authenticate(ctx context.Context, username, password string) (session.Session, error) {
	resp, err := l.auth.Login(ctx, model.Credentials{Username: username, Password: password})
	if err != nil {
		return session.Session{}, err
	}
	if resp.Role != model.RoleAdmin {
		return session.Session{}, ErrAdminsOnly
	}
	s := session.Session{Token: resp.Token, Role: resp.Role, Username: resp.Username}
	if err := l.store.Set(s); err != nil {
		_ = l.store.Clear()
		return session.Session{}, fmt.Errorf("console: save session: %w", err)
	}
	return s, nil
}

// LoginErrorText is the message shown under the login form for err.
func LoginErrorText(err error) string {
	if errors.Is(err, ErrAdminsOnly) {
		return MsgAdminsOnly
	}
	return err.Error()
}
