// Package session holds the operator's client-side proof of authentication:
// the bearer token plus the role and username the server reported at login.
//
// The session is written by the login controller, read by the console on
// every start, and cleared on logout. It is always passed around as a Store
// rather than reached through a global.
package session

import (
	"errors"
	"fmt"

	"github.com/LunovVladyslav/ws-tutorial/pkg/model"
	"github.com/LunovVladyslav/ws-tutorial/pkg/rbac"
	"github.com/LunovVladyslav/ws-tutorial/pkg/storage"
)

// Storage keys, kept identical to the browser console's localStorage keys.
const (
	KeyToken    = "token"
	KeyRole     = "role"
	KeyUsername = "username"
)

var (
	ErrNoSession = errors.New("session: not logged in")
	ErrNotAdmin  = errors.New("session: role is not ADMIN")
)

// Session is the client-held authentication state.
type Session struct {
	Token    string
	Role     model.Role
	Username string
}

// IsAdmin returns true if the session carries a token and an admin role.
func (s Session) IsAdmin() bool {
	return s.Token != "" && rbac.HasPermission(s.Role, rbac.PermOpenConsole)
}

// Store reads and writes the persisted session.
type Store interface {
	// Get returns whatever is stored; missing values are empty strings.
	Get() (Session, error)
	// Set persists all three values.
	Set(Session) error
	// Clear removes all three values.
	Clear() error
}

// KVStore is a Store laid over a key/value storage.
type KVStore struct {
	st storage.Storage
}

// NewStore creates a session store on top of st.
func NewStore(st storage.Storage) *KVStore {
	return &KVStore{st: st}
}

// Get reads the three session values.
func (k *KVStore) Get() (Session, error) {
	token, _, err := k.st.Get(KeyToken)
	if err != nil {
		return Session{}, fmt.Errorf("session: read token: %w", err)
	}
	role, _, err := k.st.Get(KeyRole)
	if err != nil {
		return Session{}, fmt.Errorf("session: read role: %w", err)
	}
	username, _, err := k.st.Get(KeyUsername)
	if err != nil {
		return Session{}, fmt.Errorf("session: read username: %w", err)
	}
	return Session{Token: token, Role: model.Role(role), Username: username}, nil
}

// Set writes the three session values.
func (k *KVStore) Set(s Session) error {
	for _, kv := range [][2]string{
		{KeyToken, s.Token},
		{KeyRole, s.Role.String()},
		{KeyUsername, s.Username},
	} {
		if err := k.st.Set(kv[0], kv[1]); err != nil {
			return fmt.Errorf("session: write %s: %w", kv[0], err)
		}
	}
	return nil
}

// Clear removes the three session values.
func (k *KVStore) Clear() error {
	for _, key := range []string{KeyToken, KeyRole, KeyUsername} {
		if err := k.st.Remove(key); err != nil {
			return fmt.Errorf("session: remove %s: %w", key, err)
		}
	}
	return nil
}

// RequireAdmin loads the session and checks that it may open the console.
// A missing token or role yields ErrNoSession, any other role ErrNotAdmin.
func RequireAdmin(store Store) (Session, error) {
	s, err := store.Get()
	if err != nil {
		return Session{}, err
	}
	if s.Token == "" || s.Role == "" {
		return Session{}, ErrNoSession
	}
	if !s.IsAdmin() {
		return Session{}, ErrNotAdmin
	}
	return s, nil
}

var _ Store = (*KVStore)(nil)
