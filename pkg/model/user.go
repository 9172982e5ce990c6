package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrUsernameRequired = errors.New("username is required")
var ErrPasswordRequired = errors.New("password is required")

// User is an account row as listed by the admin endpoint.
type User struct {
	ID          int64      `json:"id" yaml:"id"`
	Username    string     `json:"username" yaml:"username"`
	Role        Role       `json:"role" yaml:"role"`
	BannedUntil *Timestamp `json:"bannedUntil,omitempty" yaml:"banned_until,omitempty"` // nil = never banned
}

// UnmarshalJSON decodes a user row. A bannedUntil that cannot be read
// leaves the user unbanned instead of failing the whole list.
func (u *User) UnmarshalJSON(data []byte) error {
	type plain User
	var raw struct {
		plain
		BannedUntil json.RawMessage `json:"bannedUntil"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("model: user: %w", err)
	}
	*u = User(raw.plain)
	u.BannedUntil = nil
	if len(raw.BannedUntil) > 0 {
		var ts Timestamp
		if err := ts.UnmarshalJSON(raw.BannedUntil); err == nil && !ts.IsZero() {
			u.BannedUntil = &ts
		}
	}
	return nil
}

// IsBannedAt reports whether the ban is still active at now.
// Only a ban ending strictly after now counts.
func (u *User) IsBannedAt(now time.Time) bool {
	return u.BannedUntil != nil && u.BannedUntil.After(now)
}

// NewUser is the create-user request body.
type NewUser struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// Normalize fills in the default role. Username and password are sent as
// typed; the server owns every other rule.
func (n *NewUser) Normalize() {
	if n.Role == "" {
		n.Role = RoleUser
	}
}

// CheckRequired reports a missing field. A username of only spaces counts
// as missing.
func (n *NewUser) CheckRequired() error {
	if strings.TrimSpace(n.Username) == "" {
		return ErrUsernameRequired
	}
	if n.Password == "" {
		return ErrPasswordRequired
	}
	return nil
}
