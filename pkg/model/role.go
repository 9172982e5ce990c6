// Package model defines the server entities the admin console mirrors.
// Nothing here is owned by the client; every value comes from a fresh fetch.
package model

import "strings"

// Role is the permission level the server assigns to an account.
// Values are the server's wire names.
type Role string

const (
	RoleUser  Role = "USER"  // Regular account, no console access
	RoleAdmin Role = "ADMIN" // Full console access
)

func (r Role) String() string {
	return string(r)
}

// ParseRole converts a string to a Role. Matching is case-insensitive;
// anything unrecognised becomes RoleUser, which mirrors the server default.
func ParseRole(s string) Role {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ADMIN":
		return RoleAdmin
	default:
		return RoleUser
	}
}

// Valid returns true if the role is one the server understands.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Roles lists the assignable roles in display order.
func Roles() []Role {
	return []Role{RoleUser, RoleAdmin}
}
