// Package rbac provides role-based access control checks for the console.
package rbac

import "github.com/LunovVladyslav/ws-tutorial/pkg/model"

// Permission represents a console capability that can be checked against a role.
type Permission int

const (
	PermOpenConsole Permission = iota
	PermManageUsers
	PermBanUsers
	PermViewPeers
	PermResolveReports
	PermReadLogs
)

// permissionMatrix maps roles to their allowed permissions.
var permissionMatrix = map[model.Role]map[Permission]bool{
	model.RoleAdmin: {
		PermOpenConsole:    true,
		PermManageUsers:    true,
		PermBanUsers:       true,
		PermViewPeers:      true,
		PermResolveReports: true,
		PermReadLogs:       true,
	},
	model.RoleUser: {
		// Regular accounts never reach the console
	},
}

// HasPermission checks if a role has a specific permission.
func HasPermission(role model.Role, perm Permission) bool {
	perms, ok := permissionMatrix[role]
	if !ok {
		return false
	}
	return perms[perm]
}

// RequirePermission returns an error message if the role lacks the permission, or empty string if allowed.
func RequirePermission(role model.Role, perm Permission) string {
	if HasPermission(role, perm) {
		return ""
	}
	return "permission denied: " + permName(perm) + " requires ADMIN"
}

func permName(p Permission) string {
	switch p {
	case PermOpenConsole:
		return "open_console"
	case PermManageUsers:
		return "manage_users"
	case PermBanUsers:
		return "ban_users"
	case PermViewPeers:
		return "view_peers"
	case PermResolveReports:
		return "resolve_reports"
	case PermReadLogs:
		return "read_logs"
	default:
		return "unknown"
	}
}
