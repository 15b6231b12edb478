// Package entity defines domain types shared by the storage services.
package entity

import "strings"

// UserRole defines the permissions of an operator or the role label of a
// user record.
type UserRole string

const (
	// UserRoleAdmin has full access to all resources, including user management.
	UserRoleAdmin UserRole = "admin"
	// UserRoleEditor can create and modify products but cannot manage users.
	UserRoleEditor UserRole = "editor"
	// UserRoleViewer can only read.
	UserRoleViewer UserRole = "viewer"
)

// Roles lists the valid roles from most to least privileged.
var Roles = []UserRole{UserRoleAdmin, UserRoleEditor, UserRoleViewer}

// IsValid returns true if the role is one of the defined roles.
func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleAdmin, UserRoleEditor, UserRoleViewer:
		return true
	default:
		return false
	}
}

// Level returns the rank of the role in the hierarchy viewer < editor < admin.
// Unknown roles rank below viewer.
func (r UserRole) Level() int {
	switch r {
	case UserRoleAdmin:
		return 2
	case UserRoleEditor:
		return 1
	case UserRoleViewer:
		return 0
	default:
		return -1
	}
}

// Satisfies returns true if r grants at least the permissions of required.
func (r UserRole) Satisfies(required UserRole) bool {
	return r.IsValid() && r.Level() >= required.Level()
}

// Title returns the capitalized role name, e.g. "Admin".
func (r UserRole) Title() string {
	if r == "" {
		return ""
	}
	return strings.ToUpper(string(r[:1])) + string(r[1:])
}
