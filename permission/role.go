package permission

import (
	"errors"
	"strings"
)

// Role is the flat role carried by session tokens and reset records.
type Role string

const (
	// RoleAdmin grants access to admin-only endpoints.
	RoleAdmin Role = "admin"
	// RoleUser grants access to end-user endpoints.
	RoleUser Role = "user"
)

// ErrUnknownRole is returned by [ParseRole] for anything outside {admin,user}.
var ErrUnknownRole = errors.New("unknown role")

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

func (r Role) String() string {
	return string(r)
}

// ParseRole normalises surrounding space and case before matching.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", ErrUnknownRole
	}
	return r, nil
}

// Roles returns the known roles in a stable order.
func Roles() []Role {
	return []Role{RoleAdmin, RoleUser}
}
