package valueobject

import (
	"strings"

	domainerr "github.com/oksasatya/go-user-identity/internal/domain/errors"
)

// Role is the closed set of authorization roles.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
	RoleGuest Role = "guest"
)

// Permissions understood by HasPermission.
const (
	PermissionRead     = "read"
	PermissionWriteOwn = "write_own"
)

// RoleFromString parses a free-form role name, case-insensitively. Anything
// outside the enumeration fails.
func RoleFromString(raw string) (Role, error) {
	switch strings.ToLower(raw) {
	case "admin":
		return RoleAdmin, nil
	case "user":
		return RoleUser, nil
	case "guest":
		return RoleGuest, nil
	default:
		return "", domainerr.NewValidation("role", "invalid role: "+raw)
	}
}

// HasPermission answers via a fixed mapping: admin holds every permission,
// user may read and write its own data, guest may only read.
func (r Role) HasPermission(permission string) bool {
	switch r {
	case RoleAdmin:
		return true
	case RoleUser:
		return permission == PermissionRead || permission == PermissionWriteOwn
	case RoleGuest:
		return permission == PermissionRead
	default:
		return false
	}
}

func (r Role) IsAdmin() bool { return r == RoleAdmin }
func (r Role) IsUser() bool  { return r == RoleUser }
func (r Role) IsGuest() bool { return r == RoleGuest }

func (r Role) String() string { return string(r) }
