package entity

import "fmt"

// Role is the closed set of authorization roles a user can hold.
type Role string

const (
	RoleAdmin  Role = "ADMIN_ROLE"
	RoleUser   Role = "USER_ROLE"
	RoleWorker Role = "WORKER_ROLE"
)

// DefaultRole is assigned to newly registered users.
const DefaultRole = RoleUser

// Roles returns every valid role.
func Roles() []Role {
	return []Role{RoleAdmin, RoleUser, RoleWorker}
}

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleWorker:
		return true
	default:
		return false
	}
}

func (r Role) String() string { return string(r) }

// ParseRole converts untrusted input (request bodies, token claims) into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.IsValid() {
		return "", fmt.Errorf("%q is not a valid role", s)
	}
	return r, nil
}
