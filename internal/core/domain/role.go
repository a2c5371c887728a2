package domain

import (
	"errors"
	"time"
)

// Role is the application-level role attached to an external identity.
//
// The role set is closed: an identity is either an admin, a regular user, or
// has no assignment at all ("pending"). Pending is modelled as an explicit
// variant so the authorization gate can branch exhaustively on it instead of
// juggling a nullable value.
type Role string

const (
	// RolePending means no role record exists for the identity yet.
	// It is never persisted; it is the absence of a record.
	RolePending Role = ""
	RoleUser    Role = "user"
	RoleAdmin   Role = "admin"
)

var ErrInvalidRole = errors.New(`role must be either "admin" or "user"`)
var ErrSelfDemotion = errors.New("you cannot remove your own admin role")
var ErrIdentityNotFound = errors.New("user not found")
var ErrSessionInvalid = errors.New("invalid or expired session")

// Assigned reports whether r is one of the persistable roles.
func (r Role) Assigned() bool {
	return r == RoleUser || r == RoleAdmin
}

// ParseRole converts a raw string into a Role, rejecting anything outside
// the closed {admin, user} set. The empty string is not parseable: pending
// is a derived state, never client input.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return RolePending, ErrInvalidRole
	}
}

// RoleAssignment maps one external identity to one role.
// At most one assignment exists per identity.
type RoleAssignment struct {
	IdentityID string    `json:"identity_id" bson:"identity_id"`
	Role       Role      `json:"role" bson:"role"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at"`
}
