package ports

import (
	"context"
	"time"

	"github.com/clavinorach/kratos-dashboard/internal/core/domain"
)

// UserView is a provider identity merged with its local role record.
type UserView struct {
	ID      string
	Email   string
	Name    string
	Picture string
	// Role is RolePending when no assignment exists.
	Role      domain.Role
	IsPending bool
	CreatedAt time.Time
	// RoleAssignedAt is nil for pending users.
	RoleAssignedAt *time.Time
}

// UserStats summarizes the merged directory for the admin dashboard.
type UserStats struct {
	Total   int
	Admins  int
	Users   int
	Pending int
}

// ListUsersResult is returned by ListUsers.
type ListUsersResult struct {
	Users []UserView
	Stats UserStats
}

// UserService merges the external identity directory with local role records
// and runs the role-assignment workflow.
type UserService interface {
	ListUsers(ctx context.Context) (*ListUsersResult, error)
	GetUser(ctx context.Context, identityID string) (*UserView, error)

	// AssignRole sets the target identity's role. actorID is the acting
	// admin's identity id, used to reject self-demotion before any store
	// mutation.
	AssignRole(ctx context.Context, actorID, identityID string, role domain.Role) (*UserView, error)

	// RemoveRole reverts the target identity to pending. Rejects
	// self-demotion. Removing a non-existent assignment succeeds.
	RemoveRole(ctx context.Context, actorID, identityID string) error
}
