package ports

import (
	"context"

	"github.com/clavinorach/kratos-dashboard/internal/core/domain"
)

// RoleRepository defines persistence operations for role assignments.
type RoleRepository interface {
	// Get returns the assignment for an identity, or (nil, nil) when none
	// exists. Absence is a valid state ("pending"), not an error.
	Get(ctx context.Context, identityID string) (*domain.RoleAssignment, error)

	// List returns every role assignment.
	List(ctx context.Context) ([]domain.RoleAssignment, error)

	// Upsert inserts or updates the assignment for an identity, refreshing
	// updated_at and preserving created_at on update. Last write wins;
	// concurrent admin edits are not serialized.
	Upsert(ctx context.Context, identityID string, role domain.Role) (*domain.RoleAssignment, error)

	// Delete removes the assignment, reverting the identity to pending.
	// It reports whether a record existed.
	Delete(ctx context.Context, identityID string) (bool, error)
}
