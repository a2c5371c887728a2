package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/clavinorach/kratos-dashboard/internal/core/domain"
	"github.com/clavinorach/kratos-dashboard/internal/core/ports"
)

type userService struct {
	provider ports.IdentityProvider
	roles    ports.RoleRepository
	log      zerolog.Logger
}

// NewUserService returns a UserService merging the provider's identity
// directory with locally stored role assignments.
func NewUserService(provider ports.IdentityProvider, roles ports.RoleRepository, log zerolog.Logger) ports.UserService {
	return &userService{provider: provider, roles: roles, log: log}
}

// ListUsers merges every provider identity with its local role record.
// A directory failure degrades to an empty list rather than an error: the
// admin dashboard stays usable while the provider is down.
func (s *userService) ListUsers(ctx context.Context) (*ports.ListUsersResult, error) {
	identities, err := s.provider.ListIdentities(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("identity directory unavailable, returning empty user list")
		return &ports.ListUsersResult{Users: []ports.UserView{}}, nil
	}

	assignments, err := s.roles.List(ctx)
	if err != nil {
		return nil, err
	}
	byIdentity := make(map[string]domain.RoleAssignment, len(assignments))
	for _, a := range assignments {
		byIdentity[a.IdentityID] = a
	}

	result := &ports.ListUsersResult{Users: make([]ports.UserView, 0, len(identities))}
	for i := range identities {
		view := mergeUser(&identities[i], byIdentity[identities[i].ID])
		result.Users = append(result.Users, view)

		result.Stats.Total++
		switch view.Role {
		case domain.RoleAdmin:
			result.Stats.Admins++
		case domain.RoleUser:
			result.Stats.Users++
		default:
			result.Stats.Pending++
		}
	}
	return result, nil
}

// GetUser returns one merged user view. Unknown identities, and provider
// failures on single lookups, surface as not-found.
func (s *userService) GetUser(ctx context.Context, identityID string) (*ports.UserView, error) {
	identity, err := s.provider.GetIdentity(ctx, identityID)
	if err != nil {
		if !errors.Is(err, domain.ErrIdentityNotFound) {
			s.log.Warn().Err(err).Str("identity_id", identityID).Msg("identity lookup failed")
		}
		return nil, domain.ErrIdentityNotFound
	}

	assignment, err := s.roles.Get(ctx, identityID)
	if err != nil {
		return nil, err
	}

	var view ports.UserView
	if assignment != nil {
		view = mergeUser(identity, *assignment)
	} else {
		view = mergeUser(identity, domain.RoleAssignment{})
	}
	return &view, nil
}

// AssignRole sets the target identity's role. The self-demotion check runs
// before the store mutation: it is a business rule, not a storage constraint.
func (s *userService) AssignRole(ctx context.Context, actorID, identityID string, role domain.Role) (*ports.UserView, error) {
	if !role.Assigned() {
		return nil, domain.ErrInvalidRole
	}

	identity, err := s.provider.GetIdentity(ctx, identityID)
	if err != nil {
		if !errors.Is(err, domain.ErrIdentityNotFound) {
			s.log.Warn().Err(err).Str("identity_id", identityID).Msg("identity lookup failed")
		}
		return nil, domain.ErrIdentityNotFound
	}

	if actorID == identityID && role != domain.RoleAdmin {
		return nil, domain.ErrSelfDemotion
	}

	assignment, err := s.roles.Upsert(ctx, identityID, role)
	if err != nil {
		s.log.Error().Err(err).Str("identity_id", identityID).Msg("failed to upsert role")
		return nil, err
	}

	s.log.Info().
		Str("identity_id", identityID).
		Str("role", string(role)).
		Str("actor_id", actorID).
		Msg("role assigned")

	view := mergeUser(identity, *assignment)
	return &view, nil
}

// RemoveRole reverts the target identity to pending. Deleting a non-existent
// assignment is an idempotent success.
func (s *userService) RemoveRole(ctx context.Context, actorID, identityID string) error {
	if actorID == identityID {
		return domain.ErrSelfDemotion
	}

	removed, err := s.roles.Delete(ctx, identityID)
	if err != nil {
		s.log.Error().Err(err).Str("identity_id", identityID).Msg("failed to delete role")
		return err
	}

	s.log.Info().
		Str("identity_id", identityID).
		Str("actor_id", actorID).
		Bool("existed", removed).
		Msg("role removed")
	return nil
}

// mergeUser combines a provider identity with a role assignment. A zero
// assignment (empty role) marks the user as pending.
func mergeUser(identity *domain.Identity, assignment domain.RoleAssignment) ports.UserView {
	view := ports.UserView{
		ID:        identity.ID,
		Email:     identity.Email(),
		Name:      identity.Name(),
		Picture:   identity.Picture(),
		Role:      assignment.Role,
		IsPending: !assignment.Role.Assigned(),
		CreatedAt: identity.CreatedAt,
	}
	if assignment.Role.Assigned() {
		at := assignment.CreatedAt
		view.RoleAssignedAt = &at
	}
	return view
}
