package ports

import (
	"context"

	"github.com/clavinorach/kratos-dashboard/internal/core/domain"
)

// IdentityProvider is the narrow contract with the external identity service.
// Login, logout, and credential storage are provider-hosted; this system only
// introspects sessions and reads the identity directory.
type IdentityProvider interface {
	// ValidateSession introspects the raw Cookie header of an inbound
	// request. It returns domain.ErrSessionInvalid for missing, expired, or
	// unparseable sessions, and for any transport failure: authentication
	// fails closed, provider errors never turn into auth success.
	ValidateSession(ctx context.Context, cookie string) (*domain.Session, *domain.Identity, error)

	// ListIdentities returns the provider's identity directory (admin API).
	ListIdentities(ctx context.Context) ([]domain.Identity, error)

	// GetIdentity returns one identity, or domain.ErrIdentityNotFound.
	GetIdentity(ctx context.Context, id string) (*domain.Identity, error)
}
