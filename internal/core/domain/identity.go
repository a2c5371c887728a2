package domain

import "time"

// Identity is an account owned by the external identity provider. Only the
// identifier is ever persisted locally; traits are read-only from our side
// and fetched fresh on each request.
type Identity struct {
	ID        string         `json:"id"`
	Traits    map[string]any `json:"traits"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Email returns the email trait, or "" when absent.
func (i *Identity) Email() string { return i.trait("email") }

// Name returns the display-name trait, or "" when absent.
// Some upstream providers (GitLab) supply name as a single string field.
func (i *Identity) Name() string { return i.trait("name") }

// Picture returns the avatar URL trait, or "" when absent.
func (i *Identity) Picture() string { return i.trait("picture") }

func (i *Identity) trait(key string) string {
	if i == nil || i.Traits == nil {
		return ""
	}
	s, _ := i.Traits[key].(string)
	return s
}

// Session is a validated provider session. Opaque to this system beyond its
// identifier and expiry; credential machinery lives entirely upstream.
type Session struct {
	ID              string    `json:"id"`
	Active          bool      `json:"active"`
	ExpiresAt       time.Time `json:"expires_at"`
	AuthenticatedAt time.Time `json:"authenticated_at"`
}

// RequestContext is the per-request authentication result produced by the
// session middleware and consumed by the role gate and handlers. It is built
// once per request and never mutated afterwards: each middleware stage hands
// the same immutable value downstream.
type RequestContext struct {
	Session  *Session
	Identity *Identity
	// Role is RolePending when the identity has no assignment yet.
	Role Role
}

// Authenticated reports whether a validated identity is attached.
func (rc *RequestContext) Authenticated() bool {
	return rc != nil && rc.Identity != nil
}
