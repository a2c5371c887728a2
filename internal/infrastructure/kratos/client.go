// Package kratos is a thin HTTP client for the slice of the Ory Kratos API
// this system consumes: session introspection on the public endpoint and
// identity directory reads on the admin endpoint. Everything else the
// provider does (login, logout, credentials, settings) stays provider-hosted.
package kratos

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/clavinorach/kratos-dashboard/internal/api/metrics"
	"github.com/clavinorach/kratos-dashboard/internal/core/domain"
)

const (
	defaultTimeout = 10 * time.Second
	// listPageSize bounds a directory listing to one provider page.
	listPageSize = 250
)

// Client talks to a Kratos deployment. It implements ports.IdentityProvider.
type Client struct {
	publicURL string
	adminURL  string
	http      *http.Client
	log       zerolog.Logger
}

// NewClient builds a Client for the given public and admin base URLs.
func NewClient(publicURL, adminURL string, log zerolog.Logger) *Client {
	return &Client{
		publicURL: publicURL,
		adminURL:  adminURL,
		http:      &http.Client{Timeout: defaultTimeout},
		log:       log,
	}
}

// Wire types. Kratos nests the identity inside the session on whoami.
type wireIdentity struct {
	ID        string         `json:"id"`
	Traits    map[string]any `json:"traits"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type wireSession struct {
	ID              string       `json:"id"`
	Active          bool         `json:"active"`
	ExpiresAt       time.Time    `json:"expires_at"`
	AuthenticatedAt time.Time    `json:"authenticated_at"`
	Identity        wireIdentity `json:"identity"`
}

func (w wireIdentity) toDomain() domain.Identity {
	return domain.Identity{
		ID:        w.ID,
		Traits:    w.Traits,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

// ValidateSession forwards the raw cookie header to /sessions/whoami.
// Any failure — 401, malformed response, transport error — yields
// domain.ErrSessionInvalid so authentication fails closed.
func (c *Client) ValidateSession(ctx context.Context, cookie string) (*domain.Session, *domain.Identity, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.publicURL+"/sessions/whoami", nil)
	if err != nil {
		return nil, nil, domain.ErrSessionInvalid
	}
	req.Header.Set("Cookie", cookie)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.observe("whoami", "error", start)
		c.log.Warn().Err(err).Msg("session validation request failed")
		return nil, nil, domain.ErrSessionInvalid
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.observe("whoami", "error", start)
		if resp.StatusCode != http.StatusUnauthorized {
			c.log.Warn().Int("status", resp.StatusCode).Msg("unexpected whoami status")
		}
		return nil, nil, domain.ErrSessionInvalid
	}

	var session wireSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil || session.Identity.ID == "" {
		c.observe("whoami", "error", start)
		c.log.Warn().Err(err).Msg("malformed whoami response")
		return nil, nil, domain.ErrSessionInvalid
	}
	c.observe("whoami", "ok", start)

	identity := session.Identity.toDomain()
	return &domain.Session{
		ID:              session.ID,
		Active:          session.Active,
		ExpiresAt:       session.ExpiresAt,
		AuthenticatedAt: session.AuthenticatedAt,
	}, &identity, nil
}

// ListIdentities reads the identity directory from the admin endpoint.
func (c *Client) ListIdentities(ctx context.Context) ([]domain.Identity, error) {
	start := time.Now()

	url := fmt.Sprintf("%s/admin/identities?page_size=%d", c.adminURL, listPageSize)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.observe("list_identities", "error", start)
		return nil, fmt.Errorf("list identities: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.observe("list_identities", "error", start)
		return nil, fmt.Errorf("list identities: unexpected status %d", resp.StatusCode)
	}

	var wire []wireIdentity
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		c.observe("list_identities", "error", start)
		return nil, fmt.Errorf("list identities: decode: %w", err)
	}
	c.observe("list_identities", "ok", start)

	identities := make([]domain.Identity, 0, len(wire))
	for _, w := range wire {
		identities = append(identities, w.toDomain())
	}
	return identities, nil
}

// GetIdentity reads one identity from the admin endpoint.
func (c *Client) GetIdentity(ctx context.Context, id string) (*domain.Identity, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.adminURL+"/admin/identities/"+id, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.observe("get_identity", "error", start)
		return nil, fmt.Errorf("get identity: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		c.observe("get_identity", "ok", start)
		return nil, domain.ErrIdentityNotFound
	default:
		c.observe("get_identity", "error", start)
		return nil, fmt.Errorf("get identity: unexpected status %d", resp.StatusCode)
	}

	var wire wireIdentity
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		c.observe("get_identity", "error", start)
		return nil, fmt.Errorf("get identity: decode: %w", err)
	}
	c.observe("get_identity", "ok", start)

	identity := wire.toDomain()
	return &identity, nil
}

// Ready probes the provider's liveness endpoint, for the readiness handler.
func (c *Client) Ready(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.publicURL+"/health/alive", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("kratos alive: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("kratos alive: unexpected status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) observe(endpoint, status string, start time.Time) {
	metrics.ProviderRequestDuration.WithLabelValues(endpoint, status).Observe(time.Since(start).Seconds())
}
