package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/clavinorach/kratos-dashboard/internal/api/metrics"
	"github.com/clavinorach/kratos-dashboard/internal/core/domain"
	"github.com/clavinorach/kratos-dashboard/internal/core/ports"
)

const (
	defaultIdentityTTL = 30 * time.Second

	keyIdentityList   = "identities:all"
	keyIdentityPrefix = "identities:"
)

// IdentityCache is a read-through cache in front of the identity provider's
// directory calls. Directory reads back the admin views and tolerate short
// staleness; a small TTL keeps the provider off the hot path without
// affecting authorization decisions.
//
// Session validation is deliberately NOT cached: every request resolves its
// own session against the provider.
type IdentityCache struct {
	inner  ports.IdentityProvider
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// NewIdentityCache wraps inner with a Redis-backed directory cache.
// If ttl <= 0, defaultIdentityTTL is used.
func NewIdentityCache(inner ports.IdentityProvider, client *redis.Client, ttl time.Duration, log zerolog.Logger) *IdentityCache {
	if ttl <= 0 {
		ttl = defaultIdentityTTL
	}
	return &IdentityCache{inner: inner, client: client, ttl: ttl, log: log}
}

// ValidateSession passes straight through to the provider.
func (c *IdentityCache) ValidateSession(ctx context.Context, cookie string) (*domain.Session, *domain.Identity, error) {
	return c.inner.ValidateSession(ctx, cookie)
}

// ListIdentities serves the directory listing from cache when fresh. Cache
// failures fail open: the provider is called and the result returned even if
// it cannot be stored.
func (c *IdentityCache) ListIdentities(ctx context.Context) ([]domain.Identity, error) {
	var cached []domain.Identity
	if c.lookup(ctx, keyIdentityList, &cached) {
		return cached, nil
	}

	identities, err := c.inner.ListIdentities(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, keyIdentityList, identities)
	return identities, nil
}

// GetIdentity serves a single identity from cache when fresh. Negative
// results (not found) are never cached.
func (c *IdentityCache) GetIdentity(ctx context.Context, id string) (*domain.Identity, error) {
	key := keyIdentityPrefix + id

	var cached domain.Identity
	if c.lookup(ctx, key, &cached) {
		return &cached, nil
	}

	identity, err := c.inner.GetIdentity(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, identity)
	return identity, nil
}

// lookup reports whether key held a fresh entry decoded into dest.
func (c *IdentityCache) lookup(ctx context.Context, key string, dest any) bool {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Str("key", key).Msg("identity cache read failed")
		}
		metrics.IdentityCacheTotal.WithLabelValues("miss").Inc()
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("identity cache entry corrupt")
		metrics.IdentityCacheTotal.WithLabelValues("miss").Inc()
		return false
	}
	metrics.IdentityCacheTotal.WithLabelValues("hit").Inc()
	return true
}

func (c *IdentityCache) store(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("identity cache write failed")
	}
}
