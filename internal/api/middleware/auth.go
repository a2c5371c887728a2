package middleware

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/clavinorach/kratos-dashboard/internal/api/metrics"
	"github.com/clavinorach/kratos-dashboard/internal/core/domain"
	"github.com/clavinorach/kratos-dashboard/internal/core/ports"
)

// contextKey is where the resolved RequestContext lives on the echo context.
const contextKey = "auth_context"

// FromContext returns the RequestContext resolved by a session middleware,
// or nil when no middleware ran (or optional resolution failed).
func FromContext(c echo.Context) *domain.RequestContext {
	rc, _ := c.Get(contextKey).(*domain.RequestContext)
	return rc
}

// Session authenticates browser requests. Missing or invalid sessions are
// redirected to the provider-hosted login flow, carrying the original request
// target as return_to so the user lands back where they started.
func Session(provider ports.IdentityProvider, roles ports.RoleRepository, loginURL, appURL string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rc, err := resolve(c, provider, roles)
			if err != nil {
				return err
			}
			if rc == nil {
				target := loginURL + "/login?return_to=" + url.QueryEscape(appURL+c.Request().RequestURI)
				return c.Redirect(http.StatusFound, target)
			}
			c.Set(contextKey, rc)
			return next(c)
		}
	}
}

// SessionAPI authenticates machine requests. Missing or invalid sessions get
// a structured 401 instead of a redirect.
func SessionAPI(provider ports.IdentityProvider, roles ports.RoleRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rc, err := resolve(c, provider, roles)
			if err != nil {
				return err
			}
			if rc == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing session")
			}
			c.Set(contextKey, rc)
			return next(c)
		}
	}
}

// SessionOptional never fails: when resolution does not succeed the context
// is simply left unset and downstream handlers decide what an absent
// identity means.
func SessionOptional(provider ports.IdentityProvider, roles ports.RoleRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rc, err := resolve(c, provider, roles)
			if err != nil {
				return err
			}
			if rc != nil {
				c.Set(contextKey, rc)
			}
			return next(c)
		}
	}
}

// resolve validates the request's cookie with the identity provider and
// merges in the locally stored role. It returns (nil, nil) for requests that
// did not authenticate — the caller decides between redirect, 401, and
// pass-through. Provider failures count as unauthenticated: auth fails
// closed. Only the role lookup can produce an error.
func resolve(c echo.Context, provider ports.IdentityProvider, roles ports.RoleRepository) (*domain.RequestContext, error) {
	cookie := c.Request().Header.Get("Cookie")
	if cookie == "" {
		metrics.SessionChecksTotal.WithLabelValues("missing").Inc()
		return nil, nil
	}

	session, identity, err := provider.ValidateSession(c.Request().Context(), cookie)
	if err != nil {
		metrics.SessionChecksTotal.WithLabelValues("invalid").Inc()
		return nil, nil
	}
	metrics.SessionChecksTotal.WithLabelValues("valid").Inc()

	role := domain.RolePending
	assignment, err := roles.Get(c.Request().Context(), identity.ID)
	if err != nil {
		return nil, err
	}
	if assignment != nil {
		role = assignment.Role
	}

	return &domain.RequestContext{Session: session, Identity: identity, Role: role}, nil
}
