package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clavinorach/kratos-dashboard/internal/api/middleware"
	"github.com/clavinorach/kratos-dashboard/internal/core/domain"
)

// ctxAuth extracts the request context resolved by the session middleware
// and fast-fails when it is absent. Presence proves the middleware ran;
// handlers behind a session gate must never see an empty context.
func ctxAuth(c echo.Context) (*domain.RequestContext, error) {
	rc := middleware.FromContext(c)
	if !rc.Authenticated() {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return rc, nil
}

// roleJSON maps the pending role to JSON null so clients can distinguish
// "no role yet" from any assigned value.
func roleJSON(r domain.Role) *string {
	if !r.Assigned() {
		return nil
	}
	s := string(r)
	return &s
}

// rolesToStrings converts a role set for JSON responses.
func rolesToStrings(roles []domain.Role) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		out = append(out, string(r))
	}
	return out
}

// parseRoles converts request role strings after request-level validation
// has constrained them to the closed set.
func parseRoles(raw []string) []domain.Role {
	roles := make([]domain.Role, 0, len(raw))
	for _, s := range raw {
		roles = append(roles, domain.Role(s))
	}
	return roles
}
