package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/clavinorach/kratos-dashboard/internal/api/metrics"
	"github.com/clavinorach/kratos-dashboard/internal/core/domain"
)

// RequireRole enforces role-based access control after a session middleware
// has populated the request context.
//
// The gate distinguishes three failure states, each with its own message:
// no identity (401), identity without a role (403, awaiting approval), and a
// role outside the allowed set (403, naming the required roles).
func RequireRole(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	names := make([]string, 0, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
		names = append(names, string(r))
	}
	required := strings.Join(names, ", ")

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rc := FromContext(c)

			if !rc.Authenticated() {
				metrics.RoleDecisionsTotal.WithLabelValues("unauthenticated").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			if rc.Role == domain.RolePending {
				metrics.RoleDecisionsTotal.WithLabelValues("pending").Inc()
				return echo.NewHTTPError(http.StatusForbidden,
					"your account is pending approval; please wait for an administrator to assign a role")
			}

			if _, ok := allowed[rc.Role]; !ok {
				metrics.RoleDecisionsTotal.WithLabelValues("forbidden").Inc()
				return echo.NewHTTPError(http.StatusForbidden,
					fmt.Sprintf("this action requires one of the following roles: %s", required))
			}

			metrics.RoleDecisionsTotal.WithLabelValues("granted").Inc()
			return next(c)
		}
	}
}

// RequireAdmin gates admin-only routes.
func RequireAdmin() echo.MiddlewareFunc {
	return RequireRole(domain.RoleAdmin)
}

// RequireApproved admits any assigned role; it only rejects unauthenticated
// and pending callers.
func RequireApproved() echo.MiddlewareFunc {
	return RequireRole(domain.RoleAdmin, domain.RoleUser)
}
