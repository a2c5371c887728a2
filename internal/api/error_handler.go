package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clavinorach/kratos-dashboard/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, and the statuses
	// raised by the session and role middleware).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Conflict errors carry the offending slug in their message.
	var dup *domain.DuplicateSlugError
	if errors.As(err, &dup) {
		return http.StatusBadRequest, dup.Error()
	}

	// Known domain errors → deterministic HTTP codes. Self-demotion and
	// invalid role/slug are validation failures, not authorization ones:
	// the requests are well-formed but policy-rejected.
	switch {
	case errors.Is(err, domain.ErrSessionInvalid):
		return http.StatusUnauthorized, "invalid or expired session"
	case errors.Is(err, domain.ErrIdentityNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, domain.ErrPageNotFound):
		return http.StatusNotFound, "page not found"
	case errors.Is(err, domain.ErrPageForbidden):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, domain.ErrSelfDemotion),
		errors.Is(err, domain.ErrInvalidSlug),
		errors.Is(err, domain.ErrInvalidAllowedRoles):
		return http.StatusBadRequest, err.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
