package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clavinorach/kratos-dashboard/internal/core/domain"
)

func handle(t *testing.T, err error) (int, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not the error envelope: %v (%s)", err, rec.Body.String())
	}
	return rec.Code, body.Error
}

func TestErrorHandler_DomainErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"session invalid", domain.ErrSessionInvalid, http.StatusUnauthorized, "invalid or expired session"},
		{"identity not found", domain.ErrIdentityNotFound, http.StatusNotFound, "user not found"},
		{"page not found", domain.ErrPageNotFound, http.StatusNotFound, "page not found"},
		{"page forbidden", domain.ErrPageForbidden, http.StatusForbidden, domain.ErrPageForbidden.Error()},
		{"invalid role", domain.ErrInvalidRole, http.StatusBadRequest, domain.ErrInvalidRole.Error()},
		{"self demotion", domain.ErrSelfDemotion, http.StatusBadRequest, domain.ErrSelfDemotion.Error()},
		{"invalid slug", domain.ErrInvalidSlug, http.StatusBadRequest, domain.ErrInvalidSlug.Error()},
		{"invalid allowed roles", domain.ErrInvalidAllowedRoles, http.StatusBadRequest, domain.ErrInvalidAllowedRoles.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, msg := handle(t, tt.err)
			if code != tt.wantCode {
				t.Fatalf("code = %d, want %d", code, tt.wantCode)
			}
			if msg != tt.wantMsg {
				t.Fatalf("msg = %q, want %q", msg, tt.wantMsg)
			}
		})
	}
}

func TestErrorHandler_DuplicateSlugNamesTheSlug(t *testing.T) {
	code, msg := handle(t, &domain.DuplicateSlugError{Slug: "getting-started"})
	if code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", code)
	}
	if !strings.Contains(msg, "getting-started") {
		t.Fatalf("message does not name the slug: %q", msg)
	}
}

func TestErrorHandler_EchoErrorsPassThrough(t *testing.T) {
	code, msg := handle(t, echo.NewHTTPError(http.StatusForbidden, "no entry"))
	if code != http.StatusForbidden || msg != "no entry" {
		t.Fatalf("got %d %q", code, msg)
	}
}

func TestErrorHandler_UnknownErrorIsOpaque500(t *testing.T) {
	code, msg := handle(t, errors.New("mongo: socket was unexpectedly closed"))
	if code != http.StatusInternalServerError {
		t.Fatalf("code = %d, want 500", code)
	}
	if msg != "internal server error" {
		t.Fatalf("internal details leaked: %q", msg)
	}
}
