package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clavinorach/kratos-dashboard/internal/core/domain"
)

// MeHandler serves the current caller's merged identity + role view.
type MeHandler struct{}

func NewMeHandler() *MeHandler {
	return &MeHandler{}
}

type meResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Picture   string    `json:"picture"`
	Role      *string   `json:"role"`
	IsPending bool      `json:"is_pending"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Get handles GET /me. Any authenticated caller, including pending accounts,
// can inspect their own state.
func (h *MeHandler) Get(c echo.Context) error {
	rc, err := ctxAuth(c)
	if err != nil {
		return err
	}

	identity := rc.Identity
	return c.JSON(http.StatusOK, meResponse{
		ID:        identity.ID,
		Email:     identity.Email(),
		Name:      identity.Name(),
		Picture:   identity.Picture(),
		Role:      roleJSON(rc.Role),
		IsPending: rc.Role == domain.RolePending,
		IsAdmin:   rc.Role == domain.RoleAdmin,
		CreatedAt: identity.CreatedAt,
		UpdatedAt: identity.UpdatedAt,
	})
}
