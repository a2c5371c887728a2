package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clavinorach/kratos-dashboard/internal/core/domain"
	"github.com/clavinorach/kratos-dashboard/internal/core/ports"
)

// UserHandler handles the admin user-management endpoints.
type UserHandler struct {
	users ports.UserService
}

func NewUserHandler(users ports.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// --- Request / Response types ---

type assignRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin user"`
}

type userResponse struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	Name           string     `json:"name"`
	Picture        string     `json:"picture"`
	Role           *string    `json:"role"`
	IsPending      bool       `json:"is_pending"`
	CreatedAt      time.Time  `json:"created_at"`
	RoleAssignedAt *time.Time `json:"role_assigned_at,omitempty"`
}

type userStatsResponse struct {
	Total   int `json:"total"`
	Admins  int `json:"admins"`
	Users   int `json:"users"`
	Pending int `json:"pending"`
}

type listUsersResponse struct {
	Users []userResponse    `json:"users"`
	Stats userStatsResponse `json:"stats"`
}

type assignRoleResponse struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func toUserResponse(v ports.UserView) userResponse {
	return userResponse{
		ID:             v.ID,
		Email:          v.Email,
		Name:           v.Name,
		Picture:        v.Picture,
		Role:           roleJSON(v.Role),
		IsPending:      v.IsPending,
		CreatedAt:      v.CreatedAt,
		RoleAssignedAt: v.RoleAssignedAt,
	}
}

// List handles GET /admin/users: every provider identity merged with its
// local role record, plus dashboard stats.
func (h *UserHandler) List(c echo.Context) error {
	result, err := h.users.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}

	users := make([]userResponse, 0, len(result.Users))
	for _, v := range result.Users {
		users = append(users, toUserResponse(v))
	}

	return c.JSON(http.StatusOK, listUsersResponse{
		Users: users,
		Stats: userStatsResponse{
			Total:   result.Stats.Total,
			Admins:  result.Stats.Admins,
			Users:   result.Stats.Users,
			Pending: result.Stats.Pending,
		},
	})
}

// Get handles GET /admin/users/:id.
func (h *UserHandler) Get(c echo.Context) error {
	view, err := h.users.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(*view))
}

// AssignRole handles POST /admin/users/:id/role. Invalid role values and
// self-demotion are rejected before any store write.
func (h *UserHandler) AssignRole(c echo.Context) error {
	rc, err := ctxAuth(c)
	if err != nil {
		return err
	}

	var req assignRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return err
	}

	view, err := h.users.AssignRole(c.Request().Context(), rc.Identity.ID, c.Param("id"), role)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, assignRoleResponse{
		Message: "role updated successfully",
		User:    toUserResponse(*view),
	})
}

// RemoveRole handles DELETE /admin/users/:id/role, reverting the target to
// pending.
func (h *UserHandler) RemoveRole(c echo.Context) error {
	rc, err := ctxAuth(c)
	if err != nil {
		return err
	}

	if err := h.users.RemoveRole(c.Request().Context(), rc.Identity.ID, c.Param("id")); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{
		Message: "role removed successfully; user is now pending approval",
	})
}
