package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clavinorach/kratos-dashboard/internal/core/domain"
	"github.com/clavinorach/kratos-dashboard/internal/core/ports"
)

// AdminPageHandler handles page CRUD under /admin/pages.
type AdminPageHandler struct {
	pages ports.PageService
}

func NewAdminPageHandler(pages ports.PageService) *AdminPageHandler {
	return &AdminPageHandler{pages: pages}
}

// --- Request / Response types ---

type createPageRequest struct {
	Slug         string   `json:"slug"          validate:"required"`
	Title        string   `json:"title"         validate:"required"`
	Content      string   `json:"content"       validate:"required"`
	AllowedRoles []string `json:"allowed_roles" validate:"required,min=1,dive,oneof=admin user"`
}

type updatePageRequest struct {
	Slug         *string  `json:"slug"`
	Title        *string  `json:"title"`
	Content      *string  `json:"content"`
	AllowedRoles []string `json:"allowed_roles" validate:"omitempty,min=1,dive,oneof=admin user"`
}

// adminPageResponse is the raw page view: full content, no rendering.
type adminPageResponse struct {
	ID           int64     `json:"id"`
	Slug         string    `json:"slug"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	AllowedRoles []string  `json:"allowed_roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type listAdminPagesResponse struct {
	Pages []adminPageResponse `json:"pages"`
	Total int                 `json:"total"`
}

func toAdminPageResponse(p *domain.Page) adminPageResponse {
	return adminPageResponse{
		ID:           p.ID,
		Slug:         p.Slug,
		Title:        p.Title,
		Content:      p.Content,
		AllowedRoles: rolesToStrings(p.AllowedRoles),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// pageID parses the :id route parameter.
func pageID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid page id")
	}
	return id, nil
}

// List handles GET /admin/pages: every page, no role filter.
func (h *AdminPageHandler) List(c echo.Context) error {
	pages, err := h.pages.ListAll(c.Request().Context())
	if err != nil {
		return err
	}

	out := make([]adminPageResponse, 0, len(pages))
	for i := range pages {
		out = append(out, toAdminPageResponse(&pages[i]))
	}
	return c.JSON(http.StatusOK, listAdminPagesResponse{Pages: out, Total: len(out)})
}

// Get handles GET /admin/pages/:id.
func (h *AdminPageHandler) Get(c echo.Context) error {
	id, err := pageID(c)
	if err != nil {
		return err
	}

	page, err := h.pages.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAdminPageResponse(page))
}

// Create handles POST /admin/pages.
func (h *AdminPageHandler) Create(c echo.Context) error {
	var req createPageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	page, err := h.pages.Create(c.Request().Context(), ports.CreatePageInput{
		Slug:         req.Slug,
		Title:        req.Title,
		Content:      req.Content,
		AllowedRoles: parseRoles(req.AllowedRoles),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toAdminPageResponse(page))
}

// Update handles PUT /admin/pages/:id. All fields optional; an empty body
// returns the current record unchanged.
func (h *AdminPageHandler) Update(c echo.Context) error {
	id, err := pageID(c)
	if err != nil {
		return err
	}

	var req updatePageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	data := ports.UpdatePageData{
		Slug:    req.Slug,
		Title:   req.Title,
		Content: req.Content,
	}
	if req.AllowedRoles != nil {
		data.AllowedRoles = parseRoles(req.AllowedRoles)
	}

	page, err := h.pages.Update(c.Request().Context(), id, data)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAdminPageResponse(page))
}

// Delete handles DELETE /admin/pages/:id.
func (h *AdminPageHandler) Delete(c echo.Context) error {
	id, err := pageID(c)
	if err != nil {
		return err
	}

	if err := h.pages.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
