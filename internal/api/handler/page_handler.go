package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clavinorach/kratos-dashboard/internal/core/domain"
	"github.com/clavinorach/kratos-dashboard/internal/core/ports"
)

// PageHandler serves the reader-facing page endpoints under /p.
type PageHandler struct {
	pages ports.PageService
}

func NewPageHandler(pages ports.PageService) *PageHandler {
	return &PageHandler{pages: pages}
}

// --- Response types ---

type pageSummaryResponse struct {
	ID           int64     `json:"id"`
	Slug         string    `json:"slug"`
	Title        string    `json:"title"`
	Preview      string    `json:"preview"`
	AllowedRoles []string  `json:"allowed_roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type pageViewResponse struct {
	ID        int64     `json:"id"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	HTML      string    `json:"html"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type viewerResponse struct {
	ID      string  `json:"id"`
	Email   string  `json:"email"`
	Name    string  `json:"name"`
	Picture string  `json:"picture"`
	Role    *string `json:"role"`
}

type listPagesResponse struct {
	Viewer viewerResponse        `json:"viewer"`
	Pages  []pageSummaryResponse `json:"pages"`
}

type getPageResponse struct {
	Viewer viewerResponse   `json:"viewer"`
	Page   pageViewResponse `json:"page"`
}

// List handles GET /p: the pages visible to the caller's role, newest first,
// with plain-text previews instead of raw content.
func (h *PageHandler) List(c echo.Context) error {
	rc, err := ctxAuth(c)
	if err != nil {
		return err
	}

	summaries, err := h.pages.ListForRole(c.Request().Context(), rc.Role)
	if err != nil {
		return err
	}

	pages := make([]pageSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		pages = append(pages, pageSummaryResponse{
			ID:           s.ID,
			Slug:         s.Slug,
			Title:        s.Title,
			Preview:      s.Preview,
			AllowedRoles: rolesToStrings(s.AllowedRoles),
			CreatedAt:    s.CreatedAt,
			UpdatedAt:    s.UpdatedAt,
		})
	}

	return c.JSON(http.StatusOK, listPagesResponse{
		Viewer: h.viewer(rc),
		Pages:  pages,
	})
}

// Get handles GET /p/:slug: one page rendered to sanitized HTML. 403 when
// the caller's role is not in the page's allowed set.
func (h *PageHandler) Get(c echo.Context) error {
	rc, err := ctxAuth(c)
	if err != nil {
		return err
	}

	view, err := h.pages.GetForRole(c.Request().Context(), c.Param("slug"), rc.Role)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, getPageResponse{
		Viewer: h.viewer(rc),
		Page: pageViewResponse{
			ID:        view.ID,
			Slug:      view.Slug,
			Title:     view.Title,
			HTML:      view.HTML,
			CreatedAt: view.CreatedAt,
			UpdatedAt: view.UpdatedAt,
		},
	})
}

func (h *PageHandler) viewer(rc *domain.RequestContext) viewerResponse {
	return viewerResponse{
		ID:      rc.Identity.ID,
		Email:   rc.Identity.Email(),
		Name:    rc.Identity.Name(),
		Picture: rc.Identity.Picture(),
		Role:    roleJSON(rc.Role),
	}
}
