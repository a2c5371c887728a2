package ports

import (
	"context"
	"time"

	"github.com/clavinorach/kratos-dashboard/internal/core/domain"
)

// CreatePageInput carries all data needed to create a page.
type CreatePageInput struct {
	Slug         string
	Title        string
	Content      string
	AllowedRoles []domain.Role
}

// PageSummary is the list view of a page: no raw content, just a plain-text
// preview of it.
type PageSummary struct {
	ID           int64
	Slug         string
	Title        string
	Preview      string
	AllowedRoles []domain.Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PageView is a single page prepared for display: content rendered to
// sanitized HTML.
type PageView struct {
	ID           int64
	Slug         string
	Title        string
	HTML         string
	AllowedRoles []domain.Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PageService defines use-case operations for content pages.
type PageService interface {
	// ListForRole returns summaries of the pages visible to role.
	ListForRole(ctx context.Context, role domain.Role) ([]PageSummary, error)

	// GetForRole renders one page for a caller holding role. Returns
	// domain.ErrPageForbidden when role is not in the page's allowed set.
	GetForRole(ctx context.Context, slug string, role domain.Role) (*PageView, error)

	// Admin operations. No role filtering, raw content.
	ListAll(ctx context.Context) ([]domain.Page, error)
	Get(ctx context.Context, id int64) (*domain.Page, error)
	Create(ctx context.Context, in CreatePageInput) (*domain.Page, error)
	Update(ctx context.Context, id int64, data UpdatePageData) (*domain.Page, error)
	Delete(ctx context.Context, id int64) error
}
