package ports

import (
	"context"

	"github.com/clavinorach/kratos-dashboard/internal/core/domain"
)

// UpdatePageData carries a partial page update. Nil fields are left
// untouched; an all-nil update is a no-op returning the current record.
type UpdatePageData struct {
	Slug         *string
	Title        *string
	Content      *string
	AllowedRoles []domain.Role
}

// Empty reports whether the update changes nothing.
func (d UpdatePageData) Empty() bool {
	return d.Slug == nil && d.Title == nil && d.Content == nil && d.AllowedRoles == nil
}

// PageRepository defines persistence operations for content pages.
type PageRepository interface {
	// ListForRole returns pages whose allowed_roles contains role,
	// newest-created-first.
	ListForRole(ctx context.Context, role domain.Role) ([]domain.Page, error)

	// ListAll returns every page, newest-created-first, with no role filter.
	ListAll(ctx context.Context) ([]domain.Page, error)

	GetBySlug(ctx context.Context, slug string) (*domain.Page, error)
	GetByID(ctx context.Context, id int64) (*domain.Page, error)

	// Create inserts a page, returning *domain.DuplicateSlugError when the
	// slug is already taken.
	Create(ctx context.Context, p *domain.Page) (*domain.Page, error)

	// Update applies a partial update. Same duplicate-slug failure mode as
	// Create; domain.ErrPageNotFound when the id is unknown.
	Update(ctx context.Context, id int64, data UpdatePageData) (*domain.Page, error)

	// Delete removes a page, reporting whether it existed.
	Delete(ctx context.Context, id int64) (bool, error)
}
