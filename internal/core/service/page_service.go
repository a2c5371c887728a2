package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/clavinorach/kratos-dashboard/internal/api/metrics"
	"github.com/clavinorach/kratos-dashboard/internal/core/domain"
	"github.com/clavinorach/kratos-dashboard/internal/core/ports"
	"github.com/clavinorach/kratos-dashboard/internal/core/render"
)

type pageService struct {
	repo ports.PageRepository
	log  zerolog.Logger
}

// NewPageService returns a PageService backed by repo.
func NewPageService(repo ports.PageRepository, log zerolog.Logger) ports.PageService {
	return &pageService{repo: repo, log: log}
}

func (s *pageService) ListForRole(ctx context.Context, role domain.Role) ([]ports.PageSummary, error) {
	pages, err := s.repo.ListForRole(ctx, role)
	if err != nil {
		return nil, err
	}

	summaries := make([]ports.PageSummary, 0, len(pages))
	for _, p := range pages {
		summaries = append(summaries, ports.PageSummary{
			ID:           p.ID,
			Slug:         p.Slug,
			Title:        p.Title,
			Preview:      render.Preview(p.Content, render.DefaultPreviewLength),
			AllowedRoles: p.AllowedRoles,
			CreatedAt:    p.CreatedAt,
			UpdatedAt:    p.UpdatedAt,
		})
	}
	return summaries, nil
}

// GetForRole renders one page for a caller holding role. Visibility is a
// membership test against the page's allowed-role set; there is no hierarchy.
func (s *pageService) GetForRole(ctx context.Context, slug string, role domain.Role) (*ports.PageView, error) {
	page, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if !page.VisibleTo(role) {
		s.log.Debug().Str("slug", slug).Str("role", string(role)).Msg("page access denied")
		return nil, domain.ErrPageForbidden
	}

	metrics.PagesRenderedTotal.Inc()
	return &ports.PageView{
		ID:           page.ID,
		Slug:         page.Slug,
		Title:        page.Title,
		HTML:         render.Markdown(page.Content),
		AllowedRoles: page.AllowedRoles,
		CreatedAt:    page.CreatedAt,
		UpdatedAt:    page.UpdatedAt,
	}, nil
}

func (s *pageService) ListAll(ctx context.Context) ([]domain.Page, error) {
	return s.repo.ListAll(ctx)
}

func (s *pageService) Get(ctx context.Context, id int64) (*domain.Page, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *pageService) Create(ctx context.Context, in ports.CreatePageInput) (*domain.Page, error) {
	if err := domain.ValidateSlug(in.Slug); err != nil {
		return nil, err
	}
	if err := domain.ValidateAllowedRoles(in.AllowedRoles); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	page, err := s.repo.Create(ctx, &domain.Page{
		Slug:         in.Slug,
		Title:        in.Title,
		Content:      in.Content,
		AllowedRoles: in.AllowedRoles,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("slug", page.Slug).Int64("id", page.ID).Msg("page created")
	return page, nil
}

func (s *pageService) Update(ctx context.Context, id int64, data ports.UpdatePageData) (*domain.Page, error) {
	if data.Slug != nil {
		if err := domain.ValidateSlug(*data.Slug); err != nil {
			return nil, err
		}
	}
	if data.AllowedRoles != nil {
		if err := domain.ValidateAllowedRoles(data.AllowedRoles); err != nil {
			return nil, err
		}
	}

	page, err := s.repo.Update(ctx, id, data)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("slug", page.Slug).Int64("id", id).Msg("page updated")
	return page, nil
}

func (s *pageService) Delete(ctx context.Context, id int64) error {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return domain.ErrPageNotFound
	}

	s.log.Info().Int64("id", id).Msg("page deleted")
	return nil
}
