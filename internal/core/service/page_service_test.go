package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/clavinorach/kratos-dashboard/internal/core/domain"
	"github.com/clavinorach/kratos-dashboard/internal/core/ports"
)

type stubPageRepo struct {
	pages  map[int64]domain.Page
	nextID int64
}

func newStubPageRepo() *stubPageRepo {
	return &stubPageRepo{pages: make(map[int64]domain.Page)}
}

func (r *stubPageRepo) ListForRole(_ context.Context, role domain.Role) ([]domain.Page, error) {
	out := make([]domain.Page, 0)
	for _, p := range r.pages {
		if p.VisibleTo(role) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubPageRepo) ListAll(_ context.Context) ([]domain.Page, error) {
	out := make([]domain.Page, 0, len(r.pages))
	for _, p := range r.pages {
		out = append(out, p)
	}
	return out, nil
}

func (r *stubPageRepo) GetBySlug(_ context.Context, slug string) (*domain.Page, error) {
	for _, p := range r.pages {
		if p.Slug == slug {
			clone := p
			return &clone, nil
		}
	}
	return nil, domain.ErrPageNotFound
}

func (r *stubPageRepo) GetByID(_ context.Context, id int64) (*domain.Page, error) {
	p, ok := r.pages[id]
	if !ok {
		return nil, domain.ErrPageNotFound
	}
	clone := p
	return &clone, nil
}

func (r *stubPageRepo) Create(_ context.Context, page *domain.Page) (*domain.Page, error) {
	for _, p := range r.pages {
		if p.Slug == page.Slug {
			return nil, &domain.DuplicateSlugError{Slug: page.Slug}
		}
	}
	r.nextID++
	created := *page
	created.ID = r.nextID
	r.pages[created.ID] = created
	clone := created
	return &clone, nil
}

func (r *stubPageRepo) Update(_ context.Context, id int64, data ports.UpdatePageData) (*domain.Page, error) {
	p, ok := r.pages[id]
	if !ok {
		return nil, domain.ErrPageNotFound
	}
	if data.Empty() {
		clone := p
		return &clone, nil
	}
	if data.Slug != nil {
		for otherID, other := range r.pages {
			if otherID != id && other.Slug == *data.Slug {
				return nil, &domain.DuplicateSlugError{Slug: *data.Slug}
			}
		}
		p.Slug = *data.Slug
	}
	if data.Title != nil {
		p.Title = *data.Title
	}
	if data.Content != nil {
		p.Content = *data.Content
	}
	if data.AllowedRoles != nil {
		p.AllowedRoles = data.AllowedRoles
	}
	p.UpdatedAt = time.Now().UTC()
	r.pages[id] = p
	clone := p
	return &clone, nil
}

func (r *stubPageRepo) Delete(_ context.Context, id int64) (bool, error) {
	_, ok := r.pages[id]
	delete(r.pages, id)
	return ok, nil
}

func seedPage(t *testing.T, svc ports.PageService, slug string, roles ...domain.Role) *domain.Page {
	t.Helper()
	page, err := svc.Create(context.Background(), ports.CreatePageInput{
		Slug:         slug,
		Title:        "Title of " + slug,
		Content:      "# " + slug + "\n\nBody of " + slug + ".",
		AllowedRoles: roles,
	})
	if err != nil {
		t.Fatalf("seed %s: %v", slug, err)
	}
	return page
}

func TestPageService_GetForRole(t *testing.T) {
	svc := NewPageService(newStubPageRepo(), zerolog.Nop())
	seedPage(t, svc, "admin-only", domain.RoleAdmin)
	seedPage(t, svc, "shared", domain.RoleAdmin, domain.RoleUser)

	view, err := svc.GetForRole(context.Background(), "shared", domain.RoleUser)
	if err != nil {
		t.Fatalf("GetForRole error: %v", err)
	}
	if !strings.Contains(view.HTML, "<h1") {
		t.Fatalf("content not rendered: %q", view.HTML)
	}

	if _, err := svc.GetForRole(context.Background(), "admin-only", domain.RoleUser); !errors.Is(err, domain.ErrPageForbidden) {
		t.Fatalf("expected ErrPageForbidden, got %v", err)
	}
	if _, err := svc.GetForRole(context.Background(), "missing", domain.RoleAdmin); !errors.Is(err, domain.ErrPageNotFound) {
		t.Fatalf("expected ErrPageNotFound, got %v", err)
	}
}

func TestPageService_ListForRole_FiltersAndPreviews(t *testing.T) {
	svc := NewPageService(newStubPageRepo(), zerolog.Nop())
	seedPage(t, svc, "admin-only", domain.RoleAdmin)
	seedPage(t, svc, "shared", domain.RoleAdmin, domain.RoleUser)

	summaries, err := svc.ListForRole(context.Background(), domain.RoleUser)
	if err != nil {
		t.Fatalf("ListForRole error: %v", err)
	}
	if len(summaries) != 1 || summaries[0].Slug != "shared" {
		t.Fatalf("unexpected summaries: %+v", summaries)
	}
	if strings.Contains(summaries[0].Preview, "<") || strings.Contains(summaries[0].Preview, "#") {
		t.Fatalf("preview carries markup: %q", summaries[0].Preview)
	}
}

func TestPageService_Create_Validation(t *testing.T) {
	svc := NewPageService(newStubPageRepo(), zerolog.Nop())

	_, err := svc.Create(context.Background(), ports.CreatePageInput{
		Slug:         "Bad Slug",
		Title:        "x",
		Content:      "x",
		AllowedRoles: []domain.Role{domain.RoleAdmin},
	})
	if !errors.Is(err, domain.ErrInvalidSlug) {
		t.Fatalf("expected ErrInvalidSlug, got %v", err)
	}

	_, err = svc.Create(context.Background(), ports.CreatePageInput{
		Slug:         "ok",
		Title:        "x",
		Content:      "x",
		AllowedRoles: []domain.Role{domain.Role("root")},
	})
	if !errors.Is(err, domain.ErrInvalidAllowedRoles) {
		t.Fatalf("expected ErrInvalidAllowedRoles, got %v", err)
	}
}

func TestPageService_Create_DuplicateSlug(t *testing.T) {
	svc := NewPageService(newStubPageRepo(), zerolog.Nop())
	original := seedPage(t, svc, "welcome", domain.RoleAdmin)

	_, err := svc.Create(context.Background(), ports.CreatePageInput{
		Slug:         "welcome",
		Title:        "Other",
		Content:      "other content",
		AllowedRoles: []domain.Role{domain.RoleUser},
	})
	var dup *domain.DuplicateSlugError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateSlugError, got %v", err)
	}
	if dup.Slug != "welcome" || !strings.Contains(dup.Error(), "welcome") {
		t.Fatalf("error does not name the slug: %v", dup)
	}

	// The existing page stays untouched.
	kept, err := svc.Get(context.Background(), original.ID)
	if err != nil {
		t.Fatalf("Get after conflict: %v", err)
	}
	if kept.Title != original.Title || len(kept.AllowedRoles) != 1 || kept.AllowedRoles[0] != domain.RoleAdmin {
		t.Fatalf("original page modified by failed create: %+v", kept)
	}
}

func TestPageService_Update(t *testing.T) {
	svc := NewPageService(newStubPageRepo(), zerolog.Nop())
	page := seedPage(t, svc, "guide", domain.RoleAdmin)

	title := "User Guide"
	updated, err := svc.Update(context.Background(), page.ID, ports.UpdatePageData{Title: &title})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if updated.Title != "User Guide" || updated.Slug != "guide" {
		t.Fatalf("partial update wrong: %+v", updated)
	}

	badSlug := "Not A Slug"
	if _, err := svc.Update(context.Background(), page.ID, ports.UpdatePageData{Slug: &badSlug}); !errors.Is(err, domain.ErrInvalidSlug) {
		t.Fatalf("expected ErrInvalidSlug, got %v", err)
	}

	if _, err := svc.Update(context.Background(), 999, ports.UpdatePageData{Title: &title}); !errors.Is(err, domain.ErrPageNotFound) {
		t.Fatalf("expected ErrPageNotFound, got %v", err)
	}
}

func TestPageService_Update_EmptyIsNoOp(t *testing.T) {
	svc := NewPageService(newStubPageRepo(), zerolog.Nop())
	page := seedPage(t, svc, "about", domain.RoleAdmin)

	current, err := svc.Update(context.Background(), page.ID, ports.UpdatePageData{})
	if err != nil {
		t.Fatalf("empty update should succeed: %v", err)
	}
	if current.Title != page.Title || current.Slug != page.Slug || !current.UpdatedAt.Equal(page.UpdatedAt) {
		t.Fatalf("empty update modified the page: %+v vs %+v", current, page)
	}
}

func TestPageService_Update_DuplicateSlug(t *testing.T) {
	svc := NewPageService(newStubPageRepo(), zerolog.Nop())
	seedPage(t, svc, "first", domain.RoleAdmin)
	second := seedPage(t, svc, "second", domain.RoleAdmin)

	taken := "first"
	_, err := svc.Update(context.Background(), second.ID, ports.UpdatePageData{Slug: &taken})
	var dup *domain.DuplicateSlugError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateSlugError, got %v", err)
	}
	if dup.Slug != "first" {
		t.Fatalf("wrong slug in conflict: %q", dup.Slug)
	}
}

func TestPageService_Delete(t *testing.T) {
	svc := NewPageService(newStubPageRepo(), zerolog.Nop())
	page := seedPage(t, svc, "temp", domain.RoleAdmin)

	if err := svc.Delete(context.Background(), page.ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if err := svc.Delete(context.Background(), page.ID); !errors.Is(err, domain.ErrPageNotFound) {
		t.Fatalf("expected ErrPageNotFound on second delete, got %v", err)
	}
}
