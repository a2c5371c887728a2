package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clavinorach/kratos-dashboard/internal/core/domain"
	"github.com/clavinorach/kratos-dashboard/internal/core/ports"
)

type stubPageService struct {
	page    *domain.Page
	gotData ports.UpdatePageData
	deleted int64
}

func (s *stubPageService) ListForRole(_ context.Context, role domain.Role) ([]ports.PageSummary, error) {
	if s.page == nil || !s.page.VisibleTo(role) {
		return []ports.PageSummary{}, nil
	}
	return []ports.PageSummary{{
		ID:           s.page.ID,
		Slug:         s.page.Slug,
		Title:        s.page.Title,
		Preview:      "preview text",
		AllowedRoles: s.page.AllowedRoles,
	}}, nil
}

func (s *stubPageService) GetForRole(_ context.Context, slug string, role domain.Role) (*ports.PageView, error) {
	if s.page == nil || s.page.Slug != slug {
		return nil, domain.ErrPageNotFound
	}
	if !s.page.VisibleTo(role) {
		return nil, domain.ErrPageForbidden
	}
	return &ports.PageView{
		ID:    s.page.ID,
		Slug:  s.page.Slug,
		Title: s.page.Title,
		HTML:  "<h1>" + s.page.Title + "</h1>",
	}, nil
}

func (s *stubPageService) ListAll(_ context.Context) ([]domain.Page, error) {
	if s.page == nil {
		return []domain.Page{}, nil
	}
	return []domain.Page{*s.page}, nil
}

func (s *stubPageService) Get(_ context.Context, id int64) (*domain.Page, error) {
	if s.page == nil || s.page.ID != id {
		return nil, domain.ErrPageNotFound
	}
	return s.page, nil
}

func (s *stubPageService) Create(_ context.Context, in ports.CreatePageInput) (*domain.Page, error) {
	if err := domain.ValidateSlug(in.Slug); err != nil {
		return nil, err
	}
	if s.page != nil && s.page.Slug == in.Slug {
		return nil, &domain.DuplicateSlugError{Slug: in.Slug}
	}
	now := time.Now().UTC()
	s.page = &domain.Page{
		ID:           1,
		Slug:         in.Slug,
		Title:        in.Title,
		Content:      in.Content,
		AllowedRoles: in.AllowedRoles,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return s.page, nil
}

func (s *stubPageService) Update(_ context.Context, id int64, data ports.UpdatePageData) (*domain.Page, error) {
	if s.page == nil || s.page.ID != id {
		return nil, domain.ErrPageNotFound
	}
	s.gotData = data
	return s.page, nil
}

func (s *stubPageService) Delete(_ context.Context, id int64) error {
	if s.page == nil || s.page.ID != id {
		return domain.ErrPageNotFound
	}
	s.deleted = id
	return nil
}

func existingPage() *domain.Page {
	return &domain.Page{
		ID:           7,
		Slug:         "onboarding",
		Title:        "Onboarding",
		Content:      "# Onboarding\n\nWelcome aboard.",
		AllowedRoles: []domain.Role{domain.RoleAdmin, domain.RoleUser},
	}
}

func TestAdminPageHandler_Create(t *testing.T) {
	svc := &stubPageService{}
	body := `{"slug":"release-notes","title":"Release Notes","content":"# v1\n\nFirst.","allowed_roles":["admin"]}`
	c, rec := request(http.MethodPost, "/admin/pages", body)

	if err := NewAdminPageHandler(svc).Create(c); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp adminPageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Slug != "release-notes" || len(resp.AllowedRoles) != 1 || resp.AllowedRoles[0] != "admin" {
		t.Fatalf("unexpected body: %+v", resp)
	}
}

func TestAdminPageHandler_Create_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing fields", `{"slug":"x"}`},
		{"empty roles", `{"slug":"x","title":"t","content":"c","allowed_roles":[]}`},
		{"unknown role", `{"slug":"x","title":"t","content":"c","allowed_roles":["root"]}`},
		{"malformed json", `{"slug":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubPageService{}
			c, _ := request(http.MethodPost, "/admin/pages", tt.body)

			err := NewAdminPageHandler(svc).Create(c)
			httpErr, ok := err.(*echo.HTTPError)
			if !ok || httpErr.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %v", err)
			}
			if svc.page != nil {
				t.Fatalf("page created despite invalid payload")
			}
		})
	}
}

func TestAdminPageHandler_Update_PartialBody(t *testing.T) {
	svc := &stubPageService{page: existingPage()}
	c, rec := request(http.MethodPut, "/admin/pages/7", `{"title":"New Title"}`)
	c.SetParamNames("id")
	c.SetParamValues("7")

	if err := NewAdminPageHandler(svc).Update(c); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.gotData.Title == nil || *svc.gotData.Title != "New Title" {
		t.Fatalf("title not forwarded: %+v", svc.gotData)
	}
	if svc.gotData.Slug != nil || svc.gotData.Content != nil || svc.gotData.AllowedRoles != nil {
		t.Fatalf("absent fields should stay nil: %+v", svc.gotData)
	}
}

func TestAdminPageHandler_Update_EmptyBodyIsNoOp(t *testing.T) {
	svc := &stubPageService{page: existingPage()}
	c, rec := request(http.MethodPut, "/admin/pages/7", `{}`)
	c.SetParamNames("id")
	c.SetParamValues("7")

	if err := NewAdminPageHandler(svc).Update(c); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !svc.gotData.Empty() {
		t.Fatalf("empty body produced update data: %+v", svc.gotData)
	}
}

func TestAdminPageHandler_Update_BadID(t *testing.T) {
	svc := &stubPageService{page: existingPage()}
	c, _ := request(http.MethodPut, "/admin/pages/abc", `{"title":"x"}`)
	c.SetParamNames("id")
	c.SetParamValues("abc")

	err := NewAdminPageHandler(svc).Update(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-numeric id, got %v", err)
	}
}

func TestAdminPageHandler_Delete(t *testing.T) {
	svc := &stubPageService{page: existingPage()}
	c, rec := request(http.MethodDelete, "/admin/pages/7", "")
	c.SetParamNames("id")
	c.SetParamValues("7")

	if err := NewAdminPageHandler(svc).Delete(c); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if svc.deleted != 7 {
		t.Fatalf("service not called with id 7: %d", svc.deleted)
	}
}

func TestAdminPageHandler_Get_NotFound(t *testing.T) {
	svc := &stubPageService{}
	c, _ := request(http.MethodGet, "/admin/pages/99", "")
	c.SetParamNames("id")
	c.SetParamValues("99")

	if err := NewAdminPageHandler(svc).Get(c); err != domain.ErrPageNotFound {
		t.Fatalf("expected ErrPageNotFound, got %v", err)
	}
}
