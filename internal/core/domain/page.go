package domain

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

var ErrPageNotFound = errors.New("page not found")
var ErrPageForbidden = errors.New("you do not have permission to view this page")
var ErrInvalidSlug = errors.New(`invalid slug format: use lowercase letters, numbers, and hyphens only (e.g. "my-page-title")`)
var ErrInvalidAllowedRoles = errors.New("allowed_roles must contain at least one of: admin, user")

// DuplicateSlugError reports a slug uniqueness violation on create or update.
type DuplicateSlugError struct {
	Slug string
}

func (e *DuplicateSlugError) Error() string {
	return fmt.Sprintf("page with slug %q already exists", e.Slug)
}

// slugPattern allows lowercase alphanumeric segments joined by single
// hyphens: no leading, trailing, or doubled hyphens.
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// ValidateSlug checks the slug format used for page URLs.
func ValidateSlug(slug string) error {
	if !slugPattern.MatchString(slug) {
		return ErrInvalidSlug
	}
	return nil
}

// ValidateAllowedRoles checks that roles is a non-empty subset of the closed
// role set. Visibility is plain set membership, so an empty list would make
// a page invisible to everyone including admins.
func ValidateAllowedRoles(roles []Role) error {
	if len(roles) == 0 {
		return ErrInvalidAllowedRoles
	}
	for _, r := range roles {
		if !r.Assigned() {
			return ErrInvalidAllowedRoles
		}
	}
	return nil
}

// Page is a markdown content page gated by an allowed-role list.
type Page struct {
	ID           int64     `json:"id" bson:"_id"`
	Slug         string    `json:"slug" bson:"slug"`
	Title        string    `json:"title" bson:"title"`
	Content      string    `json:"content" bson:"content"`
	AllowedRoles []Role    `json:"allowed_roles" bson:"allowed_roles"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// VisibleTo reports whether role appears in the page's allowed-role set.
// Membership only: an admin-only page is invisible to "user" and vice versa,
// there is no role hierarchy.
func (p *Page) VisibleTo(role Role) bool {
	for _, r := range p.AllowedRoles {
		if r == role {
			return true
		}
	}
	return false
}
