// Package service holds the business rules that sit between HTTP handlers and
// repositories.
package service

import (
	"strings"

	"alumnet/internal/models"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID uint
	Role   models.Role
}

// IsAdmin reports whether the actor holds the ADMIN role.
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// CanModify reports whether the actor owns the resource or is an admin.
func (a Actor) CanModify(ownerID uint) bool {
	return a.UserID == ownerID || a.IsAdmin()
}

// Page is a 1-based page request.
type Page struct {
	Number int
	Size   int
}

// NewPage clamps page and size into range. A non-positive size falls back to
// def.
func NewPage(number, size, def int) Page {
	if number < 1 {
		number = 1
	}
	if size <= 0 {
		size = def
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return Page{Number: number, Size: size}
}

// Offset is the number of rows skipped before this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// Pagination describes this page of total rows.
func (p Page) Pagination(total int64) models.Pagination {
	return models.NewPagination(p.Number, p.Size, total)
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
