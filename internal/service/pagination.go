// Package service implements the query/pagination and mutation/authorization
// services on top of the repositories.
package service

import "quill/internal/models"

// PageSize is the fixed number of posts per feed page.
const PageSize = 10

// PostPage is one page of a feed, with enough derived state for a template to
// render pagination controls.
type PostPage struct {
	Posts      []*models.Post
	Number     int
	TotalPages int
	TotalCount int64
}

// HasPrevious reports whether a previous page exists.
func (p *PostPage) HasPrevious() bool { return p.Number > 1 }

// HasNext reports whether a following page exists.
func (p *PostPage) HasNext() bool { return p.Number < p.TotalPages }

// totalPages derives the page count for a feed. An empty feed still has one
// (empty) page, so clamping always has a valid target.
func totalPages(count int64) int {
	pages := int((count + PageSize - 1) / PageSize)
	if pages < 1 {
		pages = 1
	}
	return pages
}

// clampPage snaps a requested 1-indexed page number into [1, total].
func clampPage(requested, total int) int {
	if requested < 1 {
		return 1
	}
	if requested > total {
		return total
	}
	return requested
}
