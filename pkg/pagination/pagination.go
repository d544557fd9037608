package pagination

import (
	"math"
)

const (
	// DefaultPerPage is used when a caller asks for fewer than one item per page
	DefaultPerPage = 10
	// MaxPerPage caps a single page
	MaxPerPage = 100
)

// Pagination describes where a page sits inside the full result
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

// PaginationParams represents input parameters for pagination (1-based page)
type PaginationParams struct {
	Page    int `form:"page" json:"page"`
	PerPage int `form:"per_page" json:"per_page"`
}

// DefaultPagination returns default pagination values
func DefaultPagination() *PaginationParams {
	return &PaginationParams{
		Page:    1,
		PerPage: DefaultPerPage,
	}
}

// Validate ensures pagination parameters are within valid ranges
func (p *PaginationParams) Validate() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
}

// Offset calculates the index of the first item of the page
func (p *PaginationParams) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// NewPagination creates a new Pagination response
func NewPagination(page, perPage int, total int64) *Pagination {
	totalPages := int(math.Ceil(float64(total) / float64(perPage)))

	return &Pagination{
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}

// PaginatedResult represents a paginated result with items and pagination info
type PaginatedResult[T any] struct {
	Items      []T         `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

// NewPaginatedResult creates a new paginated result
func NewPaginatedResult[T any](items []T, pagination *Pagination) *PaginatedResult[T] {
	return &PaginatedResult[T]{
		Items:      items,
		Pagination: pagination,
	}
}

// Slice cuts one page out of an in-memory list. The page number is clamped
// into [1, TotalPages] so a page past the end returns the last page instead
// of nothing. items is not copied; the returned Items aliases it.
func Slice[T any](items []T, params PaginationParams) *PaginatedResult[T] {
	params.Validate()

	total := len(items)
	totalPages := int(math.Ceil(float64(total) / float64(params.PerPage)))
	if totalPages > 0 && params.Page > totalPages {
		params.Page = totalPages
	}
	if totalPages == 0 {
		params.Page = 1
	}

	start := params.Offset()
	if start > total {
		start = total
	}
	end := start + params.PerPage
	if end > total {
		end = total
	}

	return NewPaginatedResult(items[start:end], NewPagination(params.Page, params.PerPage, int64(total)))
}
