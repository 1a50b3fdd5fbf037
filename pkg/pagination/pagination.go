package pagination

import "math"

// Pagination represents pagination parameters
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

// PaginationParams represents input parameters for pagination
type PaginationParams struct {
	Page    int `form:"page" json:"page"`
	PerPage int `form:"per_page" json:"per_page"`
}

// Bounds limits the page size a client may ask for
type Bounds struct {
	Default int
	Min     int
	Max     int
}

// DefaultBounds returns the invoice list limits: 7 per page, between 5 and 25
func DefaultBounds() Bounds {
	return Bounds{Default: 7, Min: 5, Max: 25}
}

// ValidateWithin clamps the page to >= 1 and the page size into [Min, Max].
// A missing page size takes Default.
func (p *PaginationParams) ValidateWithin(b Bounds) {
	if b.Min < 1 {
		b.Min = 1
	}
	if b.Max < b.Min {
		b.Max = b.Min
	}
	if b.Default < b.Min || b.Default > b.Max {
		b.Default = b.Min
	}
	if p.Page < 1 {
		p.Page = 1
	}
	switch {
	case p.PerPage == 0:
		p.PerPage = b.Default
	case p.PerPage < b.Min:
		p.PerPage = b.Min
	case p.PerPage > b.Max:
		p.PerPage = b.Max
	}
}

// NewPagination creates a new Pagination response
func NewPagination(page, perPage int, total int64) *Pagination {
	totalPages := 0
	if perPage > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(perPage)))
	}

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

// Paginate slices an in-memory list. A page past the end is pulled back to
// the last page so the client never lands on an empty screen.
func Paginate[T any](items []T, params *PaginationParams) *PaginatedResult[T] {
	total := len(items)
	page := params.Page
	if page < 1 {
		page = 1
	}
	if params.PerPage > 0 && total > 0 {
		last := (total + params.PerPage - 1) / params.PerPage
		if page > last {
			page = last
		}
	}

	start := (page - 1) * params.PerPage
	if start > total {
		start = total
	}
	end := start + params.PerPage
	if end > total {
		end = total
	}

	window := make([]T, end-start)
	copy(window, items[start:end])
	return NewPaginatedResult(window, NewPagination(page, params.PerPage, int64(total)))
}
