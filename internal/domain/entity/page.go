package entity

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 50
)

// PageRequest is a normalized page/limit pair.
type PageRequest struct {
	Page  int
	Limit int
}

// NewPageRequest clamps page to at least 1 and limit to [1, MaxPageLimit],
// substituting DefaultPageLimit for non-positive limits.
func NewPageRequest(page, limit int) PageRequest {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return PageRequest{Page: page, Limit: limit}
}

func (p PageRequest) Offset() int { return (p.Page - 1) * p.Limit }

// Page is one page of results with its pagination metadata.
type Page[T any] struct {
	Items []T `json:"items"`
	Pagination
}

type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

func NewPage[T any](items []T, total int, req PageRequest) Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if req.Limit > 0 {
		pages = (total + req.Limit - 1) / req.Limit
	}
	return Page[T]{
		Items:      items,
		Pagination: Pagination{Total: total, Page: req.Page, Limit: req.Limit, TotalPages: pages},
	}
}
