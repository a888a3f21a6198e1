package dto

import "github.com/spec-kit/vetclinic-service/internal/domain"

// Pagination describes the slice returned by a list endpoint.
type Pagination struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// PageResponse wraps list results.
type PageResponse[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// NewPageResponse maps every item through conv.
func NewPageResponse[In, Out any](page *domain.Page[In], opts domain.ListOptions, conv func(In) Out) PageResponse[Out] {
	data := make([]Out, 0, len(page.Items))
	for _, item := range page.Items {
		data = append(data, conv(item))
	}
	totalPages := domain.TotalPages(page.Total, opts.Limit)
	return PageResponse[Out]{
		Data: data,
		Pagination: Pagination{
			Page:        opts.Page,
			Limit:       opts.Limit,
			Total:       page.Total,
			TotalPages:  totalPages,
			HasNextPage: opts.Page < totalPages,
			HasPrevPage: opts.Page > 1,
		},
	}
}
