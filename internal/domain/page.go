package domain

import (
	"math"
	"time"
)

// SortOrder is asc or desc.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ListOptions controls pagination, sorting, search and date filtering of list queries.
type ListOptions struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder SortOrder
	Search    string
	StartDate *time.Time
	EndDate   *time.Time
}

// Offset returns the number of rows to skip.
func (o ListOptions) Offset() int {
	if o.Page <= 1 {
		return 0
	}
	return (o.Page - 1) * o.Limit
}

// Page is one slice of a list result.
type Page[T any] struct {
	Items []T
	Total int64
}

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	// MaxOffset bounds the number of rows a list query may skip.
	MaxOffset = math.MaxInt32
)

// Normalize clamps paging values and fills sort defaults.
func (o ListOptions) Normalize() ListOptions {
	if o.Page < 1 {
		o.Page = DefaultPage
	}
	if o.Limit < 1 {
		o.Limit = DefaultLimit
	}
	if o.Limit > MaxLimit {
		o.Limit = MaxLimit
	}
	// past this page the offset would overflow; such a page is empty anyway
	if maxPage := MaxOffset/o.Limit + 1; o.Page > maxPage {
		o.Page = maxPage
	}
	if o.SortBy == "" {
		o.SortBy = "createdAt"
	}
	if o.SortOrder != SortAsc {
		o.SortOrder = SortDesc
	}
	return o
}

// TotalPages returns the number of pages of size limit needed for total items.
func TotalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
