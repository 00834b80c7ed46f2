package common

import (
	"math"
	"net/http"
	"strconv"
)

// MaxPageSize caps page_size
const MaxPageSize = 100

// PaginationParams represents pagination parameters. A zero PageSize means
// the caller asked for everything.
type PaginationParams struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// PaginationInfo contains pagination details
type PaginationInfo struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// ExtractPaginationParams extracts pagination parameters from request.
// Pagination only applies when page or page_size is present. Page is left
// zero when only page_size is given so query validation can reject it.
func ExtractPaginationParams(r *http.Request) PaginationParams {
	q := r.URL.Query()
	if q.Get("page") == "" && q.Get("page_size") == "" {
		return PaginationParams{}
	}

	params := PaginationParams{PageSize: 20}

	if page := q.Get("page"); page != "" {
		params.Page = 1
		if p, err := strconv.Atoi(page); err == nil && p > 0 {
			params.Page = p
		}
	}

	if pageSize := q.Get("page_size"); pageSize != "" {
		if ps, err := strconv.Atoi(pageSize); err == nil && ps > 0 {
			if ps > MaxPageSize {
				ps = MaxPageSize
			}
			params.PageSize = ps
		}
	}

	return params
}

// Enabled reports whether pagination was requested
func (p PaginationParams) Enabled() bool {
	return p.PageSize > 0
}

// CalculateOffset calculates the offset of the first item on the page.
// Offsets past math.MaxInt saturate.
func (p PaginationParams) CalculateOffset() int {
	if p.Page < 1 || p.PageSize < 1 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.PageSize {
		return math.MaxInt
	}
	return (p.Page - 1) * p.PageSize
}

// Window returns the [start, end) bounds of the page within total items
func (p PaginationParams) Window(total int) (int, int) {
	start := min(p.CalculateOffset(), total)
	end := start + min(max(p.PageSize, 0), total-start)
	return start, end
}

// CalculateTotalPages calculates total number of pages
func CalculateTotalPages(total, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := total / pageSize
	if total%pageSize > 0 {
		pages++
	}
	return pages
}

// BuildPaginationMeta builds pagination metadata
func BuildPaginationMeta(page, pageSize, total int) *PaginationInfo {
	totalPages := CalculateTotalPages(total, pageSize)

	return &PaginationInfo{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}
