// Package listutil paginates list responses.
package listutil

import (
	"net/url"
	"strconv"
)

// DefaultPerPage is used when the request asks for no page size or an unsupported one.
const DefaultPerPage = 50

// PerPageOptions are the allowed page sizes.
var PerPageOptions = []int{10, 20, 50, 100, 200}

// PageParams carries pagination parameters parsed from a request.
type PageParams struct {
	Page    int // 1-indexed
	PerPage int
}

// PageInfo carries pagination metadata returned alongside a page.
type PageInfo struct {
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// ParsePageParams extracts page and per_page from URL query values.
// PRE: none
// POST: returns valid PageParams with defaults applied
func ParsePageParams(q url.Values) PageParams {
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	if !isValidPerPage(perPage) {
		perPage = DefaultPerPage
	}
	return PageParams{Page: page, PerPage: perPage}
}

// NewPageInfo computes pagination metadata.
// PRE: total >= 0
// POST: Page is clamped to [1, TotalPages]; TotalPages >= 1
func NewPageInfo(page, perPage, total int) PageInfo {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	totalPages := (total + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return PageInfo{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}
}

// Offset returns the index of the first item on the page.
func (p PageInfo) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Paginate returns the requested page of items.
// PRE: none
// POST: the returned slice is never nil
func Paginate[T any](items []T, params PageParams) ([]T, PageInfo) {
	info := NewPageInfo(params.Page, params.PerPage, len(items))
	start := info.Offset()
	end := start + info.PerPage
	if end > len(items) {
		end = len(items)
	}
	if start >= end {
		return []T{}, info
	}
	return items[start:end], info
}

func isValidPerPage(n int) bool {
	for _, opt := range PerPageOptions {
		if n == opt {
			return true
		}
	}
	return false
}
