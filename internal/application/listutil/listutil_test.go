package listutil

import (
	"net/url"
	"testing"
)

func TestParsePageParams(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  PageParams
	}{
		{"defaults", "", PageParams{Page: 1, PerPage: DefaultPerPage}},
		{"valid", "page=3&per_page=20", PageParams{Page: 3, PerPage: 20}},
		{"unsupported size", "per_page=7", PageParams{Page: 1, PerPage: DefaultPerPage}},
		{"negative page", "page=-2", PageParams{Page: 1, PerPage: DefaultPerPage}},
		{"garbage", "page=x&per_page=y", PageParams{Page: 1, PerPage: DefaultPerPage}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, _ := url.ParseQuery(tt.query)
			if got := ParsePageParams(q); got != tt.want {
				t.Errorf("ParsePageParams(%q) = %+v, want %+v", tt.query, got, tt.want)
			}
		})
	}
}

func TestNewPageInfo(t *testing.T) {
	tests := []struct {
		name                 string
		page, perPage, total int
		wantPage, wantPages  int
	}{
		{"empty", 1, 10, 0, 1, 1},
		{"exact fit", 2, 10, 20, 2, 2},
		{"partial last page", 3, 10, 25, 3, 3},
		{"clamped past end", 9, 10, 25, 3, 3},
		{"zero per page falls back", 1, 0, 5, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := NewPageInfo(tt.page, tt.perPage, tt.total)
			if info.Page != tt.wantPage || info.TotalPages != tt.wantPages {
				t.Errorf("got page %d of %d, want %d of %d", info.Page, info.TotalPages, tt.wantPage, tt.wantPages)
			}
		})
	}
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	page, info := Paginate(items, PageParams{Page: 2, PerPage: 2})
	if len(page) != 2 || page[0] != 3 || page[1] != 4 {
		t.Errorf("page 2 = %v, want [3 4]", page)
	}
	if info.Total != 5 || info.TotalPages != 3 {
		t.Errorf("info = %+v", info)
	}

	last, _ := Paginate(items, PageParams{Page: 3, PerPage: 2})
	if len(last) != 1 || last[0] != 5 {
		t.Errorf("last page = %v, want [5]", last)
	}

	none, _ := Paginate([]int{}, PageParams{Page: 1, PerPage: 10})
	if none == nil || len(none) != 0 {
		t.Errorf("empty page = %#v, want empty non-nil", none)
	}
}
