package paging

import (
	"net/http/httptest"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name       string
		page, size int
		want       Page
	}{
		{"defaults", 0, 0, Page{1, 6}},
		{"negative page", -3, 10, Page{1, 10}},
		{"capped size", 2, 500, Page{2, 50}},
		{"as given", 3, 6, Page{3, 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.page, tt.size, 6, 50); got != tt.want {
				t.Errorf("Normalize(%d, %d) = %+v, want %+v", tt.page, tt.size, got, tt.want)
			}
		})
	}
}

func TestSkipLimit(t *testing.T) {
	p := Page{Number: 3, Size: 6}
	if p.Skip() != 12 {
		t.Errorf("Skip() = %d, want 12", p.Skip())
	}
	if p.Limit() != 6 {
		t.Errorf("Limit() = %d, want 6", p.Limit())
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total int64
		size  int
		want  int
	}{
		{0, 6, 0},
		{1, 6, 1},
		{6, 6, 1},
		{7, 6, 2},
		{13, 6, 3},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.total, tt.size); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.total, tt.size, got, tt.want)
		}
	}
}

func TestFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/articles?page=2&page_size=abc", nil)
	got := FromRequest(r, 6, 50)
	if got != (Page{2, 6}) {
		t.Errorf("FromRequest = %+v, want {2 6}", got)
	}
}

func TestFromRequest_HugePageKeepsSkipPositive(t *testing.T) {
	r := httptest.NewRequest("GET", "/articles?page=9223372036854775807&page_size=50", nil)
	p := FromRequest(r, 6, 50)
	if p.Skip() < 0 {
		t.Fatalf("Skip() = %d for page %d, want non-negative", p.Skip(), p.Number)
	}
	if p.Size != 50 || p.Number < 1 {
		t.Errorf("page = %+v", p)
	}
}
