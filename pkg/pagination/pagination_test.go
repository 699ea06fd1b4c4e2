package pagination_test

import (
	"net/url"
	"testing"

	"github.com/raunak-choudhary/portfolio-admin/pkg/pagination"
)

func testConfig() pagination.Config {
	cfg := pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}
	cfg.Finalize()
	return cfg
}

func TestPageRequest_Normalize(t *testing.T) {
	tests := []struct {
		name         string
		page         int
		pageSize     int
		wantPage     int
		wantPageSize int
	}{
		{"zero values get defaults", 0, 0, 1, 20},
		{"negative page clamps to first", -3, 10, 1, 10},
		{"oversize clamps to max", 2, 500, 2, 100},
		{"valid passes through", 3, 50, 3, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := pagination.PageRequest{Page: tt.page, PageSize: tt.pageSize}
			req.Normalize(testConfig())

			if req.Page != tt.wantPage || req.PageSize != tt.wantPageSize {
				t.Errorf("Normalize() = {%d %d}, want {%d %d}",
					req.Page, req.PageSize, tt.wantPage, tt.wantPageSize)
			}
		})
	}
}

func TestPageRequest_Offset(t *testing.T) {
	req := pagination.PageRequest{Page: 3, PageSize: 25}
	if got := req.Offset(); got != 50 {
		t.Errorf("Offset() = %d, want 50", got)
	}
}

func TestFromQuery(t *testing.T) {
	values := url.Values{"page": {"2"}, "page_size": {"10"}}
	req := pagination.FromQuery(values, testConfig())

	if req.Page != 2 || req.PageSize != 10 {
		t.Errorf("FromQuery() = {%d %d}, want {2 10}", req.Page, req.PageSize)
	}

	// Garbage falls back to defaults.
	req = pagination.FromQuery(url.Values{"page": {"x"}}, testConfig())
	if req.Page != 1 || req.PageSize != 20 {
		t.Errorf("FromQuery(garbage) = {%d %d}, want {1 20}", req.Page, req.PageSize)
	}
}

func TestNewPageResult(t *testing.T) {
	result := pagination.NewPageResult([]string{"a", "b"}, 45, 2, 20)

	if result.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", result.TotalPages)
	}
	if result.Total != 45 || result.Page != 2 || result.PageSize != 20 {
		t.Errorf("result = %+v, want metadata preserved", result)
	}

	empty := pagination.NewPageResult[string](nil, 0, 1, 20)
	if empty.Data == nil {
		t.Error("Data = nil for an empty page, want empty slice")
	}
	if empty.TotalPages != 1 {
		t.Errorf("TotalPages = %d for empty result, want 1", empty.TotalPages)
	}
}
