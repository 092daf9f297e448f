package helper

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestResolvePaging(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		wantPage    int
		wantPerPage int
		wantOffset  int
	}{
		{"default", "", 1, 20, 0},
		{"halaman 3", "?page=3", 3, 20, 40},
		{"per_page eksplisit", "?page=2&per_page=10", 2, 10, 10},
		{"alias limit", "?limit=5", 1, 5, 0},
		{"per_page menang atas limit", "?per_page=7&limit=50", 1, 7, 0},
		{"di atas maksimum dipangkas", "?per_page=500", 1, 100, 0},
		{"page negatif dinormalkan", "?page=-2", 1, 20, 0},
		{"per_page nol dinormalkan", "?per_page=0", 1, 20, 0},
		{"input bukan angka", "?page=abc&per_page=xyz", 1, 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			var got Paging
			app.Get("/items", func(c *fiber.Ctx) error {
				got = ResolvePaging(c, 20, 100)
				return c.SendStatus(http.StatusOK)
			})
			req := httptest.NewRequest(http.MethodGet, "/items"+tt.query, nil)
			if _, err := app.Test(req); err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			if got.Page != tt.wantPage || got.PerPage != tt.wantPerPage || got.Offset != tt.wantOffset {
				t.Errorf("got %+v, want page=%d perPage=%d offset=%d", got, tt.wantPage, tt.wantPerPage, tt.wantOffset)
			}
			if got.Limit != got.PerPage {
				t.Errorf("Limit = %d, want sama dengan PerPage %d", got.Limit, got.PerPage)
			}
		})
	}
}

func TestBuildPaginationFromPage(t *testing.T) {
	tests := []struct {
		name           string
		total          int64
		page, perPage  int
		wantTotalPages int
		wantHasNext    bool
		wantHasPrev    bool
	}{
		{"kosong", 0, 1, 20, 1, false, false},
		{"pas satu halaman", 20, 1, 20, 1, false, false},
		{"sisa satu baris", 21, 1, 20, 2, true, false},
		{"halaman tengah", 100, 3, 20, 5, true, true},
		{"halaman terakhir", 100, 5, 20, 5, false, true},
		{"perPage nol pakai default", 40, 1, 0, 2, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := BuildPaginationFromPage(tt.total, tt.page, tt.perPage)
			if p.TotalPages != tt.wantTotalPages {
				t.Errorf("TotalPages = %d, want %d", p.TotalPages, tt.wantTotalPages)
			}
			if p.HasNext != tt.wantHasNext {
				t.Errorf("HasNext = %v, want %v", p.HasNext, tt.wantHasNext)
			}
			if p.HasPrev != tt.wantHasPrev {
				t.Errorf("HasPrev = %v, want %v", p.HasPrev, tt.wantHasPrev)
			}
			if p.Total != tt.total {
				t.Errorf("Total = %d, want %d", p.Total, tt.total)
			}
		})
	}
}
