package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	helper "markme_backend/internals/helpers"
)

func newRoleTestApp(role string, guard fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Get("/guarded",
		func(c *fiber.Ctx) error {
			if role != "" {
				c.Locals(helper.LocRole, role)
			}
			return c.Next()
		},
		guard,
		func(c *fiber.Ctx) error {
			return c.SendString("ok")
		},
	)
	return app
}

func TestRequireRoles(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		guard      fiber.Handler
		wantStatus int
	}{
		{"admin lolos OnlyAdmin", "ADMIN", OnlyAdmin(), http.StatusOK},
		{"teacher ditolak OnlyAdmin", "TEACHER", OnlyAdmin(), http.StatusForbidden},
		{"teacher lolos AdminOrTeacher", "TEACHER", AdminOrTeacher(), http.StatusOK},
		{"principal ditolak AdminOrTeacher", "PRINCIPAL", AdminOrTeacher(), http.StatusForbidden},
		{"role case-insensitive", "admin", OnlyAdmin(), http.StatusOK},
		{"tanpa role ditolak", "", OnlyAdmin(), http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newRoleTestApp(tt.role, tt.guard)
			req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
		})
	}
}
