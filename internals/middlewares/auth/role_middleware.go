// internals/middlewares/auth/role_middleware.go
package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	helper "markme_backend/internals/helpers"
)

/* =============================== ROLE GUARD =============================== */

// RequireRoles membatasi akses handler berdasarkan role hasil AuthMiddleware.
func RequireRoles(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[strings.ToUpper(r)] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(helper.LocRole).(string)
		if !ok || role == "" {
			return helper.JsonError(c, fiber.StatusForbidden, "Akses ditolak: role tidak ditemukan")
		}
		if _, ok := allowed[strings.ToUpper(role)]; !ok {
			return helper.JsonError(c, fiber.StatusForbidden, "Akses ditolak: role tidak diizinkan")
		}
		return c.Next()
	}
}

// OnlyAdmin membatasi akses ke role ADMIN.
func OnlyAdmin() fiber.Handler {
	return RequireRoles("ADMIN")
}

// AdminOrTeacher membatasi akses ke role ADMIN dan TEACHER.
func AdminOrTeacher() fiber.Handler {
	return RequireRoles("ADMIN", "TEACHER")
}
