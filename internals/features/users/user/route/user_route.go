// internals/features/users/user/route/user_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"markme_backend/internals/features/users/user/controller"
	"markme_backend/internals/helpers/mailer"
)

// AdminUserRoutes — manajemen akun oleh ADMIN (group sudah dijaga role)
func AdminUserRoutes(admin fiber.Router, db *gorm.DB, m *mailer.Mailer) {
	ctrl := controller.NewUserController(db, m)

	users := admin.Group("/users")
	users.Post("/", ctrl.CreateUser)
	users.Get("/", ctrl.ListUsers)
	users.Delete("/:id", ctrl.DeleteTeacher)
}
