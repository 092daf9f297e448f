// internals/features/school/classes/route/classroom_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"markme_backend/internals/features/school/classes/controller"
	authMw "markme_backend/internals/middlewares/auth"
)

// ClassroomRoutes — listing untuk semua role, mutasi khusus ADMIN
func ClassroomRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewClassroomController(db)

	classes := api.Group("/classes")
	classes.Get("/", ctrl.ListClassrooms)
	classes.Post("/", authMw.OnlyAdmin(), ctrl.CreateClassroom)
	classes.Put("/:id", authMw.OnlyAdmin(), ctrl.UpdateClassroom)
}
