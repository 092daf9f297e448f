// internals/features/school/students/route/student_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"markme_backend/internals/features/school/students/controller"
	"markme_backend/internals/helpers/ai"
	helperOSS "markme_backend/internals/helpers/oss"
	authMw "markme_backend/internals/middlewares/auth"
)

func StudentRoutes(api fiber.Router, db *gorm.DB, oss *helperOSS.OSSService, aiClient *ai.Client) {
	ctrl := controller.NewStudentController(db, oss, aiClient)

	students := api.Group("/students")
	students.Get("/", ctrl.ListStudents)
	students.Post("/", authMw.AdminOrTeacher(), ctrl.CreateStudent)
	students.Post("/bulk-upload", authMw.AdminOrTeacher(), ctrl.BulkUpload)
	students.Post("/bulk-photo-upload", authMw.AdminOrTeacher(), ctrl.BulkPhotoUpload)
	students.Get("/:id", ctrl.GetStudent)
	students.Get("/:id/attendance-history", ctrl.AttendanceHistory)
	students.Put("/:id", authMw.AdminOrTeacher(), ctrl.UpdateStudent)
	students.Put("/:id/profile-image", authMw.AdminOrTeacher(), ctrl.UploadProfileImage)
	students.Delete("/:id", authMw.AdminOrTeacher(), ctrl.DeleteStudent)
}
