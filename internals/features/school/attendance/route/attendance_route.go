// internals/features/school/attendance/route/attendance_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"markme_backend/internals/features/school/attendance/controller"
	"markme_backend/internals/helpers/ai"
	helperOSS "markme_backend/internals/helpers/oss"
)

func AttendanceRoutes(api fiber.Router, db *gorm.DB, oss *helperOSS.OSSService, aiClient *ai.Client) {
	ctrl := controller.NewAttendanceController(db, oss, aiClient)

	sessions := api.Group("/attendance-sessions")
	sessions.Post("/process", ctrl.ProcessAttendance)
	sessions.Post("/", ctrl.CreateSession)
	sessions.Get("/:id", ctrl.GetSession)

	images := api.Group("/classroom-images")
	images.Post("/:sessionId/images", ctrl.UploadSessionImages)

	records := api.Group("/attendance-records")
	records.Put("/:sessionId/records/:recordId", ctrl.UpdateRecord)
	records.Put("/:sessionId/records", ctrl.BulkUpdateRecords)
}
