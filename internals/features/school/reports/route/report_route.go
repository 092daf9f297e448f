// internals/features/school/reports/route/report_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"markme_backend/internals/features/school/reports/controller"
)

func ReportRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewReportController(db)

	reports := api.Group("/reports")
	reports.Get("/monthly", ctrl.MonthlyReport)
	reports.Get("/monthly/:classId/:date", ctrl.MonthlyReport)
	reports.Get("/images/:id", ctrl.GetImage)
	reports.Get("/sessions/:sessionId/summary", ctrl.SessionSummary)
}
