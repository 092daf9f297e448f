// internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	attendanceRoute "markme_backend/internals/features/school/attendance/route"
	classRoute "markme_backend/internals/features/school/classes/route"
	reportRoute "markme_backend/internals/features/school/reports/route"
	studentRoute "markme_backend/internals/features/school/students/route"
	authRoute "markme_backend/internals/features/users/auth/route"
	userRoute "markme_backend/internals/features/users/user/route"
	"markme_backend/internals/helpers/ai"
	"markme_backend/internals/helpers/mailer"
	helperOSS "markme_backend/internals/helpers/oss"
	authMw "markme_backend/internals/middlewares/auth"
)

var startTime time.Time

// Deps membungkus kolaborator eksternal yang dibagikan lintas feature.
type Deps struct {
	OSS    *helperOSS.OSSService
	AI     *ai.Client
	Mailer *mailer.Mailer
}

func SetupRoutes(app *fiber.App, db *gorm.DB, deps Deps) {
	startTime = time.Now()

	BaseRoutes(app)

	// ===================== PUBLIC =====================
	log.Println("[INFO] Setting up PUBLIC routes...")
	api := app.Group("/api")
	authRoute.AuthPublicRoutes(api, db, deps.Mailer)

	// ===================== PROTECTED =====================
	log.Println("[INFO] Setting up PROTECTED routes...")
	protected := app.Group("/api", authMw.AuthMiddleware(db))
	authRoute.AuthProtectedRoutes(protected, db, deps.Mailer)
	classRoute.ClassroomRoutes(protected, db)
	studentRoute.StudentRoutes(protected, db, deps.OSS, deps.AI)
	attendanceRoute.AttendanceRoutes(protected, db, deps.OSS, deps.AI)
	reportRoute.ReportRoutes(protected, db)

	// ===================== ADMIN =====================
	log.Println("[INFO] Setting up ADMIN routes...")
	admin := app.Group("/api/admin", authMw.AuthMiddleware(db), authMw.OnlyAdmin())
	userRoute.AdminUserRoutes(admin, db, deps.Mailer)
}
