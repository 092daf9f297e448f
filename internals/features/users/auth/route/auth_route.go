// internals/features/users/auth/route/auth_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"markme_backend/internals/features/users/auth/controller"
	"markme_backend/internals/helpers/mailer"
	"markme_backend/internals/middlewares"
)

// AuthPublicRoutes — endpoint tanpa JWT (login, registrasi, token plumbing)
func AuthPublicRoutes(api fiber.Router, db *gorm.DB, m *mailer.Mailer) {
	ctrl := controller.NewAuthController(db, m)

	auth := api.Group("/auth")
	auth.Post("/register-admin", middlewares.RegisterRateLimiter(), ctrl.RegisterAdmin)
	auth.Post("/send-otp", middlewares.OtpRateLimiter(), ctrl.SendOtp)
	auth.Post("/verify-otp", middlewares.OtpRateLimiter(), ctrl.VerifyOtp)
	auth.Post("/login", middlewares.LoginRateLimiter(), ctrl.Login)
	auth.Post("/refresh-token", ctrl.RefreshToken)
	auth.Post("/logout", ctrl.Logout)
	auth.Post("/forgot-password", middlewares.OtpRateLimiter(), ctrl.ForgotPassword)
	auth.Post("/reset-password", ctrl.ResetPassword)
}

// AuthProtectedRoutes — endpoint yang butuh JWT
func AuthProtectedRoutes(api fiber.Router, db *gorm.DB, m *mailer.Mailer) {
	ctrl := controller.NewAuthController(db, m)
	api.Get("/auth/me", ctrl.Me)
}
