// internals/features/users/auth/controller/auth_controller.go
package controller

import (
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	authDto "markme_backend/internals/features/users/auth/dto"
	authModel "markme_backend/internals/features/users/auth/model"
	authService "markme_backend/internals/features/users/auth/service"
	schoolModel "markme_backend/internals/features/school/schools/model"
	userModel "markme_backend/internals/features/users/user/model"
	helper "markme_backend/internals/helpers"
	"markme_backend/internals/helpers/mailer"
)

var validate = validator.New()

// masa tunggu pending registration sebelum disapu cleanup
const pendingRegistrationTTL = 24 * time.Hour

type AuthController struct {
	DB     *gorm.DB
	Mailer *mailer.Mailer
}

func NewAuthController(db *gorm.DB, m *mailer.Mailer) *AuthController {
	return &AuthController{DB: db, Mailer: m}
}

func (ac *AuthController) toUserResponse(u *userModel.UserModel) authDto.UserResponse {
	return authDto.UserResponse{
		ID:         u.ID.String(),
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		SchoolID:   u.SchoolID.String(),
		IsVerified: u.IsVerified,
	}
}

/* =======================================================
   Registrasi admin dua tahap + OTP
   ======================================================= */

// POST /api/auth/register-admin
func (ac *AuthController) RegisterAdmin(c *fiber.Ctx) error {
	var req authDto.RegisterAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	req.Normalize()
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}

	// email & school_idx harus unik terhadap users DAN pending
	var count int64
	if err := ac.DB.Model(&userModel.UserModel{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memeriksa email")
	}
	if count > 0 {
		return helper.JsonError(c, fiber.StatusConflict, "Email sudah terdaftar")
	}
	if err := ac.DB.Model(&schoolModel.SchoolModel{}).Where("school_idx = ?", req.SchoolIdx).Count(&count).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memeriksa kode sekolah")
	}
	if count > 0 {
		return helper.JsonError(c, fiber.StatusConflict, "Kode sekolah sudah terdaftar")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memproses password")
	}

	otp, err := authService.NewOTP()
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat OTP")
	}

	now := time.Now()
	pending := authModel.PendingAdminRegistrationModel{
		Email:        req.Email,
		SchoolIdx:    req.SchoolIdx,
		SchoolName:   req.SchoolName,
		Address:      req.Address,
		AdminName:    req.AdminName,
		PasswordHash: string(hash),
		OtpHash:      authService.HashOTP(otp),
		OtpExpiresAt: now.Add(time.Duration(authService.OtpTTLMinutes()) * time.Minute),
		ExpiresAt:    now.Add(pendingRegistrationTTL),
	}

	// registrasi ulang dengan email sama menimpa pending lama
	if err := ac.DB.Where("email = ?", req.Email).Delete(&authModel.PendingAdminRegistrationModel{}).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyiapkan registrasi")
	}
	if err := ac.DB.Create(&pending).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Email atau kode sekolah sudah dalam proses registrasi")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan registrasi")
	}

	if err := ac.Mailer.SendOTP(req.AdminName, req.Email, otp, authService.OtpTTLMinutes()); err != nil {
		log.Println("[ERROR] Gagal mengirim OTP:", err)
		return helper.JsonError(c, fiber.StatusBadGateway, "Gagal mengirim email OTP")
	}

	log.Printf("[INFO] Registrasi admin staged untuk %s (sekolah %s)\n", req.Email, req.SchoolIdx)
	return helper.JsonCreated(c, "Kode OTP telah dikirim ke email Anda", fiber.Map{
		"email": req.Email,
	})
}

// POST /api/auth/send-otp — kirim ulang OTP untuk pending registration
func (ac *AuthController) SendOtp(c *fiber.Ctx) error {
	var req authDto.SendOtpRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}

	var pending authModel.PendingAdminRegistrationModel
	if err := ac.DB.First(&pending, "email = ?", req.Email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Registrasi tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memeriksa registrasi")
	}

	otp, err := authService.NewOTP()
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat OTP")
	}
	if err := ac.DB.Model(&pending).Updates(map[string]interface{}{
		"otp_hash":       authService.HashOTP(otp),
		"otp_expires_at": time.Now().Add(time.Duration(authService.OtpTTLMinutes()) * time.Minute),
	}).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memperbarui OTP")
	}

	if err := ac.Mailer.SendOTP(pending.AdminName, pending.Email, otp, authService.OtpTTLMinutes()); err != nil {
		log.Println("[ERROR] Gagal mengirim ulang OTP:", err)
		return helper.JsonError(c, fiber.StatusBadGateway, "Gagal mengirim email OTP")
	}
	return helper.JsonOK(c, "Kode OTP baru telah dikirim", fiber.Map{"email": pending.Email})
}

// POST /api/auth/verify-otp
func (ac *AuthController) VerifyOtp(c *fiber.Ctx) error {
	var req authDto.VerifyOtpRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}

	// OTP selalu divalidasi terhadap pending, ada atau tidak ada user-nya
	var pending authModel.PendingAdminRegistrationModel
	if err := ac.DB.First(&pending, "email = ?", req.Email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Registrasi tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memeriksa registrasi")
	}

	if time.Now().After(pending.OtpExpiresAt) {
		return helper.JsonError(c, fiber.StatusBadRequest, "Kode OTP sudah kedaluwarsa")
	}
	if !authService.OTPMatches(req.Otp, pending.OtpHash) {
		return helper.JsonError(c, fiber.StatusBadRequest, "Kode OTP salah")
	}

	// user sudah ada (mis. transaksi sebelumnya separuh jalan) → flip is_verified
	var existing userModel.UserModel
	err := ac.DB.First(&existing, "email = ?", req.Email).Error
	if err == nil {
		if err := ac.DB.Model(&existing).Update("is_verified", true).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memverifikasi akun")
		}
		if err := ac.DB.Delete(&pending).Error; err != nil {
			log.Println("[ERROR] Hapus pending registration gagal:", err)
		}
		existing.IsVerified = true
		return ac.issueTokens(c, &existing, "Akun terverifikasi")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memeriksa akun")
	}

	// satu transaksi: buat School + User admin, hapus pending
	var admin userModel.UserModel
	txErr := ac.DB.Transaction(func(tx *gorm.DB) error {
		school := schoolModel.SchoolModel{
			SchoolIdx: pending.SchoolIdx,
			Name:      pending.SchoolName,
			Address:   pending.Address,
		}
		if err := tx.Create(&school).Error; err != nil {
			return err
		}
		admin = userModel.UserModel{
			SchoolID:     school.ID,
			Name:         pending.AdminName,
			Email:        pending.Email,
			PasswordHash: pending.PasswordHash,
			Role:         userModel.RoleAdmin,
			IsVerified:   true,
			IsActive:     true,
		}
		if err := tx.Create(&admin).Error; err != nil {
			return err
		}
		return tx.Delete(&pending).Error
	})
	if txErr != nil {
		if helper.IsUniqueViolation(txErr) {
			return helper.JsonError(c, fiber.StatusConflict, "Email atau kode sekolah sudah terdaftar")
		}
		log.Println("[ERROR] VerifyOtp transaksi gagal:", txErr)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyelesaikan registrasi")
	}

	log.Printf("[INFO] Sekolah %s + admin %s dibuat\n", pending.SchoolIdx, admin.Email)
	return ac.issueTokens(c, &admin, "Registrasi berhasil")
}

/* =======================================================
   Login / refresh / logout
   ======================================================= */

// POST /api/auth/login
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req authDto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	req.Normalize()
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}

	var u userModel.UserModel
	if err := ac.DB.First(&u, "email = ?", req.Email).Error; err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Email atau password salah")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Email atau password salah")
	}
	if !u.IsActive {
		return helper.JsonError(c, fiber.StatusForbidden, "Akun Anda telah dinonaktifkan")
	}
	// verifikasi email hanya menggerbang ADMIN
	if u.Role == userModel.RoleAdmin && !u.IsVerified {
		return helper.JsonError(c, fiber.StatusForbidden, "Akun belum terverifikasi, silakan verifikasi OTP")
	}

	return ac.issueTokens(c, &u, "Login berhasil")
}

func (ac *AuthController) issueTokens(c *fiber.Ctx, u *userModel.UserModel, msg string) error {
	access, refresh, err := authService.IssueTokenPair(ac.DB, u, c.Get("User-Agent"), c.IP())
	if err != nil {
		log.Println("[ERROR] Gagal menerbitkan token:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menerbitkan token")
	}
	authService.SetRefreshCookie(c, refresh)
	return helper.JsonOK(c, msg, authDto.TokenPairResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         ac.toUserResponse(u),
	})
}

// POST /api/auth/refresh-token — token dari cookie atau body
func (ac *AuthController) RefreshToken(c *fiber.Ctx) error {
	raw := helper.GetRefreshTokenFromCookie(c)
	if raw == "" {
		var req authDto.RefreshRequest
		if err := c.BodyParser(&req); err == nil {
			raw = req.RefreshToken
		}
	}
	if raw == "" {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Refresh token tidak ditemukan")
	}

	u, access, refresh, err := authService.RotateRefreshToken(ac.DB, raw, c.Get("User-Agent"), c.IP())
	if err != nil {
		if errors.Is(err, authService.ErrRefreshTokenInvalid) || errors.Is(err, authService.ErrRefreshTokenExpired) {
			authService.ClearRefreshCookie(c)
			return helper.JsonError(c, fiber.StatusUnauthorized, "Refresh token tidak valid atau kedaluwarsa")
		}
		log.Println("[ERROR] Rotasi refresh token gagal:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memperbarui token")
	}

	authService.SetRefreshCookie(c, refresh)
	return helper.JsonOK(c, "Token diperbarui", authDto.TokenPairResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         ac.toUserResponse(u),
	})
}

// POST /api/auth/logout — idempotent
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	raw := helper.GetRefreshTokenFromCookie(c)
	if raw == "" {
		var req authDto.RefreshRequest
		if err := c.BodyParser(&req); err == nil {
			raw = req.RefreshToken
		}
	}
	if raw != "" {
		if err := authService.RevokeRefreshToken(ac.DB, raw); err != nil {
			log.Println("[ERROR] Revoke refresh token gagal:", err)
		}
	}
	authService.ClearRefreshCookie(c)
	return helper.JsonOK(c, "Logout berhasil", nil)
}

/* =======================================================
   Forgot / reset password
   ======================================================= */

// POST /api/auth/forgot-password — selalu 200 agar tidak membocorkan keberadaan email
func (ac *AuthController) ForgotPassword(c *fiber.Ctx) error {
	const okMsg = "Jika email terdaftar, tautan reset telah dikirim"

	var req authDto.ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}

	var u userModel.UserModel
	if err := ac.DB.First(&u, "email = ?", req.Email).Error; err != nil {
		return helper.JsonOK(c, okMsg, nil)
	}

	token, err := authService.IssuePasswordResetToken(ac.DB, &u)
	if err != nil {
		log.Println("[ERROR] Gagal membuat token reset:", err)
		return helper.JsonOK(c, okMsg, nil)
	}
	if err := ac.Mailer.SendPasswordReset(u.Name, u.Email, token, authService.ResetTTLMinutes()); err != nil {
		log.Println("[ERROR] Gagal mengirim email reset:", err)
	}
	return helper.JsonOK(c, okMsg, nil)
}

// POST /api/auth/reset-password
func (ac *AuthController) ResetPassword(c *fiber.Ctx) error {
	var req authDto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}

	row, err := authService.ConsumePasswordResetToken(ac.DB, req.Token)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Token reset tidak valid atau kedaluwarsa")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memproses password")
	}
	if err := ac.DB.Model(&userModel.UserModel{}).
		Where("id = ?", row.UserID).
		Update("password_hash", string(hash)).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengganti password")
	}

	// semua sesi lama dipaksa login ulang
	if err := authService.RevokeAllForUser(ac.DB, row.UserID); err != nil {
		log.Println("[ERROR] Revoke semua token gagal:", err)
	}
	return helper.JsonOK(c, "Password berhasil diganti, silakan login ulang", nil)
}

/* =======================================================
   Me
   ======================================================= */

// GET /api/auth/me
func (ac *AuthController) Me(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var u userModel.UserModel
	if err := ac.DB.First(&u, "id = ?", userID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "User tidak ditemukan")
	}
	return helper.JsonOK(c, "Profil user", ac.toUserResponse(&u))
}
