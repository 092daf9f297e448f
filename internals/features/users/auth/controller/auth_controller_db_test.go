package controller

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"markme_backend/internals/configs"
	authModel "markme_backend/internals/features/users/auth/model"
	authService "markme_backend/internals/features/users/auth/service"
	userModel "markme_backend/internals/features/users/user/model"
)

func openAuthDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("buka sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("ambil pool: %v", err)
	}
	// satu koneksi agar :memory: tidak terpecah antar koneksi pool
	sqlDB.SetMaxOpenConns(1)

	ddl := []string{
		`CREATE TABLE users (
			id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
			school_id TEXT NOT NULL,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL,
			is_verified BOOLEAN NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT 1,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE schools (
			id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
			school_idx TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			address TEXT,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE refresh_tokens (
			id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
			user_id TEXT NOT NULL,
			token_hash BLOB NOT NULL UNIQUE,
			kind TEXT NOT NULL DEFAULT 'REFRESH',
			expires_at DATETIME NOT NULL,
			revoked_at DATETIME,
			replaced_by_hash BLOB,
			user_agent TEXT,
			ip TEXT,
			created_at DATETIME
		)`,
		`CREATE TABLE pending_admin_registrations (
			id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
			email TEXT NOT NULL UNIQUE,
			school_idx TEXT NOT NULL UNIQUE,
			school_name TEXT NOT NULL,
			address TEXT,
			admin_name TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			otp_hash BLOB NOT NULL,
			otp_expires_at DATETIME NOT NULL,
			expires_at DATETIME NOT NULL,
			created_at DATETIME,
			updated_at DATETIME
		)`,
	}
	for _, stmt := range ddl {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("ddl gagal: %v", err)
		}
	}
	return db
}

func newAuthTestApp(db *gorm.DB) *fiber.App {
	ac := NewAuthController(db, nil)
	app := fiber.New()
	app.Post("/login", ac.Login)
	app.Post("/verify-otp", ac.VerifyOtp)
	return app
}

func seedUser(t *testing.T, db *gorm.DB, email, password, role string, verified, active bool) userModel.UserModel {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	u := userModel.UserModel{
		ID:           uuid.New(),
		SchoolID:     uuid.New(),
		Name:         "User " + email,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		IsVerified:   verified,
		IsActive:     active,
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if !verified || !active {
		// default kolom bernilai true/false bisa menimpa zero-value saat insert
		if err := db.Model(&u).Updates(map[string]interface{}{
			"is_verified": verified,
			"is_active":   active,
		}).Error; err != nil {
			t.Fatalf("set flag user: %v", err)
		}
	}
	return u
}

func postJSON(t *testing.T, app *fiber.App, path string, payload interface{}) (int, string) {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, 10000)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("baca body: %v", err)
	}
	return resp.StatusCode, string(raw)
}

func TestLoginVerificationGate(t *testing.T) {
	configs.JWTSecret = "test-secret"
	configs.JWTRefreshSecret = "test-refresh-secret"

	db := openAuthDB(t)
	app := newAuthTestApp(db)

	seedUser(t, db, "admin-unverified@example.com", "rahasia123", userModel.RoleAdmin, false, true)
	seedUser(t, db, "admin-verified@example.com", "rahasia123", userModel.RoleAdmin, true, true)
	seedUser(t, db, "guru-unverified@example.com", "rahasia123", userModel.RoleTeacher, false, true)
	seedUser(t, db, "nonaktif@example.com", "rahasia123", userModel.RoleTeacher, true, false)

	tests := []struct {
		name       string
		email      string
		password   string
		wantStatus int
		wantToken  bool
	}{
		{"ADMIN belum verifikasi ditolak", "admin-unverified@example.com", "rahasia123", http.StatusForbidden, false},
		{"ADMIN terverifikasi lolos", "admin-verified@example.com", "rahasia123", http.StatusOK, true},
		{"TEACHER belum verifikasi tetap lolos", "guru-unverified@example.com", "rahasia123", http.StatusOK, true},
		{"akun nonaktif ditolak", "nonaktif@example.com", "rahasia123", http.StatusForbidden, false},
		{"password salah", "admin-verified@example.com", "salah", http.StatusUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := postJSON(t, app, "/login", map[string]string{
				"email":    tt.email,
				"password": tt.password,
			})
			if status != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body: %s)", status, tt.wantStatus, body)
			}
			if got := strings.Contains(body, "access_token"); got != tt.wantToken {
				t.Errorf("access_token di body = %v, want %v", got, tt.wantToken)
			}
		})
	}
}

func TestVerifyOtpExistingUserRequiresValidOtp(t *testing.T) {
	configs.JWTSecret = "test-secret"
	configs.JWTRefreshSecret = "test-refresh-secret"

	db := openAuthDB(t)
	app := newAuthTestApp(db)

	const email = "admin-setengah@example.com"
	const otp = "123456"

	u := seedUser(t, db, email, "rahasia123", userModel.RoleAdmin, false, true)
	pending := authModel.PendingAdminRegistrationModel{
		ID:           uuid.New(),
		Email:        email,
		SchoolIdx:    "sdn-01",
		SchoolName:   "SDN 01",
		AdminName:    "Admin Setengah",
		PasswordHash: u.PasswordHash,
		OtpHash:      authService.HashOTP(otp),
		OtpExpiresAt: time.Now().Add(10 * time.Minute),
		ExpiresAt:    time.Now().Add(24 * time.Hour),
	}
	if err := db.Create(&pending).Error; err != nil {
		t.Fatalf("seed pending: %v", err)
	}

	// OTP salah: tidak ada token, akun tetap belum terverifikasi
	status, body := postJSON(t, app, "/verify-otp", map[string]string{"email": email, "otp": "000000"})
	if status != http.StatusBadRequest {
		t.Fatalf("OTP salah: status = %d, want 400 (body: %s)", status, body)
	}
	if strings.Contains(body, "access_token") {
		t.Error("OTP salah tidak boleh menerbitkan token")
	}
	var check userModel.UserModel
	if err := db.First(&check, "email = ?", email).Error; err != nil {
		t.Fatalf("baca user: %v", err)
	}
	if check.IsVerified {
		t.Error("OTP salah tidak boleh memverifikasi akun")
	}

	// OTP benar: akun terverifikasi, pending terhapus, token terbit
	status, body = postJSON(t, app, "/verify-otp", map[string]string{"email": email, "otp": otp})
	if status != http.StatusOK {
		t.Fatalf("OTP benar: status = %d, want 200 (body: %s)", status, body)
	}
	if !strings.Contains(body, "access_token") {
		t.Error("OTP benar harus menerbitkan token")
	}
	if err := db.First(&check, "email = ?", email).Error; err != nil {
		t.Fatalf("baca user: %v", err)
	}
	if !check.IsVerified {
		t.Error("akun harus terverifikasi setelah OTP benar")
	}
	var pendingCount int64
	if err := db.Model(&authModel.PendingAdminRegistrationModel{}).
		Where("email = ?", email).Count(&pendingCount).Error; err != nil {
		t.Fatalf("hitung pending: %v", err)
	}
	if pendingCount != 0 {
		t.Error("pending registration harus terhapus setelah verifikasi")
	}
}

func TestVerifyOtpWithoutPendingRegistration(t *testing.T) {
	configs.JWTSecret = "test-secret"
	configs.JWTRefreshSecret = "test-refresh-secret"

	db := openAuthDB(t)
	app := newAuthTestApp(db)

	seedUser(t, db, "tanpa-pending@example.com", "rahasia123", userModel.RoleAdmin, false, true)

	status, body := postJSON(t, app, "/verify-otp", map[string]string{
		"email": "tanpa-pending@example.com",
		"otp":   "123456",
	})
	if status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 (body: %s)", status, body)
	}
	if strings.Contains(body, "access_token") {
		t.Error("tanpa pending registration tidak boleh menerbitkan token")
	}
}
