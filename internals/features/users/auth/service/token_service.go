// internals/features/users/auth/service/token_service.go
package service

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"markme_backend/internals/configs"
	authModel "markme_backend/internals/features/users/auth/model"
	userModel "markme_backend/internals/features/users/user/model"
)

var (
	ErrRefreshTokenInvalid = errors.New("refresh token tidak valid")
	ErrRefreshTokenExpired = errors.New("refresh token kedaluwarsa")
)

const (
	RefreshCookieName = "refresh_token"

	defaultAccessTTLMinutes = 15
	defaultRefreshTTLDays   = 7

	otpTTLMinutes   = 10
	resetTTLMinutes = 30
)

func accessTTL() time.Duration {
	if n, err := strconv.Atoi(configs.GetEnv("ACCESS_TOKEN_TTL_MINUTES", "")); err == nil && n > 0 {
		return time.Duration(n) * time.Minute
	}
	return defaultAccessTTLMinutes * time.Minute
}

func refreshTTL() time.Duration {
	if n, err := strconv.Atoi(configs.GetEnv("REFRESH_TOKEN_TTL_DAYS", "")); err == nil && n > 0 {
		return time.Duration(n) * 24 * time.Hour
	}
	return defaultRefreshTTLDays * 24 * time.Hour
}

func OtpTTLMinutes() int   { return otpTTLMinutes }
func ResetTTLMinutes() int { return resetTTLMinutes }

/* =======================================================
   Token primitives
   ======================================================= */

// GenerateAccessToken membuat JWT HS256 berisi identitas dasar user.
func GenerateAccessToken(u *userModel.UserModel) (string, error) {
	if configs.JWTSecret == "" {
		return "", fmt.Errorf("JWT_SECRET belum diset")
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":       u.ID.String(),
		"user_name": u.Name,
		"email":     u.Email,
		"role":      u.Role,
		"school_id": u.SchoolID.String(),
		"iat":       now.Unix(),
		"exp":       now.Add(accessTTL()).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(configs.JWTSecret))
}

// NewOpaqueToken menghasilkan token refresh acak 40 byte (hex 80 char).
func NewOpaqueToken() (string, error) {
	b := make([]byte, 40)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// HashRefreshToken: yang disimpan di DB selalu hash, bukan token mentah.
func HashRefreshToken(raw string) []byte {
	mac := hmac.New(sha256.New, []byte(configs.JWTRefreshSecret))
	mac.Write([]byte(raw))
	return mac.Sum(nil)
}

// NewOTP menghasilkan kode 6 digit.
func NewOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func HashOTP(otp string) []byte {
	sum := sha256.Sum256([]byte(otp))
	return sum[:]
}

func OTPMatches(otp string, hash []byte) bool {
	got := HashOTP(otp)
	return hmac.Equal(got, hash)
}

/* =======================================================
   Issue / rotate / revoke
   ======================================================= */

// IssueTokenPair menerbitkan access token + refresh token baru (hash disimpan).
func IssueTokenPair(db *gorm.DB, u *userModel.UserModel, userAgent, ip string) (access string, refresh string, err error) {
	access, err = GenerateAccessToken(u)
	if err != nil {
		return "", "", err
	}
	refresh, err = NewOpaqueToken()
	if err != nil {
		return "", "", err
	}

	row := authModel.RefreshTokenModel{
		UserID:    u.ID,
		TokenHash: HashRefreshToken(refresh),
		Kind:      authModel.TokenKindRefresh,
		ExpiresAt: time.Now().Add(refreshTTL()),
	}
	if userAgent != "" {
		row.UserAgent = &userAgent
	}
	if ip != "" {
		row.IP = &ip
	}
	if err := db.Create(&row).Error; err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// RotateRefreshToken memvalidasi token lama, mencabutnya, lalu menerbitkan
// pasangan baru. Token lama menyimpan hash penggantinya untuk audit.
func RotateRefreshToken(db *gorm.DB, rawToken, userAgent, ip string) (*userModel.UserModel, string, string, error) {
	hash := HashRefreshToken(rawToken)

	var row authModel.RefreshTokenModel
	if err := db.First(&row, "token_hash = ? AND kind = ?", hash, authModel.TokenKindRefresh).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", "", ErrRefreshTokenInvalid
		}
		return nil, "", "", err
	}
	if !row.Active(time.Now()) {
		return nil, "", "", ErrRefreshTokenExpired
	}

	var u userModel.UserModel
	if err := db.First(&u, "id = ?", row.UserID).Error; err != nil {
		return nil, "", "", ErrRefreshTokenInvalid
	}
	if !u.IsActive {
		return nil, "", "", ErrRefreshTokenInvalid
	}

	access, refresh, err := IssueTokenPair(db, &u, userAgent, ip)
	if err != nil {
		return nil, "", "", err
	}

	now := time.Now()
	newHash := HashRefreshToken(refresh)
	if err := db.Model(&authModel.RefreshTokenModel{}).
		Where("id = ?", row.ID).
		Updates(map[string]interface{}{
			"revoked_at":       now,
			"replaced_by_hash": newHash,
		}).Error; err != nil {
		return nil, "", "", err
	}
	return &u, access, refresh, nil
}

// RevokeRefreshToken mencabut satu token. Token tak dikenal bukan error (idempotent).
func RevokeRefreshToken(db *gorm.DB, rawToken string) error {
	hash := HashRefreshToken(rawToken)
	now := time.Now()
	return db.Model(&authModel.RefreshTokenModel{}).
		Where("token_hash = ? AND revoked_at IS NULL", hash).
		Update("revoked_at", now).Error
}

// RevokeAllForUser mencabut semua refresh token milik user (dipakai reset password).
func RevokeAllForUser(db *gorm.DB, userID uuid.UUID) error {
	now := time.Now()
	return db.Model(&authModel.RefreshTokenModel{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", now).Error
}

/* =======================================================
   Password reset token (menumpang refresh_tokens)
   ======================================================= */

func IssuePasswordResetToken(db *gorm.DB, u *userModel.UserModel) (string, error) {
	raw, err := NewOpaqueToken()
	if err != nil {
		return "", err
	}
	row := authModel.RefreshTokenModel{
		UserID:    u.ID,
		TokenHash: HashRefreshToken(raw),
		Kind:      authModel.TokenKindPasswordReset,
		ExpiresAt: time.Now().Add(resetTTLMinutes * time.Minute),
	}
	if err := db.Create(&row).Error; err != nil {
		return "", err
	}
	return raw, nil
}

func ConsumePasswordResetToken(db *gorm.DB, rawToken string) (*authModel.RefreshTokenModel, error) {
	hash := HashRefreshToken(rawToken)

	var row authModel.RefreshTokenModel
	if err := db.First(&row, "token_hash = ? AND kind = ?", hash, authModel.TokenKindPasswordReset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRefreshTokenInvalid
		}
		return nil, err
	}
	if !row.Active(time.Now()) {
		return nil, ErrRefreshTokenExpired
	}

	now := time.Now()
	if err := db.Model(&authModel.RefreshTokenModel{}).
		Where("id = ?", row.ID).
		Update("revoked_at", now).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

/* =======================================================
   Cookies
   ======================================================= */

func SetRefreshCookie(c *fiber.Ctx, rawToken string) {
	c.Cookie(&fiber.Cookie{
		Name:     RefreshCookieName,
		Value:    rawToken,
		Expires:  time.Now().Add(refreshTTL()),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
		Path:     "/",
	})
}

func ClearRefreshCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
		Path:     "/",
	})
}
