package service

import (
	"bytes"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"markme_backend/internals/configs"
	userModel "markme_backend/internals/features/users/user/model"
)

func TestNewOpaqueToken(t *testing.T) {
	a, err := NewOpaqueToken()
	if err != nil {
		t.Fatalf("NewOpaqueToken: %v", err)
	}
	if len(a) != 80 {
		t.Errorf("panjang token = %d, want 80 (40 byte hex)", len(a))
	}
	b, err := NewOpaqueToken()
	if err != nil {
		t.Fatalf("NewOpaqueToken: %v", err)
	}
	if a == b {
		t.Error("dua token berturut-turut tidak boleh sama")
	}
}

func TestHashRefreshToken(t *testing.T) {
	configs.JWTRefreshSecret = "test-refresh-secret"

	h1 := HashRefreshToken("abc")
	h2 := HashRefreshToken("abc")
	h3 := HashRefreshToken("abd")

	if !bytes.Equal(h1, h2) {
		t.Error("hash input sama harus deterministik")
	}
	if bytes.Equal(h1, h3) {
		t.Error("hash input beda tidak boleh sama")
	}
	if len(h1) != 32 {
		t.Errorf("panjang hash = %d, want 32 (sha256)", len(h1))
	}
}

func TestNewOTPAndHash(t *testing.T) {
	otp, err := NewOTP()
	if err != nil {
		t.Fatalf("NewOTP: %v", err)
	}
	if len(otp) != 6 {
		t.Fatalf("panjang OTP = %d, want 6", len(otp))
	}
	for _, r := range otp {
		if r < '0' || r > '9' {
			t.Fatalf("OTP %q mengandung karakter non-digit", otp)
		}
	}

	hash := HashOTP(otp)
	if !OTPMatches(otp, hash) {
		t.Error("OTP harus cocok dengan hash-nya sendiri")
	}
	if OTPMatches("000000", HashOTP("123456")) {
		t.Error("OTP berbeda tidak boleh cocok")
	}
}

func TestGenerateAccessTokenRoundTrip(t *testing.T) {
	configs.JWTSecret = "test-secret"

	u := &userModel.UserModel{
		ID:       uuid.New(),
		SchoolID: uuid.New(),
		Name:     "Bu Ani",
		Email:    "ani@example.com",
		Role:     userModel.RoleTeacher,
	}

	signed, err := GenerateAccessToken(u)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(signed, claims, func(tok *jwt.Token) (interface{}, error) {
		return []byte(configs.JWTSecret), nil
	})
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}

	if got := claims["sub"]; got != u.ID.String() {
		t.Errorf("claim sub = %v, want %s", got, u.ID)
	}
	if got := claims["role"]; got != userModel.RoleTeacher {
		t.Errorf("claim role = %v, want %s", got, userModel.RoleTeacher)
	}
	if got := claims["school_id"]; got != u.SchoolID.String() {
		t.Errorf("claim school_id = %v, want %s", got, u.SchoolID)
	}
	if got := claims["user_name"]; got != u.Name {
		t.Errorf("claim user_name = %v, want %s", got, u.Name)
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		t.Fatal("claim exp harus ada")
	}
	if int64(exp) <= time.Now().Unix() {
		t.Error("exp harus di masa depan")
	}
}

func TestGenerateAccessTokenWithoutSecret(t *testing.T) {
	old := configs.JWTSecret
	configs.JWTSecret = ""
	defer func() { configs.JWTSecret = old }()

	u := &userModel.UserModel{ID: uuid.New(), SchoolID: uuid.New()}
	if _, err := GenerateAccessToken(u); err == nil {
		t.Fatal("tanpa JWT_SECRET seharusnya error")
	}
}
