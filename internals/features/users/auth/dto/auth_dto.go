package dto

import (
	"strings"
)

/* =======================================================
   REQUEST DTOs
   ======================================================= */

// RegisterAdminRequest — tahap 1 registrasi sekolah + admin (belum ada row users)
type RegisterAdminRequest struct {
	SchoolIdx  string  `json:"school_idx" validate:"required,min=2,max=50"`
	SchoolName string  `json:"school_name" validate:"required,min=3,max=255"`
	Address    *string `json:"address,omitempty" validate:"omitempty,max=500"`
	AdminName  string  `json:"admin_name" validate:"required,min=3,max=100"`
	Email      string  `json:"email" validate:"required,email,max=255"`
	Password   string  `json:"password" validate:"required,min=8"`
}

func (r *RegisterAdminRequest) Normalize() {
	r.SchoolIdx = strings.ToLower(strings.TrimSpace(r.SchoolIdx))
	r.SchoolName = strings.TrimSpace(r.SchoolName)
	r.AdminName = strings.TrimSpace(r.AdminName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.Address != nil {
		v := strings.TrimSpace(*r.Address)
		r.Address = &v
	}
}

type SendOtpRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyOtpRequest struct {
	Email string `json:"email" validate:"required,email"`
	Otp   string `json:"otp" validate:"required,len=6,numeric"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

// RefreshRequest — token bisa datang dari cookie ATAU body
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token,omitempty"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

/* =======================================================
   RESPONSE DTOs
   ======================================================= */

type TokenPairResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

type UserResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	SchoolID   string `json:"school_id"`
	IsVerified bool   `json:"is_verified"`
}
