package dto

import (
	"strings"
	"time"

	uModel "markme_backend/internals/features/users/user/model"
)

/* =======================================================
   REQUEST DTOs
   ======================================================= */

// CreateUserRequest — admin membuat akun TEACHER / PRINCIPAL di sekolahnya
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=TEACHER PRINCIPAL"`
}

func (r *CreateUserRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Role = strings.ToUpper(strings.TrimSpace(r.Role))
}

/* =======================================================
   RESPONSE DTOs
   ======================================================= */

type UserResponse struct {
	ID         string    `json:"id"`
	SchoolID   string    `json:"school_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	IsVerified bool      `json:"is_verified"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

func FromUserModel(m *uModel.UserModel) UserResponse {
	return UserResponse{
		ID:         m.ID.String(),
		SchoolID:   m.SchoolID.String(),
		Name:       m.Name,
		Email:      m.Email,
		Role:       m.Role,
		IsVerified: m.IsVerified,
		IsActive:   m.IsActive,
		CreatedAt:  m.CreatedAt,
	}
}

func FromUserModels(ms []uModel.UserModel) []UserResponse {
	out := make([]UserResponse, 0, len(ms))
	for i := range ms {
		out = append(out, FromUserModel(&ms[i]))
	}
	return out
}
