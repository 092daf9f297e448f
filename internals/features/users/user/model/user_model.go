package model

import (
	"time"

	"github.com/google/uuid"
)

/* =============================== ROLES =============================== */

const (
	RoleAdmin     = "ADMIN"
	RoleTeacher   = "TEACHER"
	RolePrincipal = "PRINCIPAL"
)

// ValidRole memeriksa role yang dikenal sistem.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleTeacher, RolePrincipal:
		return true
	}
	return false
}

/* =============================== MODEL =============================== */

// UserModel merepresentasikan tabel users di database.
// Semua user terikat ke satu sekolah; email unik lintas sekolah.
type UserModel struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SchoolID     uuid.UUID `gorm:"type:uuid;not null;index" json:"school_id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         string    `gorm:"type:varchar(20);not null" json:"role"`

	// IsVerified hanya menggerbang login untuk role ADMIN
	IsVerified bool `gorm:"not null;default:false" json:"is_verified"`
	IsActive   bool `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (UserModel) TableName() string {
	return "users"
}
