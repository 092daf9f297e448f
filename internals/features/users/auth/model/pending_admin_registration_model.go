package model

import (
	"time"

	"github.com/google/uuid"
)

// PendingAdminRegistrationModel menampung registrasi admin sebelum OTP
// terverifikasi. Belum ada baris School/User sampai verify-otp sukses.
type PendingAdminRegistrationModel struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`

	Email      string  `gorm:"size:255;uniqueIndex;not null" json:"email"`
	SchoolIdx  string  `gorm:"size:50;uniqueIndex;not null" json:"school_idx"`
	SchoolName string  `gorm:"size:255;not null" json:"school_name"`
	Address    *string `gorm:"size:500" json:"address,omitempty"`
	AdminName  string  `gorm:"size:100;not null" json:"admin_name"`

	PasswordHash string `gorm:"not null" json:"-"`

	OtpHash      []byte    `gorm:"type:bytea;not null" json:"-"`
	OtpExpiresAt time.Time `gorm:"not null" json:"otp_expires_at"`

	// ExpiresAt: target sapuan cleanup berkala
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (PendingAdminRegistrationModel) TableName() string {
	return "pending_admin_registrations"
}
