package model

import (
	"time"

	"github.com/google/uuid"
)

// Jenis token yang disimpan di tabel refresh_tokens.
// Token reset password ikut menumpang di tabel ini dengan masa berlaku pendek.
const (
	TokenKindRefresh       = "REFRESH"
	TokenKindPasswordReset = "PASSWORD_RESET"
)

// RefreshTokenModel menyimpan HASH token (bukan token mentah).
type RefreshTokenModel struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	TokenHash []byte `gorm:"type:bytea;not null;uniqueIndex" json:"-"`
	Kind      string `gorm:"type:varchar(20);not null;default:'REFRESH'" json:"kind"`

	ExpiresAt      time.Time  `gorm:"not null;index" json:"expires_at"`
	RevokedAt      *time.Time `json:"revoked_at,omitempty"`
	ReplacedByHash []byte     `gorm:"type:bytea" json:"-"`

	UserAgent *string `gorm:"size:400" json:"user_agent,omitempty"`
	IP        *string `gorm:"size:64" json:"ip,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (RefreshTokenModel) TableName() string {
	return "refresh_tokens"
}

// Active: belum dicabut dan belum kedaluwarsa.
func (m *RefreshTokenModel) Active(now time.Time) bool {
	return m.RevokedAt == nil && now.Before(m.ExpiresAt)
}
