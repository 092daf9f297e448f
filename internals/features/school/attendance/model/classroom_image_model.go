package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ClassroomImageModel merepresentasikan tabel classroom_images.
// Meta menyimpan metadata bebas (width/height/device) sebagai JSON.
type ClassroomImageModel struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SessionID uuid.UUID `gorm:"type:uuid;not null;index" json:"session_id"`

	ImageURL string         `gorm:"size:600;not null" json:"image_url"`
	Meta     datatypes.JSON `gorm:"type:jsonb" json:"meta,omitempty"`

	UploadedAt time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}

func (ClassroomImageModel) TableName() string {
	return "classroom_images"
}
