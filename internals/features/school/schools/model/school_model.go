package model

import (
	"time"

	"github.com/google/uuid"
)

// SchoolModel merepresentasikan tabel schools di database
type SchoolModel struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SchoolIdx string    `gorm:"size:50;uniqueIndex;not null" json:"school_idx"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Address   *string   `gorm:"size:500" json:"address,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (SchoolModel) TableName() string {
	return "schools"
}
