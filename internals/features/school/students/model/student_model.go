package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	GenderMale   = "M"
	GenderFemale = "F"
	GenderOther  = "OTHER"
)

func ValidGender(g string) bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// StudentModel merepresentasikan tabel students di database.
// roll_number unik per kelas, dipakai juga sebagai kunci pencocokan
// saat import foto massal.
type StudentModel struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SchoolID uuid.UUID `gorm:"type:uuid;not null;index" json:"school_id"`
	ClassID  uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uq_student_roll" json:"class_id"`

	RollNumber string `gorm:"size:30;not null;uniqueIndex:uq_student_roll" json:"roll_number"`
	Name       string `gorm:"size:100;not null" json:"name"`

	DOB    *time.Time `gorm:"type:date" json:"dob,omitempty"`
	Gender *string    `gorm:"type:varchar(10)" json:"gender,omitempty"`

	ProfileImageURL *string `gorm:"size:600" json:"profile_image_url,omitempty"`

	IsActive bool `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (StudentModel) TableName() string {
	return "students"
}
