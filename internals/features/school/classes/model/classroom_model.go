package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	userModel "markme_backend/internals/features/users/user/model"
)

// ClassroomModel merepresentasikan tabel classrooms di database.
// Satu kombinasi (sekolah, tahun ajaran, tingkat, rombel) hanya boleh satu kelas.
type ClassroomModel struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SchoolID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uq_classroom_identity" json:"school_id"`

	EducationalYear string `gorm:"size:20;not null;uniqueIndex:uq_classroom_identity" json:"educational_year"`
	Std             string `gorm:"size:20;not null;uniqueIndex:uq_classroom_identity" json:"std"`
	Division        string `gorm:"size:20;not null;uniqueIndex:uq_classroom_identity" json:"division"`

	Name string `gorm:"size:100;not null" json:"name"`

	ClassTeacherID uuid.UUID            `gorm:"type:uuid;not null;index" json:"class_teacher_id"`
	ClassTeacher   *userModel.UserModel `gorm:"foreignKey:ClassTeacherID" json:"class_teacher,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ClassroomModel) TableName() string {
	return "classrooms"
}

// DefaultName: "std-division (year)", dipakai saat name tidak dikirim.
func DefaultName(std, division, year string) string {
	return fmt.Sprintf("%s-%s (%s)", std, division, year)
}
