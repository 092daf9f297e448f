package model

import (
	"time"

	"github.com/google/uuid"

	studentModel "markme_backend/internals/features/school/students/model"
)

const (
	RecordStatusPresent = "P"
	RecordStatusAbsent  = "A"

	RecordSourceSystem  = "SYSTEM"
	RecordSourceTeacher = "TEACHER"
)

func ValidRecordStatus(s string) bool {
	return s == RecordStatusPresent || s == RecordStatusAbsent
}

// AttendanceRecordModel merepresentasikan tabel attendance_records.
// Satu siswa hanya punya satu record per sesi. Record dengan edited=true
// adalah koreksi guru dan tidak boleh ditimpa rekonsiliasi sistem.
type AttendanceRecordModel struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SessionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_record_session_student" json:"session_id"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_record_session_student" json:"student_id"`

	Status     string   `gorm:"type:varchar(5);not null;default:'A'" json:"status"`
	Source     string   `gorm:"type:varchar(20);not null;default:'SYSTEM'" json:"source"`
	Confidence *float64 `json:"confidence,omitempty"`
	Edited     bool     `gorm:"not null;default:false" json:"edited"`

	Student *studentModel.StudentModel `gorm:"foreignKey:StudentID" json:"student,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (AttendanceRecordModel) TableName() string {
	return "attendance_records"
}
