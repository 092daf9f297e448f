package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	SessionStatusPending   = "PENDING"
	SessionStatusInReview  = "IN_REVIEW"
	SessionStatusFinalized = "FINALIZED"
)

func ValidSessionStatus(s string) bool {
	switch s {
	case SessionStatusPending, SessionStatusInReview, SessionStatusFinalized:
		return true
	}
	return false
}

// AttendanceSessionModel merepresentasikan tabel attendance_sessions.
// Satu kelas hanya punya satu sesi per tanggal (date sudah dinormalisasi
// ke awal hari waktu lokal).
type AttendanceSessionModel struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SchoolID  uuid.UUID `gorm:"type:uuid;not null;index" json:"school_id"`
	ClassID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_session_class_date" json:"class_id"`
	TeacherID uuid.UUID `gorm:"type:uuid;not null" json:"teacher_id"`

	Date   time.Time `gorm:"not null;uniqueIndex:uq_session_class_date" json:"date"`
	Status string    `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (AttendanceSessionModel) TableName() string {
	return "attendance_sessions"
}

// StartOfDay menormalkan timestamp ke 00:00:00 waktu lokal server.
// Jangan pakai UTC di sini, tanggal sesi mengikuti hari lokal sekolah.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Local().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}
