package dto

import (
	"strings"
	"time"

	stdModel "markme_backend/internals/features/school/students/model"
)

/* =======================================================
   REQUEST DTOs
   ======================================================= */

type CreateStudentRequest struct {
	ClassID    string  `json:"class_id" validate:"required,uuid"`
	RollNumber string  `json:"roll_number" validate:"required,min=1,max=30"`
	Name       string  `json:"name" validate:"required,min=2,max=100"`
	DOB        *string `json:"dob,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Gender     *string `json:"gender,omitempty" validate:"omitempty,oneof=M F OTHER"`
}

func (r *CreateStudentRequest) Normalize() {
	r.ClassID = strings.TrimSpace(r.ClassID)
	r.RollNumber = strings.TrimSpace(r.RollNumber)
	r.Name = strings.TrimSpace(r.Name)
	if r.Gender != nil {
		v := strings.ToUpper(strings.TrimSpace(*r.Gender))
		r.Gender = &v
	}
}

type UpdateStudentRequest struct {
	RollNumber *string `json:"roll_number,omitempty" validate:"omitempty,min=1,max=30"`
	Name       *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	DOB        *string `json:"dob,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Gender     *string `json:"gender,omitempty" validate:"omitempty,oneof=M F OTHER"`
	IsActive   *bool   `json:"is_active,omitempty"`
}

func (r *UpdateStudentRequest) Normalize() {
	if r.RollNumber != nil {
		v := strings.TrimSpace(*r.RollNumber)
		r.RollNumber = &v
	}
	if r.Name != nil {
		v := strings.TrimSpace(*r.Name)
		r.Name = &v
	}
	if r.Gender != nil {
		v := strings.ToUpper(strings.TrimSpace(*r.Gender))
		r.Gender = &v
	}
}

/* =======================================================
   RESPONSE DTOs
   ======================================================= */

type StudentResponse struct {
	ID              string  `json:"id"`
	SchoolID        string  `json:"school_id"`
	ClassID         string  `json:"class_id"`
	RollNumber      string  `json:"roll_number"`
	Name            string  `json:"name"`
	DOB             *string `json:"dob,omitempty"`
	Gender          *string `json:"gender,omitempty"`
	ProfileImageURL *string `json:"profile_image_url,omitempty"`
	IsActive        bool    `json:"is_active"`
}

func FromStudentModel(m *stdModel.StudentModel) StudentResponse {
	resp := StudentResponse{
		ID:              m.ID.String(),
		SchoolID:        m.SchoolID.String(),
		ClassID:         m.ClassID.String(),
		RollNumber:      m.RollNumber,
		Name:            m.Name,
		Gender:          m.Gender,
		ProfileImageURL: m.ProfileImageURL,
		IsActive:        m.IsActive,
	}
	if m.DOB != nil {
		v := m.DOB.Format("2006-01-02")
		resp.DOB = &v
	}
	return resp
}

func FromStudentModels(ms []stdModel.StudentModel) []StudentResponse {
	out := make([]StudentResponse, 0, len(ms))
	for i := range ms {
		out = append(out, FromStudentModel(&ms[i]))
	}
	return out
}

/* =======================================================
   Bulk import DTOs
   ======================================================= */

// BulkRowResult — hasil per baris; row mengikuti nomor baris file Excel.
type BulkRowResult struct {
	Row     int    `json:"row"`
	Name    string `json:"name,omitempty"`
	Roll    string `json:"roll_number,omitempty"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type BulkUploadResponse struct {
	Inserted int             `json:"inserted"`
	Failed   int             `json:"failed"`
	Results  []BulkRowResult `json:"results"`
}

// PhotoFileResult — hasil per entry zip
type PhotoFileResult struct {
	File   string `json:"file"`
	Roll   string `json:"roll_number,omitempty"`
	Status string `json:"status"` // success | skipped | failed
	Reason string `json:"reason,omitempty"`
	URL    string `json:"url,omitempty"`
}

type BulkPhotoUploadResponse struct {
	Success int               `json:"success"`
	Skipped int               `json:"skipped"`
	Failed  int               `json:"failed"`
	Results []PhotoFileResult `json:"results"`
}

// AttendanceHistoryItem — tanggal lokal (YYYY-MM-DD), bukan UTC
type AttendanceHistoryItem struct {
	Date   string `json:"date"`
	Status string `json:"status"`
}

/* =======================================================
   Helpers waktu lokal
   ======================================================= */

// LocalDateString memformat tanggal mengikuti zona lokal server,
// supaya riwayat absensi tidak bergeser hari karena konversi UTC.
func LocalDateString(t time.Time) string {
	return t.Local().Format("2006-01-02")
}
