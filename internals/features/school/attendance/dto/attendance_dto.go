package dto

import (
	"strings"
	"time"

	"github.com/bytedance/sonic"

	attModel "markme_backend/internals/features/school/attendance/model"
	studentDto "markme_backend/internals/features/school/students/dto"
)

/* =======================================================
   REQUEST DTOs
   ======================================================= */

// ProcessAttendanceRequest menerima body JSON maupun form multipart.
// ImageURLs sengaja bertipe any: klien lama mengirim string tunggal,
// string berisi JSON array, atau array murni.
type ProcessAttendanceRequest struct {
	ClassID   string `json:"class_id" form:"class_id"`
	SessionID string `json:"session_id" form:"session_id"`
	ImageURLs any    `json:"image_urls" form:"image_urls"`
}

// NormalizeImageURLs meratakan ketiga bentuk input menjadi []string
// tanpa entri kosong.
func NormalizeImageURLs(v any) []string {
	out := []string{}
	appendURL := func(s string) {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}

	switch t := v.(type) {
	case nil:
	case string:
		s := strings.TrimSpace(t)
		if strings.HasPrefix(s, "[") {
			var arr []string
			if err := sonic.UnmarshalString(s, &arr); err == nil {
				for _, u := range arr {
					appendURL(u)
				}
				return out
			}
		}
		appendURL(s)
	case []string:
		for _, u := range t {
			appendURL(u)
		}
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok {
				appendURL(s)
			}
		}
	}
	return out
}

type CreateSessionRequest struct {
	ClassID string `json:"class_id" validate:"required,uuid"`
	Date    string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type UpdateRecordRequest struct {
	Status string `json:"status" validate:"required,oneof=P A"`
}

type BulkRecordItem struct {
	RecordID string `json:"record_id" validate:"required,uuid"`
	Status   string `json:"status" validate:"required,oneof=P A"`
}

type BulkUpdateRecordsRequest struct {
	Records []BulkRecordItem `json:"records" validate:"required,min=1,dive"`
}

/* =======================================================
   RESPONSE DTOs
   ======================================================= */

type RecordResponse struct {
	ID         string                      `json:"id"`
	SessionID  string                      `json:"session_id"`
	StudentID  string                      `json:"student_id"`
	Status     string                      `json:"status"`
	Source     string                      `json:"source"`
	Confidence *float64                    `json:"confidence,omitempty"`
	Edited     bool                        `json:"edited"`
	Student    *studentDto.StudentResponse `json:"student,omitempty"`
}

func FromRecordModel(m *attModel.AttendanceRecordModel) RecordResponse {
	resp := RecordResponse{
		ID:         m.ID.String(),
		SessionID:  m.SessionID.String(),
		StudentID:  m.StudentID.String(),
		Status:     m.Status,
		Source:     m.Source,
		Confidence: m.Confidence,
		Edited:     m.Edited,
	}
	if m.Student != nil {
		s := studentDto.FromStudentModel(m.Student)
		resp.Student = &s
	}
	return resp
}

func FromRecordModels(ms []attModel.AttendanceRecordModel) []RecordResponse {
	out := make([]RecordResponse, 0, len(ms))
	for i := range ms {
		out = append(out, FromRecordModel(&ms[i]))
	}
	return out
}

type SessionResponse struct {
	ID        string    `json:"id"`
	SchoolID  string    `json:"school_id"`
	ClassID   string    `json:"class_id"`
	TeacherID string    `json:"teacher_id"`
	Date      string    `json:"date"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func FromSessionModel(m *attModel.AttendanceSessionModel) SessionResponse {
	return SessionResponse{
		ID:        m.ID.String(),
		SchoolID:  m.SchoolID.String(),
		ClassID:   m.ClassID.String(),
		TeacherID: m.TeacherID.String(),
		Date:      m.Date.Local().Format("2006-01-02"),
		Status:    m.Status,
		CreatedAt: m.CreatedAt,
	}
}

type ImageResponse struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	ImageURL   string    `json:"image_url"`
	Meta       any       `json:"meta,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`
}

func FromImageModel(m *attModel.ClassroomImageModel) ImageResponse {
	resp := ImageResponse{
		ID:         m.ID.String(),
		SessionID:  m.SessionID.String(),
		ImageURL:   m.ImageURL,
		UploadedAt: m.UploadedAt,
	}
	if len(m.Meta) > 0 {
		var meta any
		if err := sonic.Unmarshal(m.Meta, &meta); err == nil {
			resp.Meta = meta
		}
	}
	return resp
}

func FromImageModels(ms []attModel.ClassroomImageModel) []ImageResponse {
	out := make([]ImageResponse, 0, len(ms))
	for i := range ms {
		out = append(out, FromImageModel(&ms[i]))
	}
	return out
}

type SessionDetailResponse struct {
	Session SessionResponse  `json:"session"`
	Images  []ImageResponse  `json:"images"`
	Records []RecordResponse `json:"records"`
}

type ProcessAttendanceResponse struct {
	SessionID string           `json:"session_id"`
	Total     int              `json:"total"`
	Present   int              `json:"present"`
	Absent    int              `json:"absent"`
	Records   []RecordResponse `json:"records"`
}
