package dto

import (
	"strings"
	"time"

	clsModel "markme_backend/internals/features/school/classes/model"
	userDto "markme_backend/internals/features/users/user/dto"
)

/* =======================================================
   REQUEST DTOs
   ======================================================= */

type CreateClassroomRequest struct {
	EducationalYear string `json:"educational_year" validate:"required,min=4,max=20"`
	Std             string `json:"std" validate:"required,min=1,max=20"`
	Division        string `json:"division" validate:"required,min=1,max=20"`
	Name            string `json:"name" validate:"omitempty,max=100"`
	ClassTeacherID  string `json:"class_teacher_id" validate:"required,uuid"`
}

func (r *CreateClassroomRequest) Normalize() {
	r.EducationalYear = strings.TrimSpace(r.EducationalYear)
	r.Std = strings.TrimSpace(r.Std)
	r.Division = strings.ToUpper(strings.TrimSpace(r.Division))
	r.Name = strings.TrimSpace(r.Name)
	r.ClassTeacherID = strings.TrimSpace(r.ClassTeacherID)
}

// UpdateClassroomRequest — partial update (pointer agar bisa bedakan omit vs null)
type UpdateClassroomRequest struct {
	EducationalYear *string `json:"educational_year,omitempty" validate:"omitempty,min=4,max=20"`
	Std             *string `json:"std,omitempty" validate:"omitempty,min=1,max=20"`
	Division        *string `json:"division,omitempty" validate:"omitempty,min=1,max=20"`
	Name            *string `json:"name,omitempty" validate:"omitempty,max=100"`
	ClassTeacherID  *string `json:"class_teacher_id,omitempty" validate:"omitempty,uuid"`
}

func (r *UpdateClassroomRequest) Normalize() {
	trim := func(p *string) *string {
		if p == nil {
			return nil
		}
		v := strings.TrimSpace(*p)
		return &v
	}
	r.EducationalYear = trim(r.EducationalYear)
	r.Std = trim(r.Std)
	r.Name = trim(r.Name)
	r.ClassTeacherID = trim(r.ClassTeacherID)
	if r.Division != nil {
		v := strings.ToUpper(strings.TrimSpace(*r.Division))
		r.Division = &v
	}
}

/* =======================================================
   RESPONSE DTOs
   ======================================================= */

type ClassroomResponse struct {
	ID              string                `json:"id"`
	SchoolID        string                `json:"school_id"`
	EducationalYear string                `json:"educational_year"`
	Std             string                `json:"std"`
	Division        string                `json:"division"`
	Name            string                `json:"name"`
	ClassTeacherID  string                `json:"class_teacher_id"`
	ClassTeacher    *userDto.UserResponse `json:"class_teacher,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
}

func FromClassroomModel(m *clsModel.ClassroomModel) ClassroomResponse {
	resp := ClassroomResponse{
		ID:              m.ID.String(),
		SchoolID:        m.SchoolID.String(),
		EducationalYear: m.EducationalYear,
		Std:             m.Std,
		Division:        m.Division,
		Name:            m.Name,
		ClassTeacherID:  m.ClassTeacherID.String(),
		CreatedAt:       m.CreatedAt,
	}
	if m.ClassTeacher != nil {
		t := userDto.FromUserModel(m.ClassTeacher)
		resp.ClassTeacher = &t
	}
	return resp
}

func FromClassroomModels(ms []clsModel.ClassroomModel) []ClassroomResponse {
	out := make([]ClassroomResponse, 0, len(ms))
	for i := range ms {
		out = append(out, FromClassroomModel(&ms[i]))
	}
	return out
}
