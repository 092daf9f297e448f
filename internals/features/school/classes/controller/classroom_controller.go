// internals/features/school/classes/controller/classroom_controller.go
package controller

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"markme_backend/internals/features/school/classes/dto"
	"markme_backend/internals/features/school/classes/model"
	userModel "markme_backend/internals/features/users/user/model"
	helper "markme_backend/internals/helpers"
)

var validate = validator.New()

type ClassroomController struct {
	DB *gorm.DB
}

func NewClassroomController(db *gorm.DB) *ClassroomController {
	return &ClassroomController{DB: db}
}

// ensureTeacher memastikan calon wali kelas adalah TEACHER di sekolah yang sama.
func (cc *ClassroomController) ensureTeacher(schoolID, teacherID uuid.UUID) error {
	var t userModel.UserModel
	if err := cc.DB.First(&t, "id = ? AND school_id = ?", teacherID, schoolID).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Guru tidak ditemukan di sekolah ini")
	}
	if t.Role != userModel.RoleTeacher {
		return fiber.NewError(fiber.StatusBadRequest, "Wali kelas harus berrole TEACHER")
	}
	return nil
}

// GET /api/classes — TEACHER hanya melihat kelasnya sendiri
func (cc *ClassroomController) ListClassrooms(c *fiber.Ctx) error {
	schoolID, err := helper.GetSchoolIDFromToken(c)
	if err != nil {
		return err
	}

	q := cc.DB.Preload("ClassTeacher").Where("school_id = ?", schoolID)
	if helper.GetRoleFromToken(c) == userModel.RoleTeacher {
		userID, err := helper.GetUserIDFromToken(c)
		if err != nil {
			return err
		}
		q = q.Where("class_teacher_id = ?", userID)
	}

	var classes []model.ClassroomModel
	if err := q.Order("educational_year DESC, std ASC, division ASC").Find(&classes).Error; err != nil {
		log.Println("[ERROR] ListClassrooms gagal:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil daftar kelas")
	}
	return helper.JsonOK(c, "Daftar kelas", dto.FromClassroomModels(classes))
}

// POST /api/classes — ADMIN only (dijaga route)
func (cc *ClassroomController) CreateClassroom(c *fiber.Ctx) error {
	schoolID, err := helper.GetSchoolIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.CreateClassroomRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	req.Normalize()
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}

	teacherID, err := uuid.Parse(req.ClassTeacherID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "class_teacher_id tidak valid")
	}
	if err := cc.ensureTeacher(schoolID, teacherID); err != nil {
		return err
	}

	name := req.Name
	if name == "" {
		name = model.DefaultName(req.Std, req.Division, req.EducationalYear)
	}

	cls := model.ClassroomModel{
		SchoolID:        schoolID,
		EducationalYear: req.EducationalYear,
		Std:             req.Std,
		Division:        req.Division,
		Name:            name,
		ClassTeacherID:  teacherID,
	}
	if err := cc.DB.Create(&cls).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Kelas dengan tahun/tingkat/rombel ini sudah ada")
		}
		log.Println("[ERROR] CreateClassroom gagal:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat kelas")
	}

	cc.DB.Preload("ClassTeacher").First(&cls, "id = ?", cls.ID)
	return helper.JsonCreated(c, "Kelas berhasil dibuat", dto.FromClassroomModel(&cls))
}

// PUT /api/classes/:id — ADMIN only (dijaga route)
func (cc *ClassroomController) UpdateClassroom(c *fiber.Ctx) error {
	schoolID, err := helper.GetSchoolIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID kelas tidak valid")
	}

	var cls model.ClassroomModel
	if err := cc.DB.First(&cls, "id = ? AND school_id = ?", id, schoolID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Kelas tidak ditemukan")
	}

	var req dto.UpdateClassroomRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	req.Normalize()
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}

	updates := map[string]interface{}{}
	if req.EducationalYear != nil {
		updates["educational_year"] = *req.EducationalYear
	}
	if req.Std != nil {
		updates["std"] = *req.Std
	}
	if req.Division != nil {
		updates["division"] = *req.Division
	}
	if req.Name != nil && *req.Name != "" {
		updates["name"] = *req.Name
	}
	if req.ClassTeacherID != nil {
		teacherID, err := uuid.Parse(*req.ClassTeacherID)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "class_teacher_id tidak valid")
		}
		if err := cc.ensureTeacher(schoolID, teacherID); err != nil {
			return err
		}
		updates["class_teacher_id"] = teacherID
	}
	if len(updates) == 0 {
		return helper.JsonOK(c, "Tidak ada perubahan", dto.FromClassroomModel(&cls))
	}

	if err := cc.DB.Model(&cls).Updates(updates).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Kelas dengan tahun/tingkat/rombel ini sudah ada")
		}
		log.Println("[ERROR] UpdateClassroom gagal:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memperbarui kelas")
	}

	cc.DB.Preload("ClassTeacher").First(&cls, "id = ?", cls.ID)
	return helper.JsonOK(c, "Kelas berhasil diperbarui", dto.FromClassroomModel(&cls))
}
