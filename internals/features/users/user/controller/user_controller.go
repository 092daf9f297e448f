// internals/features/users/user/controller/user_controller.go
package controller

import (
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	schoolModel "markme_backend/internals/features/school/schools/model"
	"markme_backend/internals/features/users/user/dto"
	"markme_backend/internals/features/users/user/model"
	helper "markme_backend/internals/helpers"
	"markme_backend/internals/helpers/mailer"
)

var validate = validator.New()

type UserController struct {
	DB     *gorm.DB
	Mailer *mailer.Mailer
}

func NewUserController(db *gorm.DB, m *mailer.Mailer) *UserController {
	return &UserController{DB: db, Mailer: m}
}

// POST /api/admin/users — admin membuat guru / kepala sekolah di sekolahnya sendiri
func (uc *UserController) CreateUser(c *fiber.Ctx) error {
	schoolID, err := helper.GetSchoolIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	req.Normalize()
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memproses password")
	}

	u := model.UserModel{
		SchoolID:     schoolID,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
		IsVerified:   true, // akun buatan admin tidak melewati gerbang OTP
		IsActive:     true,
	}
	if err := uc.DB.Create(&u).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Email sudah terdaftar")
		}
		log.Println("[ERROR] CreateUser gagal:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat user")
	}

	// email kredensial best-effort, kegagalan tidak membatalkan pembuatan akun
	go func(name, email, password string, schoolID uuid.UUID) {
		var school schoolModel.SchoolModel
		schoolName := ""
		if err := uc.DB.First(&school, "id = ?", schoolID).Error; err == nil {
			schoolName = school.Name
		}
		if err := uc.Mailer.SendTeacherCredentials(name, email, password, schoolName); err != nil {
			log.Println("[ERROR] Gagal mengirim email kredensial:", err)
		}
	}(u.Name, u.Email, req.Password, u.SchoolID)

	return helper.JsonCreated(c, "User berhasil dibuat", dto.FromUserModel(&u))
}

// GET /api/admin/users?role=TEACHER
func (uc *UserController) ListUsers(c *fiber.Ctx) error {
	schoolID, err := helper.GetSchoolIDFromToken(c)
	if err != nil {
		return err
	}

	paging := helper.ResolvePaging(c, 20, 100)

	q := uc.DB.Model(&model.UserModel{}).Where("school_id = ?", schoolID)
	if role := strings.ToUpper(strings.TrimSpace(c.Query("role"))); role != "" {
		if !model.ValidRole(role) {
			return helper.JsonError(c, fiber.StatusBadRequest, "Role tidak dikenal")
		}
		q = q.Where("role = ?", role)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung user")
	}

	var users []model.UserModel
	if err := q.Order("created_at DESC").
		Limit(paging.PerPage).
		Offset(paging.Offset).
		Find(&users).Error; err != nil {
		log.Println("[ERROR] ListUsers gagal:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil user")
	}

	pagination := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "Daftar user", dto.FromUserModels(users), &pagination)
}

// DELETE /api/admin/users/:id — hanya akun TEACHER yang boleh dihapus
func (uc *UserController) DeleteTeacher(c *fiber.Ctx) error {
	schoolID, err := helper.GetSchoolIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID user tidak valid")
	}

	var u model.UserModel
	if err := uc.DB.First(&u, "id = ? AND school_id = ?", id, schoolID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "User tidak ditemukan")
	}
	if u.Role != model.RoleTeacher {
		return helper.JsonError(c, fiber.StatusForbidden, "Hanya akun guru yang dapat dihapus")
	}

	if err := uc.DB.Delete(&u).Error; err != nil {
		log.Println("[ERROR] DeleteTeacher gagal:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghapus user")
	}
	return helper.JsonDeleted(c, "User berhasil dihapus", fiber.Map{"id": id})
}
