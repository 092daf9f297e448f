// internals/features/school/students/controller/student_controller.go
package controller

import (
	"archive/zip"
	"bytes"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	attModel "markme_backend/internals/features/school/attendance/model"
	clsModel "markme_backend/internals/features/school/classes/model"
	"markme_backend/internals/features/school/students/dto"
	"markme_backend/internals/features/school/students/model"
	"markme_backend/internals/features/school/students/service"
	helper "markme_backend/internals/helpers"
	"markme_backend/internals/helpers/ai"
	helperOSS "markme_backend/internals/helpers/oss"
)

var validate = validator.New()

type StudentController struct {
	DB  *gorm.DB
	OSS *helperOSS.OSSService
	AI  *ai.Client
}

func NewStudentController(db *gorm.DB, oss *helperOSS.OSSService, aiClient *ai.Client) *StudentController {
	return &StudentController{DB: db, OSS: oss, AI: aiClient}
}

func (sc *StudentController) findClassroom(c *fiber.Ctx, classID uuid.UUID) (*clsModel.ClassroomModel, error) {
	schoolID, err := helper.GetSchoolIDFromToken(c)
	if err != nil {
		return nil, err
	}
	var cls clsModel.ClassroomModel
	if err := sc.DB.First(&cls, "id = ? AND school_id = ?", classID, schoolID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Kelas tidak ditemukan")
	}
	return &cls, nil
}

/* =======================================================
   CRUD
   ======================================================= */

// GET /api/students?classId=...
func (sc *StudentController) ListStudents(c *fiber.Ctx) error {
	schoolID, err := helper.GetSchoolIDFromToken(c)
	if err != nil {
		return err
	}

	q := sc.DB.Where("school_id = ?", schoolID)
	if raw := strings.TrimSpace(c.Query("classId")); raw != "" {
		classID, err := uuid.Parse(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "classId tidak valid")
		}
		q = q.Where("class_id = ?", classID)
	}

	var students []model.StudentModel
	if err := q.Order("roll_number ASC").Find(&students).Error; err != nil {
		log.Println("[ERROR] ListStudents gagal:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil daftar siswa")
	}
	return helper.JsonOK(c, "Daftar siswa", dto.FromStudentModels(students))
}

// GET /api/students/:id
func (sc *StudentController) GetStudent(c *fiber.Ctx) error {
	student, err := sc.loadStudent(c)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Detail siswa", dto.FromStudentModel(student))
}

func (sc *StudentController) loadStudent(c *fiber.Ctx) (*model.StudentModel, error) {
	schoolID, err := helper.GetSchoolIDFromToken(c)
	if err != nil {
		return nil, err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "ID siswa tidak valid")
	}
	var student model.StudentModel
	if err := sc.DB.First(&student, "id = ? AND school_id = ?", id, schoolID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Siswa tidak ditemukan")
	}
	return &student, nil
}

// POST /api/students
func (sc *StudentController) CreateStudent(c *fiber.Ctx) error {
	var req dto.CreateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	req.Normalize()
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}

	classID, err := uuid.Parse(req.ClassID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "class_id tidak valid")
	}
	cls, err := sc.findClassroom(c, classID)
	if err != nil {
		return err
	}

	student := model.StudentModel{
		SchoolID:   cls.SchoolID,
		ClassID:    cls.ID,
		RollNumber: req.RollNumber,
		Name:       req.Name,
		Gender:     req.Gender,
		IsActive:   true,
	}
	if req.DOB != nil {
		if t, err := time.ParseInLocation("2006-01-02", *req.DOB, time.Local); err == nil {
			student.DOB = &t
		}
	}

	if err := sc.DB.Create(&student).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusBadRequest, "Roll number sudah dipakai di kelas ini")
		}
		log.Println("[ERROR] CreateStudent gagal:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat siswa")
	}
	return helper.JsonCreated(c, "Siswa berhasil dibuat", dto.FromStudentModel(&student))
}

// PUT /api/students/:id
func (sc *StudentController) UpdateStudent(c *fiber.Ctx) error {
	student, err := sc.loadStudent(c)
	if err != nil {
		return err
	}

	var req dto.UpdateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	req.Normalize()
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}

	updates := map[string]interface{}{}
	if req.RollNumber != nil {
		updates["roll_number"] = *req.RollNumber
	}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Gender != nil {
		updates["gender"] = *req.Gender
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.DOB != nil {
		if t, err := time.ParseInLocation("2006-01-02", *req.DOB, time.Local); err == nil {
			updates["dob"] = t
		}
	}
	if len(updates) == 0 {
		return helper.JsonOK(c, "Tidak ada perubahan", dto.FromStudentModel(student))
	}

	if err := sc.DB.Model(student).Updates(updates).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusBadRequest, "Roll number sudah dipakai di kelas ini")
		}
		log.Println("[ERROR] UpdateStudent gagal:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memperbarui siswa")
	}
	return helper.JsonOK(c, "Siswa berhasil diperbarui", dto.FromStudentModel(student))
}

// DELETE /api/students/:id — hapus foto profil di storage dulu (best-effort)
func (sc *StudentController) DeleteStudent(c *fiber.Ctx) error {
	student, err := sc.loadStudent(c)
	if err != nil {
		return err
	}

	if student.ProfileImageURL != nil && *student.ProfileImageURL != "" {
		if err := sc.OSS.DeleteByPublicURL(c.UserContext(), *student.ProfileImageURL); err != nil {
			log.Println("[ERROR] Hapus foto profil gagal:", err)
		}
	}

	if err := sc.DB.Delete(student).Error; err != nil {
		log.Println("[ERROR] DeleteStudent gagal:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghapus siswa")
	}
	return helper.JsonDeleted(c, "Siswa berhasil dihapus", fiber.Map{"id": student.ID})
}

/* =======================================================
   Riwayat absensi
   ======================================================= */

// GET /api/students/:id/attendance-history
func (sc *StudentController) AttendanceHistory(c *fiber.Ctx) error {
	student, err := sc.loadStudent(c)
	if err != nil {
		return err
	}

	type row struct {
		Date   time.Time
		Status string
	}
	var rows []row
	if err := sc.DB.Model(&attModel.AttendanceRecordModel{}).
		Select("attendance_sessions.date AS date, attendance_records.status AS status").
		Joins("JOIN attendance_sessions ON attendance_sessions.id = attendance_records.session_id").
		Where("attendance_records.student_id = ?", student.ID).
		Order("attendance_sessions.date ASC").
		Scan(&rows).Error; err != nil {
		log.Println("[ERROR] AttendanceHistory gagal:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil riwayat absensi")
	}

	items := make([]dto.AttendanceHistoryItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, dto.AttendanceHistoryItem{
			Date:   dto.LocalDateString(r.Date),
			Status: r.Status,
		})
	}
	return helper.JsonOK(c, "Riwayat absensi", items)
}

/* =======================================================
   Foto profil & bulk import
   ======================================================= */

// PUT /api/students/:id/profile-image
func (sc *StudentController) UploadProfileImage(c *fiber.Ctx) error {
	student, err := sc.loadStudent(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "File image wajib diunggah")
	}

	dir := helperOSS.SchoolScopedDir(student.SchoolID.String(), "students", student.ClassID.String(), "face-images")
	src, err := fh.Open()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Gagal membuka file")
	}
	data := make([]byte, 0, fh.Size)
	buf := bytes.NewBuffer(data)
	if _, err := buf.ReadFrom(src); err != nil {
		src.Close()
		return helper.JsonError(c, fiber.StatusBadRequest, "Gagal membaca file")
	}
	src.Close()

	// key mengikuti roll number agar konsisten dengan import zip
	url, err := sc.OSS.UploadBytesAsWebP(c.UserContext(), buf.Bytes(), student.RollNumber+".webp", dir, helperOSS.FacePhotoOptions())
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		log.Println("[ERROR] Upload foto profil gagal:", err)
		return helper.JsonError(c, fiber.StatusBadGateway, "Gagal mengunggah foto")
	}

	if err := sc.DB.Model(student).Update("profile_image_url", url).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan URL foto")
	}
	student.ProfileImageURL = &url

	// embedding best-effort, kegagalan AI hanya dicatat
	if err := sc.AI.GenerateEmbedding(c.UserContext(), student.ID.String(), student.ClassID.String(), url); err != nil {
		log.Printf("[ERROR] Embedding siswa %s gagal: %v\n", student.ID, err)
	}

	return helper.JsonOK(c, "Foto profil diperbarui", dto.FromStudentModel(student))
}

// POST /api/students/bulk-upload — file .xlsx, form field "file", query/form classId
func (sc *StudentController) BulkUpload(c *fiber.Ctx) error {
	classID, err := sc.classIDFromRequest(c)
	if err != nil {
		return err
	}
	cls, err := sc.findClassroom(c, classID)
	if err != nil {
		return err
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "File excel wajib diunggah")
	}
	if !strings.HasSuffix(strings.ToLower(fh.Filename), ".xlsx") {
		return helper.JsonError(c, fiber.StatusBadRequest, "Format file harus .xlsx")
	}

	src, err := fh.Open()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Gagal membuka file")
	}
	defer src.Close()

	resp, err := service.ImportStudents(sc.DB, cls.SchoolID, cls.ID, src)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	log.Printf("[INFO] Bulk import kelas %s: %d masuk, %d gagal\n", cls.ID, resp.Inserted, resp.Failed)
	return helper.JsonOK(c, "Import siswa selesai", resp)
}

// POST /api/students/bulk-photo-upload — file .zip, form field "file", query/form classId
func (sc *StudentController) BulkPhotoUpload(c *fiber.Ctx) error {
	classID, err := sc.classIDFromRequest(c)
	if err != nil {
		return err
	}
	cls, err := sc.findClassroom(c, classID)
	if err != nil {
		return err
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "File zip wajib diunggah")
	}
	if !strings.HasSuffix(strings.ToLower(fh.Filename), ".zip") {
		return helper.JsonError(c, fiber.StatusBadRequest, "Format file harus .zip")
	}

	src, err := fh.Open()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Gagal membuka file")
	}
	defer src.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(src); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Gagal membaca file")
	}
	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "File zip tidak valid")
	}

	resp := service.ImportPhotosFromZip(c.UserContext(), sc.DB, sc.OSS, sc.AI, cls.SchoolID, cls.ID, zr)
	log.Printf("[INFO] Bulk foto kelas %s: %d sukses, %d dilewati, %d gagal\n", cls.ID, resp.Success, resp.Skipped, resp.Failed)
	return helper.JsonOK(c, "Import foto selesai", resp)
}

func (sc *StudentController) classIDFromRequest(c *fiber.Ctx) (uuid.UUID, error) {
	raw := strings.TrimSpace(c.Query("classId"))
	if raw == "" {
		raw = strings.TrimSpace(c.FormValue("classId"))
	}
	if raw == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "classId wajib diisi")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "classId tidak valid")
	}
	return id, nil
}
