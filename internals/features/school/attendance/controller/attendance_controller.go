// internals/features/school/attendance/controller/attendance_controller.go
package controller

import (
	"log"
	"mime/multipart"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"markme_backend/internals/features/school/attendance/dto"
	"markme_backend/internals/features/school/attendance/model"
	"markme_backend/internals/features/school/attendance/service"
	clsModel "markme_backend/internals/features/school/classes/model"
	helper "markme_backend/internals/helpers"
	"markme_backend/internals/helpers/ai"
	helperOSS "markme_backend/internals/helpers/oss"
)

var validate = validator.New()

// maksimal foto kelas per sesi
const maxImagesPerSession = 4

type AttendanceController struct {
	DB      *gorm.DB
	OSS     *helperOSS.OSSService
	AI      *ai.Client
	Process *service.ProcessService
}

func NewAttendanceController(db *gorm.DB, oss *helperOSS.OSSService, aiClient *ai.Client) *AttendanceController {
	return &AttendanceController{
		DB:      db,
		OSS:     oss,
		AI:      aiClient,
		Process: service.NewProcessService(db, oss, aiClient),
	}
}

func (ac *AttendanceController) findClassroom(c *fiber.Ctx, classID uuid.UUID) (*clsModel.ClassroomModel, error) {
	schoolID, err := helper.GetSchoolIDFromToken(c)
	if err != nil {
		return nil, err
	}
	var cls clsModel.ClassroomModel
	if err := ac.DB.First(&cls, "id = ? AND school_id = ?", classID, schoolID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Kelas tidak ditemukan")
	}
	return &cls, nil
}

/* =======================================================
   POST /api/attendance-sessions/process
   ======================================================= */

func (ac *AttendanceController) ProcessAttendance(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.ProcessAttendanceRequest
	var files []*multipart.FileHeader

	if form, err := c.MultipartForm(); err == nil && form != nil {
		req.ClassID = strings.TrimSpace(c.FormValue("class_id"))
		req.SessionID = strings.TrimSpace(c.FormValue("session_id"))
		req.ImageURLs = c.FormValue("image_urls")
		files = form.File["images"]
	} else if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}

	if strings.TrimSpace(req.ClassID) == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "class_id wajib diisi")
	}
	classID, err := uuid.Parse(strings.TrimSpace(req.ClassID))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "class_id tidak valid")
	}
	cls, err := ac.findClassroom(c, classID)
	if err != nil {
		return err
	}

	urls := dto.NormalizeImageURLs(req.ImageURLs)
	if len(urls) == 0 && len(files) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Minimal satu foto kelas diperlukan")
	}

	in := service.ProcessInput{
		SchoolID:  cls.SchoolID,
		ClassID:   cls.ID,
		TeacherID: userID,
		ImageURLs: urls,
		Files:     files,
	}
	if sid := strings.TrimSpace(req.SessionID); sid != "" {
		parsed, err := uuid.Parse(sid)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "session_id tidak valid")
		}
		in.SessionID = &parsed
	}

	resp, err := ac.Process.Process(c.UserContext(), in)
	if err != nil {
		return err
	}

	msg := "Absensi berhasil diproses"
	if resp.Present == 0 && resp.Absent == 0 {
		msg = "Kelas belum punya siswa aktif"
	}
	log.Printf("[INFO] Proses absensi sesi %s: %d hadir, %d absen\n", resp.SessionID, resp.Present, resp.Absent)
	return helper.JsonOK(c, msg, resp)
}

/* =======================================================
   Sessions
   ======================================================= */

// POST /api/attendance-sessions — fetch-or-create per (kelas, tanggal)
func (ac *AttendanceController) CreateSession(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}

	classID, err := uuid.Parse(req.ClassID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "class_id tidak valid")
	}
	cls, err := ac.findClassroom(c, classID)
	if err != nil {
		return err
	}

	date := time.Now()
	if req.Date != "" {
		if t, err := time.ParseInLocation("2006-01-02", req.Date, time.Local); err == nil {
			date = t
		}
	}

	session, err := service.FindOrCreateSession(ac.DB, cls.SchoolID, cls.ID, userID, date)
	if err != nil {
		log.Println("[ERROR] CreateSession gagal:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyiapkan sesi")
	}
	return helper.JsonOK(c, "Sesi siap", dto.FromSessionModel(session))
}

// GET /api/attendance-sessions/:id — sesi + foto + record (dengan siswa)
func (ac *AttendanceController) GetSession(c *fiber.Ctx) error {
	session, err := ac.loadSession(c, c.Params("id"))
	if err != nil {
		return err
	}

	var images []model.ClassroomImageModel
	if err := ac.DB.Where("session_id = ?", session.ID).
		Order("uploaded_at ASC").
		Find(&images).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil foto sesi")
	}

	var records []model.AttendanceRecordModel
	if err := ac.DB.Preload("Student").
		Where("session_id = ?", session.ID).
		Find(&records).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil record sesi")
	}

	return helper.JsonOK(c, "Detail sesi", dto.SessionDetailResponse{
		Session: dto.FromSessionModel(session),
		Images:  dto.FromImageModels(images),
		Records: dto.FromRecordModels(records),
	})
}

func (ac *AttendanceController) loadSession(c *fiber.Ctx, raw string) (*model.AttendanceSessionModel, error) {
	schoolID, err := helper.GetSchoolIDFromToken(c)
	if err != nil {
		return nil, err
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "ID sesi tidak valid")
	}
	var session model.AttendanceSessionModel
	if err := ac.DB.First(&session, "id = ? AND school_id = ?", id, schoolID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Sesi tidak ditemukan")
	}
	return &session, nil
}

/* =======================================================
   Classroom images
   ======================================================= */

// POST /api/classroom-images/:sessionId/images — maksimal 4 foto per sesi
func (ac *AttendanceController) UploadSessionImages(c *fiber.Ctx) error {
	session, err := ac.loadSession(c, c.Params("sessionId"))
	if err != nil {
		return err
	}

	form, err := c.MultipartForm()
	if err != nil || form == nil || len(form.File["images"]) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Minimal satu file images diperlukan")
	}
	files := form.File["images"]

	var existing int64
	if err := ac.DB.Model(&model.ClassroomImageModel{}).
		Where("session_id = ?", session.ID).
		Count(&existing).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memeriksa foto sesi")
	}
	if existing+int64(len(files)) > maxImagesPerSession {
		return helper.JsonError(c, fiber.StatusBadRequest, "Maksimal 4 foto per sesi")
	}

	dir := helperOSS.SchoolScopedDir(
		session.SchoolID.String(),
		"attendance",
		session.ClassID.String(),
		session.Date.Local().Format("2006-01-02"),
	)

	rows := make([]model.ClassroomImageModel, 0, len(files))
	urls := make([]string, 0, len(files))
	for _, fh := range files {
		url, err := ac.OSS.UploadAsWebP(c.UserContext(), fh, dir)
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				return helper.JsonError(c, fe.Code, fe.Message)
			}
			log.Println("[ERROR] Upload foto sesi gagal:", err)
			return helper.JsonError(c, fiber.StatusBadGateway, "Gagal mengunggah foto")
		}

		meta, _ := sonic.Marshal(fiber.Map{
			"original_name": fh.Filename,
			"size":          fh.Size,
		})
		rows = append(rows, model.ClassroomImageModel{
			SessionID: session.ID,
			ImageURL:  url,
			Meta:      meta,
		})
		urls = append(urls, url)
	}

	if err := ac.DB.Create(&rows).Error; err != nil {
		log.Println("[ERROR] Simpan classroom_images gagal:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan foto sesi")
	}

	// trigger pengenalan wajah; kegagalan hanya dicatat, unggahan tetap sukses
	if _, err := ac.AI.Recognize(c.UserContext(), session.ClassID.String(), urls); err != nil {
		log.Println("[ERROR] Trigger recognize setelah upload gagal:", err)
	}

	return helper.JsonCreated(c, "Foto sesi tersimpan", dto.FromImageModels(rows))
}

/* =======================================================
   Records
   ======================================================= */

// PUT /api/attendance-records/:sessionId/records/:recordId
func (ac *AttendanceController) UpdateRecord(c *fiber.Ctx) error {
	session, err := ac.loadSession(c, c.Params("sessionId"))
	if err != nil {
		return err
	}
	recordID, err := uuid.Parse(c.Params("recordId"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID record tidak valid")
	}

	var req dto.UpdateRecordRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if !model.ValidRecordStatus(req.Status) {
		return helper.JsonError(c, fiber.StatusBadRequest, "Status harus P atau A")
	}

	var record model.AttendanceRecordModel
	if err := ac.DB.First(&record, "id = ? AND session_id = ?", recordID, session.ID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Record tidak ditemukan")
	}

	// koreksi guru: edited=true mengunci record dari rekonsiliasi sistem
	if err := ac.DB.Model(&record).Updates(map[string]interface{}{
		"status":     req.Status,
		"source":     model.RecordSourceTeacher,
		"edited":     true,
		"confidence": nil,
	}).Error; err != nil {
		log.Println("[ERROR] UpdateRecord gagal:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memperbarui record")
	}

	ac.DB.Preload("Student").First(&record, "id = ?", record.ID)
	return helper.JsonOK(c, "Record diperbarui", dto.FromRecordModel(&record))
}

// PUT /api/attendance-records/:sessionId/records — bulk; id tak dikenal di-skip diam
func (ac *AttendanceController) BulkUpdateRecords(c *fiber.Ctx) error {
	session, err := ac.loadSession(c, c.Params("sessionId"))
	if err != nil {
		return err
	}

	var req dto.BulkUpdateRecordsRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}

	modified := 0
	for _, item := range req.Records {
		recordID, err := uuid.Parse(item.RecordID)
		if err != nil {
			continue
		}
		res := ac.DB.Model(&model.AttendanceRecordModel{}).
			Where("id = ? AND session_id = ?", recordID, session.ID).
			Updates(map[string]interface{}{
				"status":     item.Status,
				"source":     model.RecordSourceTeacher,
				"edited":     true,
				"confidence": nil,
			})
		if res.Error != nil {
			log.Println("[ERROR] BulkUpdateRecords item gagal:", res.Error)
			continue
		}
		modified += int(res.RowsAffected)
	}

	return helper.JsonOK(c, "Record diperbarui", fiber.Map{"modified": modified})
}
