// internals/features/school/attendance/service/process_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"markme_backend/internals/features/school/attendance/dto"
	"markme_backend/internals/features/school/attendance/model"
	stdModel "markme_backend/internals/features/school/students/model"
	helper "markme_backend/internals/helpers"
	"markme_backend/internals/helpers/ai"
	helperOSS "markme_backend/internals/helpers/oss"
)

// batas upload foto kelas berjalan bersamaan
const imageUploadConcurrency = 5

var ErrAIUnavailable = errors.New("layanan pengenalan wajah tidak tersedia")

type ProcessService struct {
	DB  *gorm.DB
	OSS *helperOSS.OSSService
	AI  *ai.Client
}

func NewProcessService(db *gorm.DB, oss *helperOSS.OSSService, aiClient *ai.Client) *ProcessService {
	return &ProcessService{DB: db, OSS: oss, AI: aiClient}
}

/* =======================================================
   Session find-or-create
   ======================================================= */

// FindOrCreateSession mencari sesi (class, tanggal). Kalau belum ada dibuat;
// kalah balapan unique constraint → ambil ulang baris pemenang.
func FindOrCreateSession(db *gorm.DB, schoolID, classID, teacherID uuid.UUID, date time.Time) (*model.AttendanceSessionModel, error) {
	date = model.StartOfDay(date)

	var session model.AttendanceSessionModel
	err := db.First(&session, "class_id = ? AND date = ?", classID, date).Error
	if err == nil {
		return &session, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	session = model.AttendanceSessionModel{
		SchoolID:  schoolID,
		ClassID:   classID,
		TeacherID: teacherID,
		Date:      date,
		Status:    model.SessionStatusPending,
	}
	if err := db.Create(&session).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			var winner model.AttendanceSessionModel
			if err2 := db.First(&winner, "class_id = ? AND date = ?", classID, date).Error; err2 != nil {
				return nil, err2
			}
			return &winner, nil
		}
		return nil, err
	}
	return &session, nil
}

/* =======================================================
   Plan helpers (murni, tanpa DB)
   ======================================================= */

// BuildSeedRecords membangun baris default fase 1: semua siswa absen,
// sumber SYSTEM, belum diedit.
func BuildSeedRecords(sessionID uuid.UUID, studentIDs []uuid.UUID) []model.AttendanceRecordModel {
	out := make([]model.AttendanceRecordModel, 0, len(studentIDs))
	for _, sid := range studentIDs {
		out = append(out, model.AttendanceRecordModel{
			SessionID: sessionID,
			StudentID: sid,
			Status:    model.RecordStatusAbsent,
			Source:    model.RecordSourceSystem,
			Edited:    false,
		})
	}
	return out
}

// FilterKnownStudents membuang id dari AI yang bukan anggota kelas
// (atau tidak bisa diparse) sambil menghapus duplikat.
func FilterKnownStudents(classStudents []uuid.UUID, presentRaw []string) []uuid.UUID {
	known := make(map[uuid.UUID]bool, len(classStudents))
	for _, id := range classStudents {
		known[id] = true
	}
	seen := make(map[uuid.UUID]bool, len(presentRaw))
	out := make([]uuid.UUID, 0, len(presentRaw))
	for _, raw := range presentRaw {
		id, err := uuid.Parse(raw)
		if err != nil || !known[id] || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

/* =======================================================
   Proses utama
   ======================================================= */

type ProcessInput struct {
	SchoolID  uuid.UUID
	ClassID   uuid.UUID
	TeacherID uuid.UUID
	SessionID *uuid.UUID
	ImageURLs []string
	Files     []*multipart.FileHeader
}

// Process menjalankan alur lengkap: upload foto, resolve sesi, panggil AI,
// seed + promote record, lalu hitung ulang dari DB.
func (s *ProcessService) Process(ctx context.Context, in ProcessInput) (*dto.ProcessAttendanceResponse, error) {
	// 1) upload file baru (concurrent, gagal satu = batal semua)
	uploaded, err := s.uploadClassPhotos(ctx, in.SchoolID, in.ClassID, in.Files)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadGateway, "Gagal mengunggah foto kelas")
	}
	urls := append(append([]string{}, in.ImageURLs...), uploaded...)
	if len(urls) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Minimal satu foto kelas diperlukan")
	}

	// 2) resolve sesi
	var session *model.AttendanceSessionModel
	if in.SessionID != nil {
		var found model.AttendanceSessionModel
		if err := s.DB.First(&found, "id = ? AND school_id = ?", *in.SessionID, in.SchoolID).Error; err != nil {
			return nil, fiber.NewError(fiber.StatusNotFound, "Sesi tidak ditemukan")
		}
		session = &found
	} else {
		session, err = FindOrCreateSession(s.DB, in.SchoolID, in.ClassID, in.TeacherID, time.Now())
		if err != nil {
			log.Println("[ERROR] Resolve sesi gagal:", err)
			return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal menyiapkan sesi")
		}
	}

	// 3) simpan baris classroom_images untuk foto yang baru diunggah
	if len(uploaded) > 0 {
		images := make([]model.ClassroomImageModel, 0, len(uploaded))
		for _, u := range uploaded {
			images = append(images, model.ClassroomImageModel{SessionID: session.ID, ImageURL: u})
		}
		if err := s.DB.Create(&images).Error; err != nil {
			log.Println("[ERROR] Simpan classroom_images gagal:", err)
		}
	}

	// 4) siswa aktif kelas
	var students []stdModel.StudentModel
	if err := s.DB.Select("id").
		Where("class_id = ? AND is_active = true", in.ClassID).
		Find(&students).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil siswa kelas")
	}
	if len(students) == 0 {
		return &dto.ProcessAttendanceResponse{
			SessionID: session.ID.String(),
			Present:   0,
			Absent:    0,
			Records:   []dto.RecordResponse{},
		}, nil
	}
	studentIDs := make([]uuid.UUID, 0, len(students))
	for _, st := range students {
		studentIDs = append(studentIDs, st.ID)
	}

	// 5) panggil AI; kegagalan = 503, tidak ada record yang disentuh
	presentRaw, err := s.AI.Recognize(ctx, in.ClassID.String(), urls)
	if err != nil {
		log.Println("[ERROR] Recognize gagal:", err)
		return nil, fiber.NewError(fiber.StatusServiceUnavailable, ErrAIUnavailable.Error())
	}
	present := FilterKnownStudents(studentIDs, presentRaw)

	// 6) fase 1: seed default (A/SYSTEM), conflict dibiarkan
	seeds := BuildSeedRecords(session.ID, studentIDs)
	if err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}, {Name: "student_id"}},
		DoNothing: true,
	}).CreateInBatches(&seeds, 200).Error; err != nil {
		log.Println("[ERROR] Seed record gagal:", err)
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal menyimpan record absensi")
	}

	// 7) fase 2: promote hadir, record hasil edit guru tidak disentuh.
	// Tidak ada demote: hilang dari daftar hadir tidak menurunkan P ke A.
	if len(present) > 0 {
		if err := s.DB.Model(&model.AttendanceRecordModel{}).
			Where("session_id = ? AND student_id IN ? AND edited = false", session.ID, present).
			Updates(map[string]interface{}{
				"status": model.RecordStatusPresent,
				"source": model.RecordSourceSystem,
			}).Error; err != nil {
			log.Println("[ERROR] Promote record gagal:", err)
			return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal memperbarui record absensi")
		}
	}

	// 8) hitung ulang dari DB, bukan dari rencana di memori
	return s.Summarize(session.ID)
}

// Summarize menyusun respons dari isi DB terkini.
func (s *ProcessService) Summarize(sessionID uuid.UUID) (*dto.ProcessAttendanceResponse, error) {
	var records []model.AttendanceRecordModel
	if err := s.DB.Preload("Student").
		Where("session_id = ?", sessionID).
		Find(&records).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal membaca record absensi")
	}

	resp := &dto.ProcessAttendanceResponse{
		SessionID: sessionID.String(),
		Records:   dto.FromRecordModels(records),
	}
	resp.Total = len(records)
	for _, r := range records {
		if r.Status == model.RecordStatusPresent {
			resp.Present++
		} else {
			resp.Absent++
		}
	}
	return resp, nil
}

/* =======================================================
   Upload foto kelas
   ======================================================= */

func (s *ProcessService) uploadClassPhotos(ctx context.Context, schoolID, classID uuid.UUID, files []*multipart.FileHeader) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}

	dir := helperOSS.SchoolScopedDir(
		schoolID.String(),
		"attendance",
		classID.String(),
		time.Now().Local().Format("2006-01-02"),
	)

	urls := make([]string, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(imageUploadConcurrency)
	for i, fh := range files {
		i, fh := i, fh
		g.Go(func() error {
			url, err := s.OSS.UploadAsWebP(gctx, fh, dir)
			if err != nil {
				return fmt.Errorf("upload %s: %w", fh.Filename, err)
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}
