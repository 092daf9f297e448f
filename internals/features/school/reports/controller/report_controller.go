// internals/features/school/reports/controller/report_controller.go
package controller

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	attDto "markme_backend/internals/features/school/attendance/dto"
	attModel "markme_backend/internals/features/school/attendance/model"
	clsModel "markme_backend/internals/features/school/classes/model"
	stdModel "markme_backend/internals/features/school/students/model"
	helper "markme_backend/internals/helpers"
)

// warna fill Excel: hadir hijau muda, absen merah muda
const (
	fillPresent = "FFC6EFCE"
	fillAbsent  = "FFFFC7CE"
)

type ReportController struct {
	DB *gorm.DB
}

func NewReportController(db *gorm.DB) *ReportController {
	return &ReportController{DB: db}
}

/* =======================================================
   GET /api/reports/monthly?classId=&month=&year=
   GET /api/reports/monthly/:classId/:date   (date = YYYY-MM)
   ======================================================= */

func (rc *ReportController) MonthlyReport(c *fiber.Ctx) error {
	schoolID, err := helper.GetSchoolIDFromToken(c)
	if err != nil {
		return err
	}

	classID, year, month, err := parseMonthlyParams(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	var cls clsModel.ClassroomModel
	if err := rc.DB.First(&cls, "id = ? AND school_id = ?", classID, schoolID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Kelas tidak ditemukan")
	}

	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	monthEnd := monthStart.AddDate(0, 1, 0)

	var sessions []attModel.AttendanceSessionModel
	if err := rc.DB.Where("class_id = ? AND date >= ? AND date < ?", cls.ID, monthStart, monthEnd).
		Order("date ASC").
		Find(&sessions).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil sesi")
	}
	if len(sessions) == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Tidak ada sesi absensi pada bulan ini")
	}

	var students []stdModel.StudentModel
	if err := rc.DB.Where("class_id = ?", cls.ID).
		Order("roll_number ASC").
		Find(&students).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil siswa")
	}

	sessionIDs := make([]uuid.UUID, 0, len(sessions))
	for _, s := range sessions {
		sessionIDs = append(sessionIDs, s.ID)
	}
	var records []attModel.AttendanceRecordModel
	if err := rc.DB.Where("session_id IN ?", sessionIDs).Find(&records).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil record")
	}

	// (session, student) → status
	statusByKey := make(map[string]string, len(records))
	for _, r := range records {
		statusByKey[r.SessionID.String()+"|"+r.StudentID.String()] = r.Status
	}

	buf, err := buildMonthlyWorkbook(cls.Name, sessions, students, statusByKey)
	if err != nil {
		log.Println("[ERROR] Susun workbook gagal:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyusun laporan")
	}

	filename := fmt.Sprintf("attendance_%s_%04d-%02d.xlsx", strings.ReplaceAll(cls.Name, " ", "_"), year, month)
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Send(buf)
}

func parseMonthlyParams(c *fiber.Ctx) (uuid.UUID, int, int, error) {
	rawClass := strings.TrimSpace(c.Params("classId"))
	if rawClass == "" {
		rawClass = strings.TrimSpace(c.Query("classId"))
	}
	classID, err := uuid.Parse(rawClass)
	if err != nil {
		return uuid.Nil, 0, 0, fmt.Errorf("classId tidak valid")
	}

	// bentuk path: /monthly/:classId/:date dengan date YYYY-MM
	if rawDate := strings.TrimSpace(c.Params("date")); rawDate != "" {
		t, err := time.Parse("2006-01", rawDate)
		if err != nil {
			return uuid.Nil, 0, 0, fmt.Errorf("date harus berformat YYYY-MM")
		}
		return classID, t.Year(), int(t.Month()), nil
	}

	year, err := strconv.Atoi(strings.TrimSpace(c.Query("year")))
	if err != nil || year < 2000 || year > 2100 {
		return uuid.Nil, 0, 0, fmt.Errorf("year tidak valid")
	}
	month, err := strconv.Atoi(strings.TrimSpace(c.Query("month")))
	if err != nil || month < 1 || month > 12 {
		return uuid.Nil, 0, 0, fmt.Errorf("month tidak valid")
	}
	return classID, year, month, nil
}

// buildMonthlyWorkbook menyusun matriks siswa × tanggal sesi.
func buildMonthlyWorkbook(
	className string,
	sessions []attModel.AttendanceSessionModel,
	students []stdModel.StudentModel,
	statusByKey map[string]string,
) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Attendance"
	f.SetSheetName("Sheet1", sheet)

	presentStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{fillPresent}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}
	absentStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{fillAbsent}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	// header
	f.SetCellValue(sheet, "A1", "Roll No")
	f.SetCellValue(sheet, "B1", "Name")
	for i, s := range sessions {
		col, err := excelize.ColumnNumberToName(i + 3)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(sheet, col+"1", s.Date.Local().Format("02 Jan"))
	}

	for rowIdx, st := range students {
		row := rowIdx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), st.RollNumber)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), st.Name)

		for i, s := range sessions {
			col, err := excelize.ColumnNumberToName(i + 3)
			if err != nil {
				return nil, err
			}
			cell := fmt.Sprintf("%s%d", col, row)
			status, ok := statusByKey[s.ID.String()+"|"+st.ID.String()]
			if !ok {
				// sesi lebih tua dari siswa: kosong
				continue
			}
			f.SetCellValue(sheet, cell, status)
			if status == attModel.RecordStatusPresent {
				f.SetCellStyle(sheet, cell, cell, presentStyle)
			} else {
				f.SetCellStyle(sheet, cell, cell, absentStyle)
			}
		}
	}

	f.SetColWidth(sheet, "B", "B", 28)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

/* =======================================================
   GET /api/reports/images/:id — metadata satu foto sesi
   ======================================================= */

func (rc *ReportController) GetImage(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID foto tidak valid")
	}
	var img attModel.ClassroomImageModel
	if err := rc.DB.First(&img, "id = ?", id).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Foto tidak ditemukan")
	}
	return helper.JsonOK(c, "Metadata foto", attDto.FromImageModel(&img))
}

/* =======================================================
   GET /api/reports/sessions/:sessionId/summary
   ======================================================= */

func (rc *ReportController) SessionSummary(c *fiber.Ctx) error {
	schoolID, err := helper.GetSchoolIDFromToken(c)
	if err != nil {
		return err
	}
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID sesi tidak valid")
	}

	var session attModel.AttendanceSessionModel
	if err := rc.DB.First(&session, "id = ? AND school_id = ?", sessionID, schoolID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Sesi tidak ditemukan")
	}

	var total, present int64
	if err := rc.DB.Model(&attModel.AttendanceRecordModel{}).
		Where("session_id = ?", session.ID).
		Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung record")
	}
	if err := rc.DB.Model(&attModel.AttendanceRecordModel{}).
		Where("session_id = ? AND status = ?", session.ID, attModel.RecordStatusPresent).
		Count(&present).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung record")
	}

	return helper.JsonOK(c, "Ringkasan sesi", fiber.Map{
		"session_id": session.ID,
		"total":      total,
		"present":    present,
		"absent":     total - present,
	})
}
