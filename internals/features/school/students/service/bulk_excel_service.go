// internals/features/school/students/service/bulk_excel_service.go
package service

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"markme_backend/internals/features/school/students/dto"
	"markme_backend/internals/features/school/students/model"
)

// ExcelRow adalah satu baris kandidat siswa dari sheet import.
// Row memakai nomor baris asli file (header = baris 1).
type ExcelRow struct {
	Row        int
	Name       string
	RollNumber string
}

// ParseStudentSheet membaca sheet pertama: kolom A = name, kolom B = roll_number.
// Baris pertama dianggap header dan dilewati. Baris yang seluruhnya kosong diabaikan.
func ParseStudentSheet(r io.Reader) ([]ExcelRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("file excel tidak valid: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("file excel tidak punya sheet")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}

	out := make([]ExcelRow, 0, len(rows))
	for i, cols := range rows {
		if i == 0 {
			continue
		}
		get := func(idx int) string {
			if idx < len(cols) {
				return strings.TrimSpace(cols[idx])
			}
			return ""
		}
		name, roll := get(0), get(1)
		if name == "" && roll == "" {
			continue
		}
		out = append(out, ExcelRow{Row: i + 1, Name: name, RollNumber: roll})
	}
	return out, nil
}

// ValidateRows memisahkan baris valid dari yang gagal. existingRolls berisi
// roll number yang sudah ada di kelas; duplikat di dalam file juga ditolak.
func ValidateRows(rows []ExcelRow, existingRolls map[string]bool) (valid []ExcelRow, results []dto.BulkRowResult) {
	seen := map[string]int{}
	for _, r := range rows {
		res := dto.BulkRowResult{Row: r.Row, Name: r.Name, Roll: r.RollNumber}
		switch {
		case r.Name == "":
			res.Error = "name wajib diisi"
		case r.RollNumber == "":
			res.Error = "roll_number wajib diisi"
		case existingRolls[r.RollNumber]:
			res.Error = "roll_number sudah terdaftar di kelas ini"
		case seen[r.RollNumber] > 0:
			res.Error = fmt.Sprintf("roll_number duplikat dengan baris %d", seen[r.RollNumber])
		default:
			res.Success = true
			seen[r.RollNumber] = r.Row
			valid = append(valid, r)
		}
		results = append(results, res)
	}
	return valid, results
}

// ImportStudents menjalankan import penuh: parse, validasi terhadap DB,
// lalu satu batch insert tak berurut. Baris gagal tidak membatalkan sisanya.
func ImportStudents(db *gorm.DB, schoolID, classID uuid.UUID, r io.Reader) (*dto.BulkUploadResponse, error) {
	rows, err := ParseStudentSheet(r)
	if err != nil {
		return nil, err
	}

	var existing []model.StudentModel
	if err := db.Select("roll_number").
		Where("class_id = ?", classID).
		Find(&existing).Error; err != nil {
		return nil, err
	}
	existingRolls := make(map[string]bool, len(existing))
	for _, s := range existing {
		existingRolls[s.RollNumber] = true
	}

	valid, results := ValidateRows(rows, existingRolls)

	if len(valid) > 0 {
		students := make([]model.StudentModel, 0, len(valid))
		for _, v := range valid {
			students = append(students, model.StudentModel{
				SchoolID:   schoolID,
				ClassID:    classID,
				RollNumber: v.RollNumber,
				Name:       v.Name,
				IsActive:   true,
			})
		}
		if err := db.CreateInBatches(&students, 200).Error; err != nil {
			// insert batch gagal total: tandai semua baris valid sebagai gagal
			for i := range results {
				if results[i].Success {
					results[i].Success = false
					results[i].Error = "insert gagal: " + err.Error()
				}
			}
			valid = nil
		}
	}

	resp := &dto.BulkUploadResponse{Results: results}
	for _, r := range results {
		if r.Success {
			resp.Inserted++
		} else {
			resp.Failed++
		}
	}
	return resp, nil
}
