package controller

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	attModel "markme_backend/internals/features/school/attendance/model"
	stdModel "markme_backend/internals/features/school/students/model"
)

func TestBuildMonthlyWorkbook(t *testing.T) {
	s1 := attModel.AttendanceSessionModel{
		ID:   uuid.New(),
		Date: time.Date(2026, 8, 3, 0, 0, 0, 0, time.Local),
	}
	s2 := attModel.AttendanceSessionModel{
		ID:   uuid.New(),
		Date: time.Date(2026, 8, 4, 0, 0, 0, 0, time.Local),
	}
	sessions := []attModel.AttendanceSessionModel{s1, s2}

	aisyah := stdModel.StudentModel{ID: uuid.New(), RollNumber: "001", Name: "Aisyah"}
	budi := stdModel.StudentModel{ID: uuid.New(), RollNumber: "002", Name: "Budi"}
	students := []stdModel.StudentModel{aisyah, budi}

	statusByKey := map[string]string{
		s1.ID.String() + "|" + aisyah.ID.String(): attModel.RecordStatusPresent,
		s2.ID.String() + "|" + aisyah.ID.String(): attModel.RecordStatusAbsent,
		s1.ID.String() + "|" + budi.ID.String():   attModel.RecordStatusAbsent,
		// budi belum punya record di sesi kedua: sel harus kosong
	}

	raw, err := buildMonthlyWorkbook("5-A (2026/2027)", sessions, students, statusByKey)
	if err != nil {
		t.Fatalf("buildMonthlyWorkbook: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("buka hasil workbook: %v", err)
	}
	defer f.Close()

	const sheet = "Attendance"
	cell := func(ref string) string {
		v, err := f.GetCellValue(sheet, ref)
		if err != nil {
			t.Fatalf("baca sel %s: %v", ref, err)
		}
		return v
	}

	// header
	if got := cell("A1"); got != "Roll No" {
		t.Errorf("A1 = %q, want \"Roll No\"", got)
	}
	if got := cell("B1"); got != "Name" {
		t.Errorf("B1 = %q, want \"Name\"", got)
	}
	if got := cell("C1"); got != "03 Aug" {
		t.Errorf("C1 = %q, want \"03 Aug\"", got)
	}
	if got := cell("D1"); got != "04 Aug" {
		t.Errorf("D1 = %q, want \"04 Aug\"", got)
	}

	// baris siswa urut roll
	if got := cell("A2"); got != "001" {
		t.Errorf("A2 = %q, want \"001\"", got)
	}
	if got := cell("B2"); got != "Aisyah" {
		t.Errorf("B2 = %q, want \"Aisyah\"", got)
	}
	if got := cell("C2"); got != attModel.RecordStatusPresent {
		t.Errorf("C2 = %q, want %q", got, attModel.RecordStatusPresent)
	}
	if got := cell("D2"); got != attModel.RecordStatusAbsent {
		t.Errorf("D2 = %q, want %q", got, attModel.RecordStatusAbsent)
	}
	if got := cell("C3"); got != attModel.RecordStatusAbsent {
		t.Errorf("C3 = %q, want %q", got, attModel.RecordStatusAbsent)
	}
	if got := cell("D3"); got != "" {
		t.Errorf("D3 = %q, want sel kosong untuk siswa tanpa record", got)
	}
}
