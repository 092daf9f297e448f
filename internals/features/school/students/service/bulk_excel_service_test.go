package service

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

func buildSheet(t *testing.T, rows [][]string) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, cols := range rows {
		for j, val := range cols {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("koordinat sel: %v", err)
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				t.Fatalf("set sel %s: %v", cell, err)
			}
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("tulis buffer: %v", err)
	}
	return buf
}

func TestParseStudentSheet(t *testing.T) {
	buf := buildSheet(t, [][]string{
		{"Name", "Roll Number"},
		{"Aisyah", "001"},
		{"", ""},
		{"Budi", "002"},
		{"  Cici  ", " 003 "},
	})

	rows, err := ParseStudentSheet(buf)
	if err != nil {
		t.Fatalf("ParseStudentSheet: %v", err)
	}
	want := []ExcelRow{
		{Row: 2, Name: "Aisyah", RollNumber: "001"},
		{Row: 4, Name: "Budi", RollNumber: "002"},
		{Row: 5, Name: "Cici", RollNumber: "003"},
	}
	if len(rows) != len(want) {
		t.Fatalf("jumlah baris = %d, want %d (%v)", len(rows), len(want), rows)
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("rows[%d] = %+v, want %+v", i, rows[i], want[i])
		}
	}
}

func TestParseStudentSheetInvalidFile(t *testing.T) {
	if _, err := ParseStudentSheet(bytes.NewReader([]byte("bukan excel"))); err == nil {
		t.Fatal("file rusak seharusnya error")
	}
}

func TestValidateRows(t *testing.T) {
	rows := []ExcelRow{
		{Row: 2, Name: "Aisyah", RollNumber: "001"},
		{Row: 3, Name: "", RollNumber: "002"},
		{Row: 4, Name: "Budi", RollNumber: ""},
		{Row: 5, Name: "Cici", RollNumber: "003"},
		{Row: 6, Name: "Dedi", RollNumber: "001"},
		{Row: 7, Name: "Eka", RollNumber: "010"},
	}
	existing := map[string]bool{"003": true}

	valid, results := ValidateRows(rows, existing)

	if len(valid) != 2 {
		t.Fatalf("baris valid = %d, want 2 (%v)", len(valid), valid)
	}
	if valid[0].RollNumber != "001" || valid[1].RollNumber != "010" {
		t.Errorf("baris valid = %v, want roll 001 dan 010", valid)
	}
	if len(results) != len(rows) {
		t.Fatalf("jumlah result = %d, want %d", len(results), len(rows))
	}

	wantErrors := map[int]string{
		3: "name wajib diisi",
		4: "roll_number wajib diisi",
		5: "roll_number sudah terdaftar di kelas ini",
		6: "roll_number duplikat dengan baris 2",
	}
	for _, r := range results {
		wantErr, shouldFail := wantErrors[r.Row]
		if shouldFail {
			if r.Success {
				t.Errorf("baris %d seharusnya gagal", r.Row)
			}
			if r.Error != wantErr {
				t.Errorf("baris %d error = %q, want %q", r.Row, r.Error, wantErr)
			}
		} else if !r.Success {
			t.Errorf("baris %d seharusnya sukses, error = %q", r.Row, r.Error)
		}
	}
}
