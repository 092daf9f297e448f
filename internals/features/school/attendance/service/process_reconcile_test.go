package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"markme_backend/internals/features/school/attendance/model"
	stdModel "markme_backend/internals/features/school/students/model"
	"markme_backend/internals/helpers/ai"
)

func openReconcileDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("buka sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("ambil pool: %v", err)
	}
	// satu koneksi agar :memory: tidak terpecah antar koneksi pool
	sqlDB.SetMaxOpenConns(1)

	ddl := []string{
		`CREATE TABLE students (
			id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
			school_id TEXT NOT NULL,
			class_id TEXT NOT NULL,
			roll_number TEXT NOT NULL,
			name TEXT NOT NULL,
			dob DATETIME,
			gender TEXT,
			profile_image_url TEXT,
			is_active BOOLEAN NOT NULL DEFAULT 1,
			created_at DATETIME,
			updated_at DATETIME,
			UNIQUE (class_id, roll_number)
		)`,
		`CREATE TABLE attendance_sessions (
			id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
			school_id TEXT NOT NULL,
			class_id TEXT NOT NULL,
			teacher_id TEXT NOT NULL,
			date DATETIME NOT NULL,
			status TEXT NOT NULL DEFAULT 'PENDING',
			created_at DATETIME,
			updated_at DATETIME,
			UNIQUE (class_id, date)
		)`,
		`CREATE TABLE attendance_records (
			id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
			session_id TEXT NOT NULL,
			student_id TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'A',
			source TEXT NOT NULL DEFAULT 'SYSTEM',
			confidence REAL,
			edited BOOLEAN NOT NULL DEFAULT 0,
			created_at DATETIME,
			updated_at DATETIME,
			UNIQUE (session_id, student_id)
		)`,
		`CREATE TABLE classroom_images (
			id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
			session_id TEXT NOT NULL,
			image_url TEXT NOT NULL,
			meta TEXT,
			uploaded_at DATETIME
		)`,
	}
	for _, stmt := range ddl {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("ddl gagal: %v", err)
		}
	}
	return db
}

// server AI palsu; daftar hadir bisa diganti antar panggilan
func newRecognizeStub(t *testing.T, present *[]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string][]string{"presentStudentIds": *present})
	}))
}

func seedReconcileClass(t *testing.T, db *gorm.DB) (schoolID, classID uuid.UUID, sess model.AttendanceSessionModel, students []stdModel.StudentModel) {
	t.Helper()
	schoolID, classID = uuid.New(), uuid.New()

	for i, roll := range []string{"001", "002", "003"} {
		st := stdModel.StudentModel{
			ID:         uuid.New(),
			SchoolID:   schoolID,
			ClassID:    classID,
			RollNumber: roll,
			Name:       "Siswa " + roll,
			IsActive:   true,
		}
		if err := db.Create(&st).Error; err != nil {
			t.Fatalf("seed siswa %d: %v", i, err)
		}
		students = append(students, st)
	}

	sess = model.AttendanceSessionModel{
		ID:        uuid.New(),
		SchoolID:  schoolID,
		ClassID:   classID,
		TeacherID: uuid.New(),
		Date:      model.StartOfDay(time.Now()),
		Status:    model.SessionStatusPending,
	}
	if err := db.Create(&sess).Error; err != nil {
		t.Fatalf("seed sesi: %v", err)
	}
	return schoolID, classID, sess, students
}

func TestProcessReconciliation(t *testing.T) {
	db := openReconcileDB(t)
	schoolID, classID, sess, students := seedReconcileClass(t, db)
	s1, s2, s3 := students[0], students[1], students[2]

	present := []string{s1.ID.String(), s3.ID.String()}
	srv := newRecognizeStub(t, &present)
	defer srv.Close()

	svc := &ProcessService{
		DB: db,
		AI: &ai.Client{BaseURL: srv.URL, HTTP: srv.Client()},
	}
	in := ProcessInput{
		SchoolID:  schoolID,
		ClassID:   classID,
		TeacherID: sess.TeacherID,
		SessionID: &sess.ID,
		ImageURLs: []string{"https://cdn.example.com/kelas.webp"},
	}

	// run 1: AI melihat s1 dan s3
	resp, err := svc.Process(context.Background(), in)
	if err != nil {
		t.Fatalf("Process run 1: %v", err)
	}
	if resp.Total != 3 || resp.Present != 2 || resp.Absent != 1 {
		t.Fatalf("run 1: total=%d present=%d absent=%d, want 3/2/1", resp.Total, resp.Present, resp.Absent)
	}

	// guru mengoreksi s2 jadi hadir
	if err := db.Model(&model.AttendanceRecordModel{}).
		Where("session_id = ? AND student_id = ?", sess.ID, s2.ID).
		Updates(map[string]interface{}{
			"status": model.RecordStatusPresent,
			"source": model.RecordSourceTeacher,
			"edited": true,
		}).Error; err != nil {
		t.Fatalf("koreksi guru: %v", err)
	}

	// run 2: AI kini hanya melihat s1. s3 tidak boleh turun ke A (promote-only),
	// koreksi guru atas s2 tidak boleh ditimpa.
	present = []string{s1.ID.String()}
	resp, err = svc.Process(context.Background(), in)
	if err != nil {
		t.Fatalf("Process run 2: %v", err)
	}
	if resp.Total != 3 || resp.Present != 3 || resp.Absent != 0 {
		t.Fatalf("run 2: total=%d present=%d absent=%d, want 3/3/0", resp.Total, resp.Present, resp.Absent)
	}

	var edited model.AttendanceRecordModel
	if err := db.First(&edited, "session_id = ? AND student_id = ?", sess.ID, s2.ID).Error; err != nil {
		t.Fatalf("baca record s2: %v", err)
	}
	if !edited.Edited || edited.Status != model.RecordStatusPresent || edited.Source != model.RecordSourceTeacher {
		t.Errorf("record s2 = status %q source %q edited %v, koreksi guru harus utuh", edited.Status, edited.Source, edited.Edited)
	}

	// run 3: daftar hadir identik → hasil identik, tidak ada record ganda
	resp2, err := svc.Process(context.Background(), in)
	if err != nil {
		t.Fatalf("Process run 3: %v", err)
	}
	if resp2.Total != resp.Total || resp2.Present != resp.Present || resp2.Absent != resp.Absent {
		t.Errorf("run 3 tidak idempoten: %d/%d/%d vs %d/%d/%d",
			resp2.Total, resp2.Present, resp2.Absent, resp.Total, resp.Present, resp.Absent)
	}
	var count int64
	if err := db.Model(&model.AttendanceRecordModel{}).
		Where("session_id = ?", sess.ID).Count(&count).Error; err != nil {
		t.Fatalf("hitung record: %v", err)
	}
	if count != 3 {
		t.Errorf("jumlah record = %d, want 3 (satu per siswa)", count)
	}
}

func TestProcessAIFailureLeavesNoRecords(t *testing.T) {
	db := openReconcileDB(t)
	schoolID, classID, sess, _ := seedReconcileClass(t, db)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := &ProcessService{
		DB: db,
		AI: &ai.Client{BaseURL: srv.URL, HTTP: srv.Client()},
	}
	_, err := svc.Process(context.Background(), ProcessInput{
		SchoolID:  schoolID,
		ClassID:   classID,
		TeacherID: sess.TeacherID,
		SessionID: &sess.ID,
		ImageURLs: []string{"https://cdn.example.com/kelas.webp"},
	})
	if err == nil {
		t.Fatal("AI gagal seharusnya error")
	}

	var count int64
	if err := db.Model(&model.AttendanceRecordModel{}).
		Where("session_id = ?", sess.ID).Count(&count).Error; err != nil {
		t.Fatalf("hitung record: %v", err)
	}
	if count != 0 {
		t.Errorf("jumlah record = %d, AI gagal tidak boleh menulis apa pun", count)
	}
}
