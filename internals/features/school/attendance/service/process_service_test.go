package service

import (
	"testing"

	"github.com/google/uuid"

	"markme_backend/internals/features/school/attendance/model"
)

func TestBuildSeedRecords(t *testing.T) {
	sessionID := uuid.New()
	students := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	seeds := BuildSeedRecords(sessionID, students)
	if len(seeds) != len(students) {
		t.Fatalf("jumlah seed = %d, want %d", len(seeds), len(students))
	}
	for i, s := range seeds {
		if s.SessionID != sessionID {
			t.Errorf("seed[%d].SessionID = %v, want %v", i, s.SessionID, sessionID)
		}
		if s.StudentID != students[i] {
			t.Errorf("seed[%d].StudentID = %v, want %v", i, s.StudentID, students[i])
		}
		if s.Status != model.RecordStatusAbsent {
			t.Errorf("seed[%d].Status = %q, want %q", i, s.Status, model.RecordStatusAbsent)
		}
		if s.Source != model.RecordSourceSystem {
			t.Errorf("seed[%d].Source = %q, want %q", i, s.Source, model.RecordSourceSystem)
		}
		if s.Edited {
			t.Errorf("seed[%d].Edited = true, want false", i)
		}
		if s.Confidence != nil {
			t.Errorf("seed[%d].Confidence = %v, want nil", i, s.Confidence)
		}
	}

	if got := BuildSeedRecords(sessionID, nil); len(got) != 0 {
		t.Errorf("seed kelas kosong = %d baris, want 0", len(got))
	}
}

func TestFilterKnownStudents(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	classStudents := []uuid.UUID{a, b}

	tests := []struct {
		name string
		raw  []string
		want []uuid.UUID
	}{
		{
			name: "semua dikenal",
			raw:  []string{a.String(), b.String()},
			want: []uuid.UUID{a, b},
		},
		{
			name: "id luar kelas dibuang",
			raw:  []string{a.String(), c.String()},
			want: []uuid.UUID{a},
		},
		{
			name: "id rusak dibuang",
			raw:  []string{"not-a-uuid", b.String()},
			want: []uuid.UUID{b},
		},
		{
			name: "duplikat dihapus",
			raw:  []string{a.String(), a.String(), b.String()},
			want: []uuid.UUID{a, b},
		},
		{
			name: "daftar kosong",
			raw:  nil,
			want: []uuid.UUID{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterKnownStudents(classStudents, tt.raw)
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d (%v)", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("got[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}
