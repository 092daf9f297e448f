package model

import (
	"testing"
	"time"
)

func TestStartOfDay(t *testing.T) {
	in := time.Date(2025, 3, 14, 13, 45, 59, 123, time.Local)
	got := StartOfDay(in)

	if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 || got.Nanosecond() != 0 {
		t.Errorf("StartOfDay(%v) = %v, jam belum nol", in, got)
	}
	if got.Year() != 2025 || got.Month() != time.March || got.Day() != 14 {
		t.Errorf("StartOfDay(%v) = %v, tanggal bergeser", in, got)
	}
	if got.Location() != time.Local {
		t.Errorf("StartOfDay harus pakai zona lokal, dapat %v", got.Location())
	}

	// idempotent
	if again := StartOfDay(got); !again.Equal(got) {
		t.Errorf("StartOfDay tidak idempotent: %v != %v", again, got)
	}
}

func TestValidRecordStatus(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"P", true},
		{"A", true},
		{"p", false},
		{"X", false},
		{"", false},
		{"PRESENT", false},
	}
	for _, tt := range tests {
		if got := ValidRecordStatus(tt.in); got != tt.want {
			t.Errorf("ValidRecordStatus(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestValidSessionStatus(t *testing.T) {
	for _, s := range []string{SessionStatusPending, SessionStatusInReview, SessionStatusFinalized} {
		if !ValidSessionStatus(s) {
			t.Errorf("ValidSessionStatus(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"", "pending", "DONE"} {
		if ValidSessionStatus(s) {
			t.Errorf("ValidSessionStatus(%q) = true, want false", s)
		}
	}
}
