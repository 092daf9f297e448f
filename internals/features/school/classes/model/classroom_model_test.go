package model

import "testing"

func TestDefaultName(t *testing.T) {
	tests := []struct {
		std, division, year string
		want                string
	}{
		{"5", "A", "2026/2027", "5-A (2026/2027)"},
		{"10", "B", "2025/2026", "10-B (2025/2026)"},
	}
	for _, tt := range tests {
		if got := DefaultName(tt.std, tt.division, tt.year); got != tt.want {
			t.Errorf("DefaultName(%q, %q, %q) = %q, want %q", tt.std, tt.division, tt.year, got, tt.want)
		}
	}
}
