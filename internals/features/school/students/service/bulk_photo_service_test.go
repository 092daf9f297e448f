package service

import "testing"

func TestEligiblePhotoEntry(t *testing.T) {
	tests := []struct {
		name       string
		entry      string
		wantStem   string
		wantOK     bool
		wantReason string
	}{
		{"jpg biasa", "001.jpg", "001", true, ""},
		{"jpeg biasa", "002.jpeg", "002", true, ""},
		{"png biasa", "003.png", "003", true, ""},
		{"ekstensi kapital", "004.JPG", "004", true, ""},
		{"di dalam folder", "photos/kelas-a/005.jpg", "005", true, ""},
		{"path windows", "photos\\006.png", "006", true, ""},
		{"stem dengan spasi", " 007 .jpg", "007", true, ""},
		{"direktori", "photos/", "", false, "direktori"},
		{"macosx", "__MACOSX/001.jpg", "", false, "file sistem"},
		{"ds_store", "photos/.DS_Store", "", false, "file sistem"},
		{"dotfile", ".hidden.jpg", "", false, "file sistem"},
		{"bukan gambar", "daftar.txt", "", false, "bukan gambar jpg/jpeg/png"},
		{"tanpa ekstensi", "README", "", false, "bukan gambar jpg/jpeg/png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stem, ok, reason := EligiblePhotoEntry(tt.entry)
			if stem != tt.wantStem || ok != tt.wantOK || reason != tt.wantReason {
				t.Errorf("EligiblePhotoEntry(%q) = (%q, %v, %q), want (%q, %v, %q)",
					tt.entry, stem, ok, reason, tt.wantStem, tt.wantOK, tt.wantReason)
			}
		})
	}
}
