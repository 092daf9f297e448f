package dto

import (
	"reflect"
	"testing"
)

func TestNormalizeImageURLs(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want []string
	}{
		{
			name: "nil",
			in:   nil,
			want: []string{},
		},
		{
			name: "string tunggal",
			in:   "https://cdn.example.com/a.webp",
			want: []string{"https://cdn.example.com/a.webp"},
		},
		{
			name: "string kosong",
			in:   "   ",
			want: []string{},
		},
		{
			name: "string berisi JSON array",
			in:   `["https://cdn.example.com/a.webp","https://cdn.example.com/b.webp"]`,
			want: []string{"https://cdn.example.com/a.webp", "https://cdn.example.com/b.webp"},
		},
		{
			name: "JSON array dengan entri kosong",
			in:   `["https://cdn.example.com/a.webp",""]`,
			want: []string{"https://cdn.example.com/a.webp"},
		},
		{
			name: "JSON array rusak diperlakukan sebagai string biasa",
			in:   `["broken`,
			want: []string{`["broken`},
		},
		{
			name: "slice string",
			in:   []string{" https://x/1.jpg ", "", "https://x/2.jpg"},
			want: []string{"https://x/1.jpg", "https://x/2.jpg"},
		},
		{
			name: "slice any campuran",
			in:   []any{"https://x/1.jpg", 42, nil, "https://x/2.jpg"},
			want: []string{"https://x/1.jpg", "https://x/2.jpg"},
		},
		{
			name: "tipe tak dikenal",
			in:   123,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeImageURLs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeImageURLs(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
