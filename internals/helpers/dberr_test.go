package helper

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	pgDup := &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
	pgOther := &pgconn.PgError{Code: "23503", Message: "foreign key violation"}

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"pg error 23505", pgDup, true},
		{"pg error 23505 dibungkus", fmt.Errorf("create student: %w", pgDup), true},
		{"pg error kode lain", pgOther, false},
		{"fallback duplicate key", errors.New("ERROR: duplicate key value"), true},
		{"fallback unique constraint", errors.New("violates unique constraint \"uq_student_roll\""), true},
		{"error biasa", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUniqueViolation(tt.err); got != tt.want {
				t.Errorf("IsUniqueViolation(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
