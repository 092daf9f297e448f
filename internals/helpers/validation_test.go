package helper

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestValidationMap(t *testing.T) {
	v := validator.New()

	type loginForm struct {
		Email    string `validate:"required,email"`
		Password string `validate:"required,min=8"`
		Otp      string `validate:"required,len=6,numeric"`
	}

	err := v.Struct(loginForm{Email: "bukan-email", Password: "abc", Otp: "12ab"})
	if err == nil {
		t.Fatal("struct tidak valid seharusnya error")
	}

	got := ValidationMap(err)

	if msgs := got["email"]; len(msgs) != 1 || msgs[0] != "format email tidak valid" {
		t.Errorf("email = %v, want pesan format email", msgs)
	}
	if msgs := got["password"]; len(msgs) != 1 || msgs[0] != "password minimal 8 karakter" {
		t.Errorf("password = %v, want pesan minimal 8 karakter", msgs)
	}
	if msgs := got["otp"]; len(msgs) == 0 {
		t.Error("otp harus punya pesan error")
	}
}

func TestValidationMapNonValidatorError(t *testing.T) {
	got := ValidationMap(errors.New("payload rusak"))
	if msgs := got["_"]; len(msgs) != 1 || msgs[0] != "payload rusak" {
		t.Errorf("got %v, want pesan asli di kunci \"_\"", got)
	}
}
