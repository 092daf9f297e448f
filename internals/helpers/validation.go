// internals/helpers/validation.go
package helper

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationMap mengubah error validator menjadi peta field → pesan
// untuk payload JsonValidationError.
func ValidationMap(err error) map[string][]string {
	out := map[string][]string{}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		out["_"] = []string{err.Error()}
		return out
	}
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		var msg string
		switch fe.Tag() {
		case "required":
			msg = field + " wajib diisi"
		case "email":
			msg = "format email tidak valid"
		case "min":
			msg = field + " minimal " + fe.Param() + " karakter"
		case "max":
			msg = field + " maksimal " + fe.Param() + " karakter"
		case "len":
			msg = field + " harus " + fe.Param() + " karakter"
		case "oneof":
			msg = field + " harus salah satu dari: " + fe.Param()
		case "numeric":
			msg = field + " harus angka"
		default:
			msg = field + " tidak valid"
		}
		out[field] = append(out[field], msg)
	}
	return out
}
