package validators

import (
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

const (
	minPasswordLength = 8
	passwordSpecials  = "@$!%*?&"
)

// PasswordStrong reports whether value has the minimum length and at least one
// uppercase letter, lowercase letter, digit and special character.
func PasswordStrong(value string) bool {
	if len(value) < minPasswordLength {
		return false
	}
	var upper, lower, digit, special bool
	for _, r := range value {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}
	return upper && lower && digit && special
}

func validatePassword(fl validator.FieldLevel) bool {
	return PasswordStrong(fl.Field().String())
}
