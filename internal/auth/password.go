package auth

import (
	"errors"
	"regexp"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

var ErrWeakPassword = errors.New("password must be at least 8 characters long and contain an uppercase letter, a lowercase letter, a number, and a special character")

var (
	hasUpper   = regexp.MustCompile(`[A-Z]`)
	hasLower   = regexp.MustCompile(`[a-z]`)
	hasNumber  = regexp.MustCompile(`[0-9]`)
	hasSpecial = regexp.MustCompile(`[^A-Za-z0-9]`)
)

// ValidatePassword enforces the signup password policy. Length is counted in
// characters, not bytes.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < 8 ||
		!hasUpper.MatchString(password) ||
		!hasLower.MatchString(password) ||
		!hasNumber.MatchString(password) ||
		!hasSpecial.MatchString(password) {
		return ErrWeakPassword
	}
	return nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
