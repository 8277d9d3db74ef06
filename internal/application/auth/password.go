package auth

import (
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/tasktrack/platform/internal/domain"
)

const (
	minPasswordLength = 8
	// bcrypt silently truncates beyond 72 bytes; reject instead of truncating
	// so a password longer than the hash can actually represent never passes
	// signup with a false sense of having been fully checked.
	maxPasswordBytes = 72
	maxEmailLength   = 255
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" || len(email) > maxEmailLength || !emailPattern.MatchString(email) {
		return &domain.ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return &domain.ValidationError{Field: "password", Message: "password must be at least 8 characters"}
	}
	if len(password) > maxPasswordBytes {
		return &domain.ValidationError{Field: "password", Message: "password must be at most 72 bytes"}
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func verifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
