package services

import (
	"errors"
	"net/mail"
	"regexp"
	"strings"
)

var (
	ErrAuthEmailInvalid = errors.New("auth email invalid")
	ErrLoginCodeFormat  = errors.New("login code format invalid")
	ErrLoginTokenFormat = errors.New("login token format invalid")
)

var (
	loginCodeFormatRegex   = regexp.MustCompile(`^\d{6}$`)
	loginTokenFormatRegex  = regexp.MustCompile(`^[0-9a-f]{64}$`)
	patientCodeFormatRegex = regexp.MustCompile(`^[A-Za-z0-9]+-[A-Za-z0-9]+$`)
)

func NormalizeAuthEmail(raw string) string {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return ""
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ""
	}
	return email
}

func NormalizeLoginCodeInput(emailRaw string, codeRaw string) (string, string, error) {
	email := NormalizeAuthEmail(emailRaw)
	if email == "" {
		return "", "", ErrAuthEmailInvalid
	}
	code := strings.TrimSpace(codeRaw)
	if !loginCodeFormatRegex.MatchString(code) {
		return "", "", ErrLoginCodeFormat
	}
	return email, code, nil
}

func ValidateLoginTokenFormat(token string) error {
	if !loginTokenFormatRegex.MatchString(token) {
		return ErrLoginTokenFormat
	}
	return nil
}

// LooksLikePatientCode accepts clinic-issued codes such as C001-4827.
func LooksLikePatientCode(code string) bool {
	return patientCodeFormatRegex.MatchString(strings.TrimSpace(code))
}
