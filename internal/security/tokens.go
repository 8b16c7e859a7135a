package security

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

const (
	digitAlphabet = "0123456789"
	hexAlphabet   = "0123456789abcdef"

	LoginCodeLength  = 6
	LoginTokenLength = 64
)

var (
	errNegativeLength = errors.New("length must be non-negative")
	errEmptyAlphabet  = errors.New("alphabet must not be empty")
)

// RandomString draws each character uniformly from alphabet using crypto/rand.
func RandomString(length int, alphabet string) (string, error) {
	switch {
	case length < 0:
		return "", errNegativeLength
	case length == 0:
		return "", nil
	case alphabet == "":
		return "", errEmptyAlphabet
	}

	size := big.NewInt(int64(len(alphabet)))
	out := make([]byte, 0, length)
	for len(out) < length {
		index, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", err
		}
		out = append(out, alphabet[index.Int64()])
	}
	return string(out), nil
}

// NewLoginCode returns the six-digit code a patient types in.
func NewLoginCode() (string, error) {
	return RandomString(LoginCodeLength, digitAlphabet)
}

// NewLoginToken returns the 64-hex value carried by the emailed link.
func NewLoginToken() (string, error) {
	return RandomString(LoginTokenLength, hexAlphabet)
}

func HashLoginCode(code string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func LoginCodeMatches(hash string, code string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
}

// TokensEqual compares secrets without leaking their common prefix length.
func TokensEqual(expected string, provided string) bool {
	if expected == "" || provided == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(provided)) == 1
}
