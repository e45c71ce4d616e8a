package auth

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// ErrPasswordTooLong is returned by HashPassword for passwords over
// MaxPasswordBytes.
var ErrPasswordTooLong = bcrypt.ErrPasswordTooLong

// RefreshTokenLength is the number of characters in a refresh token.
const RefreshTokenLength = 256

const refreshAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// HashPassword returns a bcrypt hash for the provided plaintext.
func HashPassword(password string) (string, error) {
	// DefaultCost is 10 rounds
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedPassword), nil
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func CheckPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// NewRefreshToken returns a random alphanumeric token of RefreshTokenLength
// characters.
func NewRefreshToken() (string, error) {
	// 248 is the largest multiple of 62 below 256; higher bytes are rejected
	// so every character is equally likely.
	const limit = 248

	out := make([]byte, 0, RefreshTokenLength)
	buf := make([]byte, RefreshTokenLength)
	for len(out) < RefreshTokenLength {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			out = append(out, refreshAlphabet[int(b)%len(refreshAlphabet)])
			if len(out) == RefreshTokenLength {
				break
			}
		}
	}
	return string(out), nil
}
