package security

import (
	"fmt"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

var pinPattern = regexp.MustCompile(`^\d{4,}$`)

// HashSecret hashes a password or PIN with bcrypt
func HashSecret(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash secret: %w", err)
	}
	return string(digest), nil
}

// CheckSecret compares a plaintext password or PIN against its bcrypt
// digest
func CheckSecret(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

// ValidPinFormat reports whether a candidate PIN is at least four
// digits and nothing else
func ValidPinFormat(pin string) bool {
	return pinPattern.MatchString(pin)
}
