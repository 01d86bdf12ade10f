package utils

import (
	"crypto/rand"
	"encoding/base64"
)

const base36Alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateSecureToken creates a cryptographically secure random token.
func GenerateSecureToken(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// RandomSuffix returns a short lowercase alphanumeric string, used to
// make auto-provisioned usernames unique.
func RandomSuffix(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = base36Alphabet[int(b[i])%len(base36Alphabet)]
	}
	return string(b), nil
}
