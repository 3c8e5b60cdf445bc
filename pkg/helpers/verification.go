package helpers

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
)

const verificationTokenBytes = 32

// NewVerificationToken returns a random URL-safe token proving control of an email address.
func NewVerificationToken() (string, error) {
	b := make([]byte, verificationTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// TokensEqual compares two tokens in constant time.
func TokensEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
