package helpers

import (
	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordTooLong is returned by Hash for passwords over 72 bytes.
var ErrPasswordTooLong = bcrypt.ErrPasswordTooLong

// Hasher hashes and verifies passwords with bcrypt. Every hash embeds its
// own random salt and cost, so the same password never hashes twice alike.
type Hasher struct {
	Cost int

	dummy []byte
}

// NewHasher returns a Hasher with cost clamped to bcrypt's valid range.
// A zero or negative cost selects bcrypt.DefaultCost.
func NewHasher(cost int) *Hasher {
	cost = clampCost(cost)
	// Built up front so the first unknown-email login costs the same as the rest.
	dummy, _ := bcrypt.GenerateFromPassword([]byte("dummy-password"), cost)
	return &Hasher{Cost: cost, dummy: dummy}
}

func clampCost(cost int) int {
	switch {
	case cost <= 0:
		return bcrypt.DefaultCost
	case cost < bcrypt.MinCost:
		return bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		return bcrypt.MaxCost
	}
	return cost
}

// Hash hashes the plain text password.
func (h *Hasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.Cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Compare reports whether plain matches hash. A malformed hash is a mismatch.
func (h *Hasher) Compare(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// CompareDummy burns the same work as Compare against a throwaway hash.
// Login calls it for unknown emails so both failure paths cost the same.
func (h *Hasher) CompareDummy(plain string) {
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(plain))
}
