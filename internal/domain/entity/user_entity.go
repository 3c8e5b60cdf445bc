package entity

import (
	"time"
)

// User is the aggregate root for the account domain.
//
// PasswordHash holds a bcrypt hash and VerificationToken the random value
// mailed to the user; neither is ever serialized outward.
type User struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	PasswordHash      string    `json:"-"`
	Role              Role      `json:"role"`
	Status            bool      `json:"status"`
	VerificationToken string    `json:"-"`
	Verified          bool      `json:"verified"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// NewUser returns a user with the account defaults: USER role, active, unverified.
func NewUser(name, email, passwordHash, verificationToken string) *User {
	return &User{
		Name:              name,
		Email:             email,
		PasswordHash:      passwordHash,
		Role:              DefaultRole,
		Status:            true,
		VerificationToken: verificationToken,
		Verified:          false,
	}
}

// ChangeEmail sets the email and clears the verified flag when the address differs.
func (u *User) ChangeEmail(email string) {
	if u.Email != email {
		u.Verified = false
	}
	u.Email = email
}
