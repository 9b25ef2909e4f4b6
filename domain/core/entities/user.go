package entities

import (
	"time"

	pkgerrors "meetsync/pkg/errors"
)

// User is an authenticated principal. The password hash never leaves the
// process; the JSON shape matches what the identity endpoints return.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NewUser creates a user record. Identity is assigned later by the store.
func NewUser(name, email, passwordHash string, now time.Time) (User, error) {
	if name == "" {
		return User{}, pkgerrors.NewValidationError("name is required")
	}
	if email == "" {
		return User{}, pkgerrors.NewValidationError("email is required")
	}
	if passwordHash == "" {
		return User{}, pkgerrors.NewValidationError("password is required")
	}

	return User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
	}, nil
}

// Clone returns a copy of the user record
func (u User) Clone() User {
	return u
}
