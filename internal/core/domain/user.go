package domain

import (
	"time"

	"github.com/google/uuid"
)

// User models an account holder. Password always carries a hash once the
// value leaves the service layer.
type User struct {
	ID        uuid.UUID
	Email     string
	Password  string
	FirstName string
	LastName  string
	UpdatedAt time.Time
	CreatedAt time.Time
}

// NewUser builds a user with a fresh id and both timestamps set to now.
func NewUser(email, passwordHash, firstName, lastName string, now time.Time) User {
	return User{
		ID:        uuid.New(),
		Email:     email,
		Password:  passwordHash,
		FirstName: firstName,
		LastName:  lastName,
		UpdatedAt: now,
		CreatedAt: now,
	}
}
