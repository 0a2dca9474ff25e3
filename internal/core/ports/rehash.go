package ports

import (
	"context"

	"github.com/google/uuid"
)

// RehashJob asks for the stored hash of UserID to be upgraded using the
// plaintext password that was just verified at login.
type RehashJob struct {
	UserID   uuid.UUID
	Password string
}

// RehashService upgrades one stored password hash.
type RehashService interface {
	Rehash(ctx context.Context, job RehashJob) error
}

// RehashQueue accepts rehash jobs without blocking the caller. Enqueue
// reports false when the job was dropped.
type RehashQueue interface {
	Enqueue(job RehashJob) bool
}
