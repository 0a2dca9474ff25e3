package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/notesapp/notes-api/internal/core/domain"
)

// UserRepository persists users. Find methods return (nil, nil) when no row
// matches; storage failures are returned as *domain.DatabaseError.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	Update(ctx context.Context, user domain.User) error
	// UpdatePassword replaces the hash only while the stored one still equals
	// current. A changed or missing row is reported as ErrNoRowsAffected.
	UpdatePassword(ctx context.Context, id uuid.UUID, current, replacement string, updatedAt time.Time) error
}
