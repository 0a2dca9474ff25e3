package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CreateCategoryInput names a new category for UserID.
type CreateCategoryInput struct {
	UserID uuid.UUID
	Name   string
}

// CategoryOutput is the public view of a category; the owner id is omitted.
type CategoryOutput struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CategoryService interface {
	CreateCategory(ctx context.Context, in CreateCategoryInput) (CategoryOutput, error)
}
