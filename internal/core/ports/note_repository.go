package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/notesapp/notes-api/internal/core/domain"
)

// CategoryRepository persists categories. Update and Delete of a missing id
// fail with a *domain.DatabaseError of kind domain.ErrNoRowsAffected.
type CategoryRepository interface {
	Create(ctx context.Context, category domain.Category) error
	Update(ctx context.Context, category domain.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	// Exists reports whether userID already owns a category called name.
	Exists(ctx context.Context, name string, userID uuid.UUID) (bool, error)
}

// NoteRepository persists notes with the same strict update/delete policy as
// CategoryRepository.
type NoteRepository interface {
	Create(ctx context.Context, note domain.Note) error
	Update(ctx context.Context, note domain.Note) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// NoteCategoryRepository links notes to categories. CreateMany inserts the
// whole batch or nothing.
type NoteCategoryRepository interface {
	Create(ctx context.Context, link domain.NoteCategory) error
	CreateMany(ctx context.Context, links []domain.NoteCategory) error
}
