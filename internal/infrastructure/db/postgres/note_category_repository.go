package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/notesapp/notes-api/internal/core/domain"
)

var noteCategoryColumns = []string{"note_id", "category_id", "updated_at", "created_at"}

// NoteCategoryRepository implements ports.NoteCategoryRepository.
type NoteCategoryRepository struct {
	db DBTX
}

func NewNoteCategoryRepository(db DBTX) *NoteCategoryRepository {
	return &NoteCategoryRepository{db: db}
}

func (r *NoteCategoryRepository) Create(ctx context.Context, link domain.NoteCategory) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO notes_categories (note_id, category_id, updated_at, created_at)
		 VALUES ($1, $2, $3, $4)`,
		link.NoteID, link.CategoryID, link.UpdatedAt, link.CreatedAt,
	)
	return wrapErr(err)
}

// CreateMany streams the links with COPY, so a single bad reference aborts
// the whole batch.
func (r *NoteCategoryRepository) CreateMany(ctx context.Context, links []domain.NoteCategory) error {
	if len(links) == 0 {
		return nil
	}

	_, err := r.db.CopyFrom(ctx,
		pgx.Identifier{"notes_categories"},
		noteCategoryColumns,
		pgx.CopyFromSlice(len(links), func(i int) ([]any, error) {
			l := links[i]
			return []any{l.NoteID, l.CategoryID, l.UpdatedAt, l.CreatedAt}, nil
		}),
	)
	return wrapErr(err)
}
