package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/notesapp/notes-api/internal/core/domain"
)

// NoteRepository implements ports.NoteRepository.
type NoteRepository struct {
	db DBTX
}

func NewNoteRepository(db DBTX) *NoteRepository {
	return &NoteRepository{db: db}
}

func (r *NoteRepository) Create(ctx context.Context, n domain.Note) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO notes (id, user_id, title, content, updated_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		n.ID, n.UserID, n.Title, n.Content, n.UpdatedAt, n.CreatedAt,
	)
	return wrapErr(err)
}

func (r *NoteRepository) Update(ctx context.Context, n domain.Note) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE notes
		 SET user_id = $2, title = $3, content = $4, updated_at = $5
		 WHERE id = $1`,
		n.ID, n.UserID, n.Title, n.Content, n.UpdatedAt,
	)
	if err != nil {
		return wrapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return errNoRowsAffected()
	}
	return nil
}

func (r *NoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return wrapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return errNoRowsAffected()
	}
	return nil
}
