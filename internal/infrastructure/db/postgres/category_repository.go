package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/notesapp/notes-api/internal/core/domain"
)

// CategoryRepository implements ports.CategoryRepository.
type CategoryRepository struct {
	db DBTX
}

func NewCategoryRepository(db DBTX) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, c domain.Category) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO categories (id, user_id, name, updated_at, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.UserID, c.Name, c.UpdatedAt, c.CreatedAt,
	)
	return wrapErr(err)
}

func (r *CategoryRepository) Update(ctx context.Context, c domain.Category) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE categories
		 SET user_id = $2, name = $3, updated_at = $4
		 WHERE id = $1`,
		c.ID, c.UserID, c.Name, c.UpdatedAt,
	)
	if err != nil {
		return wrapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return errNoRowsAffected()
	}
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return wrapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return errNoRowsAffected()
	}
	return nil
}

func (r *CategoryRepository) Exists(ctx context.Context, name string, userID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM categories WHERE user_id = $1 AND name = $2)`,
		userID, name,
	).Scan(&exists)
	if err != nil {
		return false, wrapErr(err)
	}
	return exists, nil
}
