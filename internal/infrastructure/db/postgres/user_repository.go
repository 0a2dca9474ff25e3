package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/notesapp/notes-api/internal/core/domain"
)

const userColumns = `id, email, password, first_name, last_name, updated_at, created_at`

// UserRepository implements ports.UserRepository.
type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.ID, user.Email, user.Password, user.FirstName, user.LastName, user.UpdatedAt, user.CreatedAt,
	)
	return wrapErr(err)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// Update rewrites every mutable column. id and created_at never change.
func (r *UserRepository) Update(ctx context.Context, user domain.User) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users
		 SET email = $2, password = $3, first_name = $4, last_name = $5, updated_at = $6
		 WHERE id = $1`,
		user.ID, user.Email, user.Password, user.FirstName, user.LastName, user.UpdatedAt,
	)
	if err != nil {
		return wrapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return errNoRowsAffected()
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, current, replacement string, updatedAt time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET password = $2, updated_at = $3 WHERE id = $1 AND password = $4`,
		id, replacement, updatedAt, current,
	)
	if err != nil {
		return wrapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return errNoRowsAffected()
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.FirstName, &u.LastName, &u.UpdatedAt, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr(err)
	}
	u.UpdatedAt = u.UpdatedAt.UTC()
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}
