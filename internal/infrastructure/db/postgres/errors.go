package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/notesapp/notes-api/internal/core/domain"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// wrapErr converts a driver error into a *domain.DatabaseError, classifying
// constraint violations.
func wrapErr(err error) error {
	if err == nil {
		return nil
	}

	var dbErr *domain.DatabaseError
	if errors.As(err, &dbErr) {
		return err
	}

	var kind error
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			kind = domain.ErrUniqueViolation
		case pgForeignKeyViolation:
			kind = domain.ErrForeignKeyViolation
		}
	}
	return &domain.DatabaseError{Kind: kind, Err: err}
}

func errNoRowsAffected() error {
	return &domain.DatabaseError{Kind: domain.ErrNoRowsAffected}
}
