package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/notesapp/notes-api/internal/core/ports"
	"github.com/notesapp/notes-api/internal/metrics"
)

// UnitOfWorkFactory implements ports.UnitOfWorkFactory. Each unit of work
// holds one pooled connection from Begin until it is finished.
type UnitOfWorkFactory struct {
	db TxBeginner
}

func NewUnitOfWorkFactory(db TxBeginner) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{db: db}
}

func (f *UnitOfWorkFactory) Begin(ctx context.Context) (ports.UnitOfWork, error) {
	tx, err := f.db.Begin(ctx)
	if err != nil {
		return nil, wrapErr(err)
	}

	return &unitOfWork{
		tx:             tx,
		users:          NewUserRepository(tx),
		categories:     NewCategoryRepository(tx),
		notes:          NewNoteRepository(tx),
		noteCategories: NewNoteCategoryRepository(tx),
	}, nil
}

type unitOfWork struct {
	tx       pgx.Tx
	finished bool

	users          *UserRepository
	categories     *CategoryRepository
	notes          *NoteRepository
	noteCategories *NoteCategoryRepository
}

func (u *unitOfWork) Users() ports.UserRepository                  { return u.users }
func (u *unitOfWork) Categories() ports.CategoryRepository         { return u.categories }
func (u *unitOfWork) Notes() ports.NoteRepository                  { return u.notes }
func (u *unitOfWork) NoteCategories() ports.NoteCategoryRepository { return u.noteCategories }

// Commit fails once the unit of work is finished. A failed commit leaves the
// transaction rolled back.
func (u *unitOfWork) Commit(ctx context.Context) error {
	if u.finished {
		return wrapErr(pgx.ErrTxClosed)
	}
	u.finished = true

	if err := u.tx.Commit(ctx); err != nil {
		metrics.UnitOfWorkTotal.WithLabelValues("commit_failed").Inc()
		return wrapErr(err)
	}
	metrics.UnitOfWorkTotal.WithLabelValues("commit").Inc()
	return nil
}

// Rollback is a no-op once the unit of work is finished. It runs even when
// ctx is already cancelled so the connection always goes back to the pool.
func (u *unitOfWork) Rollback(ctx context.Context) error {
	if u.finished {
		return nil
	}
	u.finished = true

	metrics.UnitOfWorkTotal.WithLabelValues("rollback").Inc()
	err := u.tx.Rollback(context.WithoutCancel(ctx))
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return wrapErr(err)
	}
	return nil
}

func (u *unitOfWork) Close(ctx context.Context) error {
	return u.Rollback(ctx)
}
