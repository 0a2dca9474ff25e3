package ports

import "context"

// UnitOfWork binds a set of repositories to a single transaction.
//
// Close rolls back unless Commit or Rollback already ran, and is meant to be
// deferred right after Begin. Repositories obtained from a unit of work must
// not be used after it is finished.
type UnitOfWork interface {
	Users() UserRepository
	Categories() CategoryRepository
	Notes() NoteRepository
	NoteCategories() NoteCategoryRepository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	Close(ctx context.Context) error
}

// UnitOfWorkFactory opens units of work.
type UnitOfWorkFactory interface {
	Begin(ctx context.Context) (UnitOfWork, error)
}
