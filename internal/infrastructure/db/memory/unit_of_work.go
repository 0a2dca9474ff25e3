package memory

import (
	"context"
	"sync"

	"github.com/notesapp/notes-api/internal/core/domain"
	"github.com/notesapp/notes-api/internal/core/ports"
)

type unitOfWork struct {
	store *Store

	mu       sync.Mutex
	data     *tables
	finished bool
}

func (u *unitOfWork) Users() ports.UserRepository {
	return &UserRepository{scope{store: u.store, uow: u}}
}

func (u *unitOfWork) Categories() ports.CategoryRepository {
	return &CategoryRepository{scope{store: u.store, uow: u}}
}

func (u *unitOfWork) Notes() ports.NoteRepository {
	return &NoteRepository{scope{store: u.store, uow: u}}
}

func (u *unitOfWork) NoteCategories() ports.NoteCategoryRepository {
	return &NoteCategoryRepository{scope{store: u.store, uow: u}}
}

func (u *unitOfWork) run(fn func(t *tables) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.finished {
		return &domain.DatabaseError{Err: ErrTxClosed}
	}
	return fn(u.data)
}

func (u *unitOfWork) Commit(context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.finished {
		return &domain.DatabaseError{Err: ErrTxClosed}
	}
	u.finished = true
	u.store.publish(u.data)
	u.data = nil
	u.store.release()
	return nil
}

func (u *unitOfWork) Rollback(context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.finished {
		return nil
	}
	u.finished = true
	u.data = nil
	u.store.release()
	return nil
}

func (u *unitOfWork) Close(ctx context.Context) error {
	return u.Rollback(ctx)
}
