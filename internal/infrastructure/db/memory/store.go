// Package memory holds in-process adapters for every storage port. They
// enforce the same constraints as the Postgres schema (unique email, unique
// category name per owner, foreign keys with cascading deletes) and are used
// wherever a database would only get in the way, mostly tests.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/notesapp/notes-api/internal/core/domain"
	"github.com/notesapp/notes-api/internal/core/ports"
)

// ErrTxClosed is the cause carried by the DatabaseError returned when a
// finished unit of work, or one of its repositories, is used again.
var ErrTxClosed = errors.New("memory: unit of work is closed")

type linkKey struct {
	noteID     uuid.UUID
	categoryID uuid.UUID
}

type tables struct {
	users      map[uuid.UUID]domain.User
	categories map[uuid.UUID]domain.Category
	notes      map[uuid.UUID]domain.Note
	links      map[linkKey]domain.NoteCategory
}

func newTables() *tables {
	return &tables{
		users:      make(map[uuid.UUID]domain.User),
		categories: make(map[uuid.UUID]domain.Category),
		notes:      make(map[uuid.UUID]domain.Note),
		links:      make(map[linkKey]domain.NoteCategory),
	}
}

func (t *tables) clone() *tables {
	c := newTables()
	for k, v := range t.users {
		c.users[k] = v
	}
	for k, v := range t.categories {
		c.categories[k] = v
	}
	for k, v := range t.notes {
		c.notes[k] = v
	}
	for k, v := range t.links {
		c.links[k] = v
	}
	return c
}

// Store is the shared state behind all memory adapters. Writers are
// serialized: a unit of work holds the write slot from Begin until it is
// finished, and a write outside a unit of work holds it for one call.
// Readers outside a unit of work see the last committed state.
type Store struct {
	writer chan struct{}

	mu   sync.RWMutex
	data *tables
}

func NewStore() *Store {
	return &Store{
		writer: make(chan struct{}, 1),
		data:   newTables(),
	}
}

func (s *Store) acquire(ctx context.Context) error {
	select {
	case s.writer <- struct{}{}:
		return nil
	case <-ctx.Done():
		return &domain.DatabaseError{Err: ctx.Err()}
	}
}

func (s *Store) release() {
	<-s.writer
}

func (s *Store) snapshot() *tables {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.clone()
}

func (s *Store) publish(t *tables) {
	s.mu.Lock()
	s.data = t
	s.mu.Unlock()
}

// Users returns a repository that runs each call on its own.
func (s *Store) Users() ports.UserRepository { return &UserRepository{scope{store: s}} }

func (s *Store) Categories() ports.CategoryRepository {
	return &CategoryRepository{scope{store: s}}
}

func (s *Store) Notes() ports.NoteRepository { return &NoteRepository{scope{store: s}} }

func (s *Store) NoteCategories() ports.NoteCategoryRepository {
	return &NoteCategoryRepository{scope{store: s}}
}

// Begin implements ports.UnitOfWorkFactory. It blocks while another unit of
// work is open, or until ctx is done.
func (s *Store) Begin(ctx context.Context) (ports.UnitOfWork, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	return &unitOfWork{store: s, data: s.snapshot()}, nil
}

// scope decides which tables a repository call sees. With a unit of work the
// call runs against its private copy; without one, reads hit the committed
// state and writes commit immediately.
type scope struct {
	store *Store
	uow   *unitOfWork
}

func (s scope) read(fn func(t *tables) error) error {
	if s.uow != nil {
		return s.uow.run(fn)
	}
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	return fn(s.store.data)
}

func (s scope) write(ctx context.Context, fn func(t *tables) error) error {
	if s.uow != nil {
		return s.uow.run(fn)
	}
	if err := s.store.acquire(ctx); err != nil {
		return err
	}
	defer s.store.release()

	work := s.store.snapshot()
	if err := fn(work); err != nil {
		return err
	}
	s.store.publish(work)
	return nil
}

func uniqueViolation(detail string) error {
	return &domain.DatabaseError{Kind: domain.ErrUniqueViolation, Err: errors.New(detail)}
}

func foreignKeyViolation(detail string) error {
	return &domain.DatabaseError{Kind: domain.ErrForeignKeyViolation, Err: errors.New(detail)}
}

func noRowsAffected() error {
	return &domain.DatabaseError{Kind: domain.ErrNoRowsAffected}
}
