package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/notesapp/notes-api/internal/core/domain"
)

// UserRepository implements ports.UserRepository.
type UserRepository struct{ scope }

func (r *UserRepository) Create(ctx context.Context, user domain.User) error {
	return r.write(ctx, func(t *tables) error {
		if _, ok := t.users[user.ID]; ok {
			return uniqueViolation("users_pkey")
		}
		if emailTaken(t, user.Email, uuid.Nil) {
			return uniqueViolation("users_email_key")
		}
		t.users[user.ID] = user
		return nil
	})
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	var found *domain.User
	err := r.read(func(t *tables) error {
		for _, u := range t.users {
			if u.Email == email {
				found = &u
				break
			}
		}
		return nil
	})
	return found, err
}

func (r *UserRepository) FindByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	var found *domain.User
	err := r.read(func(t *tables) error {
		if u, ok := t.users[id]; ok {
			found = &u
		}
		return nil
	})
	return found, err
}

func (r *UserRepository) Update(ctx context.Context, user domain.User) error {
	return r.write(ctx, func(t *tables) error {
		current, ok := t.users[user.ID]
		if !ok {
			return noRowsAffected()
		}
		if emailTaken(t, user.Email, user.ID) {
			return uniqueViolation("users_email_key")
		}
		user.CreatedAt = current.CreatedAt
		t.users[user.ID] = user
		return nil
	})
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, current, replacement string, updatedAt time.Time) error {
	return r.write(ctx, func(t *tables) error {
		u, ok := t.users[id]
		if !ok || u.Password != current {
			return noRowsAffected()
		}
		u.Password = replacement
		u.UpdatedAt = updatedAt
		t.users[id] = u
		return nil
	})
}

func emailTaken(t *tables, email string, except uuid.UUID) bool {
	for id, u := range t.users {
		if id != except && u.Email == email {
			return true
		}
	}
	return false
}

// CategoryRepository implements ports.CategoryRepository.
type CategoryRepository struct{ scope }

func (r *CategoryRepository) Create(ctx context.Context, c domain.Category) error {
	return r.write(ctx, func(t *tables) error {
		if _, ok := t.categories[c.ID]; ok {
			return uniqueViolation("categories_pkey")
		}
		if err := checkCategory(t, c); err != nil {
			return err
		}
		t.categories[c.ID] = c
		return nil
	})
}

func (r *CategoryRepository) Update(ctx context.Context, c domain.Category) error {
	return r.write(ctx, func(t *tables) error {
		current, ok := t.categories[c.ID]
		if !ok {
			return noRowsAffected()
		}
		if err := checkCategory(t, c); err != nil {
			return err
		}
		c.CreatedAt = current.CreatedAt
		t.categories[c.ID] = c
		return nil
	})
}

func (r *CategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.write(ctx, func(t *tables) error {
		if _, ok := t.categories[id]; !ok {
			return noRowsAffected()
		}
		delete(t.categories, id)
		for k := range t.links {
			if k.categoryID == id {
				delete(t.links, k)
			}
		}
		return nil
	})
}

func (r *CategoryRepository) Exists(_ context.Context, name string, userID uuid.UUID) (bool, error) {
	var exists bool
	err := r.read(func(t *tables) error {
		exists = categoryNameTaken(t, userID, name, uuid.Nil)
		return nil
	})
	return exists, err
}

func checkCategory(t *tables, c domain.Category) error {
	if _, ok := t.users[c.UserID]; !ok {
		return foreignKeyViolation("categories_user_id_fkey")
	}
	if categoryNameTaken(t, c.UserID, c.Name, c.ID) {
		return uniqueViolation("categories_user_id_name_key")
	}
	return nil
}

func categoryNameTaken(t *tables, userID uuid.UUID, name string, except uuid.UUID) bool {
	for id, c := range t.categories {
		if id != except && c.UserID == userID && c.Name == name {
			return true
		}
	}
	return false
}

// NoteRepository implements ports.NoteRepository.
type NoteRepository struct{ scope }

func (r *NoteRepository) Create(ctx context.Context, n domain.Note) error {
	return r.write(ctx, func(t *tables) error {
		if _, ok := t.notes[n.ID]; ok {
			return uniqueViolation("notes_pkey")
		}
		if _, ok := t.users[n.UserID]; !ok {
			return foreignKeyViolation("notes_user_id_fkey")
		}
		t.notes[n.ID] = n
		return nil
	})
}

func (r *NoteRepository) Update(ctx context.Context, n domain.Note) error {
	return r.write(ctx, func(t *tables) error {
		current, ok := t.notes[n.ID]
		if !ok {
			return noRowsAffected()
		}
		if _, ok := t.users[n.UserID]; !ok {
			return foreignKeyViolation("notes_user_id_fkey")
		}
		n.CreatedAt = current.CreatedAt
		t.notes[n.ID] = n
		return nil
	})
}

func (r *NoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.write(ctx, func(t *tables) error {
		if _, ok := t.notes[id]; !ok {
			return noRowsAffected()
		}
		delete(t.notes, id)
		for k := range t.links {
			if k.noteID == id {
				delete(t.links, k)
			}
		}
		return nil
	})
}

// NoteCategoryRepository implements ports.NoteCategoryRepository.
type NoteCategoryRepository struct{ scope }

func (r *NoteCategoryRepository) Create(ctx context.Context, link domain.NoteCategory) error {
	return r.CreateMany(ctx, []domain.NoteCategory{link})
}

// CreateMany inserts every link or none of them.
func (r *NoteCategoryRepository) CreateMany(ctx context.Context, links []domain.NoteCategory) error {
	if len(links) == 0 {
		return nil
	}

	return r.write(ctx, func(t *tables) error {
		seen := make(map[linkKey]struct{}, len(links))
		for _, l := range links {
			k := linkKey{noteID: l.NoteID, categoryID: l.CategoryID}
			if _, ok := t.notes[l.NoteID]; !ok {
				return foreignKeyViolation("notes_categories_note_id_fkey")
			}
			if _, ok := t.categories[l.CategoryID]; !ok {
				return foreignKeyViolation("notes_categories_category_id_fkey")
			}
			_, dup := seen[k]
			_, exists := t.links[k]
			if dup || exists {
				return uniqueViolation("notes_categories_pkey")
			}
			seen[k] = struct{}{}
		}
		for _, l := range links {
			t.links[linkKey{noteID: l.NoteID, categoryID: l.CategoryID}] = l
		}
		return nil
	})
}
