package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category groups notes of a single owner. Name is unique per owner.
type Category struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewCategory(userID uuid.UUID, name string, now time.Time) Category {
	return Category{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Note is a titled text owned by a single user.
type Note struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewNote(userID uuid.UUID, title, content string, now time.Time) Note {
	return Note{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NoteCategory links a note to a category. Both rows must already exist.
type NoteCategory struct {
	NoteID     uuid.UUID
	CategoryID uuid.UUID
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func NewNoteCategory(noteID, categoryID uuid.UUID, now time.Time) NoteCategory {
	return NoteCategory{
		NoteID:     noteID,
		CategoryID: categoryID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
