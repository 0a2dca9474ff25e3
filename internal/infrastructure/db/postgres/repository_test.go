package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notesapp/notes-api/internal/core/domain"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func sampleUser() domain.User {
	return domain.NewUser("ada@example.com", "$argon2id$hash", "Ada", "Lovelace", fixedNow)
}

func TestUserRepository_Create(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)
	u := sampleUser()

	mock.ExpectExec(`INSERT INTO users`).
		WithArgs(u.ID, u.Email, u.Password, u.FirstName, u.LastName, u.UpdatedAt, u.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), u))
}

func TestUserRepository_Create_UniqueViolation(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)
	u := sampleUser()

	mock.ExpectExec(`INSERT INTO users`).
		WithArgs(u.ID, u.Email, u.Password, u.FirstName, u.LastName, u.UpdatedAt, u.CreatedAt).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	err := repo.Create(context.Background(), u)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUniqueViolation)

	var dbErr *domain.DatabaseError
	require.ErrorAs(t, err, &dbErr)
	var pgErr *pgconn.PgError
	assert.ErrorAs(t, err, &pgErr)
}

func TestUserRepository_FindByEmail(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)
	u := sampleUser()

	rows := pgxmock.NewRows([]string{"id", "email", "password", "first_name", "last_name", "updated_at", "created_at"}).
		AddRow(u.ID, u.Email, u.Password, u.FirstName, u.LastName, u.UpdatedAt, u.CreatedAt)
	mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).
		WithArgs(u.Email).
		WillReturnRows(rows)

	got, err := repo.FindByEmail(context.Background(), u.Email)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u, *got)
}

func TestUserRepository_FindByEmail_NotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).
		WithArgs("nobody@example.com").
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.FindByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUserRepository_FindByID_DriverError(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)
	id := uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).
		WithArgs(id).
		WillReturnError(errors.New("connection reset"))

	got, err := repo.FindByID(context.Background(), id)
	assert.Nil(t, got)

	var dbErr *domain.DatabaseError
	require.ErrorAs(t, err, &dbErr)
	assert.Nil(t, dbErr.Kind)
}

func TestUserRepository_Update(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)
	u := sampleUser()
	u.FirstName = "Augusta"

	mock.ExpectExec(`UPDATE users`).
		WithArgs(u.ID, u.Email, u.Password, u.FirstName, u.LastName, u.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.Update(context.Background(), u))
}

func TestUserRepository_Update_Missing(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)
	u := sampleUser()

	mock.ExpectExec(`UPDATE users`).
		WithArgs(u.ID, u.Email, u.Password, u.FirstName, u.LastName, u.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), u)
	assert.ErrorIs(t, err, domain.ErrNoRowsAffected)
}

func TestUserRepository_UpdatePassword(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)
	id := uuid.New()

	mock.ExpectExec(`UPDATE users SET password = \$2, updated_at = \$3 WHERE id = \$1 AND password = \$4`).
		WithArgs(id, "new-hash", fixedNow, "old-hash").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.UpdatePassword(context.Background(), id, "old-hash", "new-hash", fixedNow))
}

func TestUserRepository_UpdatePassword_StaleHash(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)
	id := uuid.New()

	mock.ExpectExec(`UPDATE users SET password`).
		WithArgs(id, "new-hash", fixedNow, "old-hash").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdatePassword(context.Background(), id, "old-hash", "new-hash", fixedNow)
	assert.ErrorIs(t, err, domain.ErrNoRowsAffected)
}

func TestCategoryRepository_Create_ForeignKey(t *testing.T) {
	mock := newMock(t)
	repo := NewCategoryRepository(mock)
	c := domain.NewCategory(uuid.New(), "work", fixedNow)

	mock.ExpectExec(`INSERT INTO categories`).
		WithArgs(c.ID, c.UserID, c.Name, c.UpdatedAt, c.CreatedAt).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	err := repo.Create(context.Background(), c)
	assert.ErrorIs(t, err, domain.ErrForeignKeyViolation)
	assert.NotErrorIs(t, err, domain.ErrUniqueViolation)
}

func TestCategoryRepository_Exists(t *testing.T) {
	tests := []struct {
		name   string
		exists bool
	}{
		{name: "present", exists: true},
		{name: "absent", exists: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			repo := NewCategoryRepository(mock)
			userID := uuid.New()

			mock.ExpectQuery(`SELECT EXISTS`).
				WithArgs(userID, "work").
				WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(tt.exists))

			got, err := repo.Exists(context.Background(), "work", userID)
			require.NoError(t, err)
			assert.Equal(t, tt.exists, got)
		})
	}
}

func TestCategoryRepository_Delete(t *testing.T) {
	mock := newMock(t)
	repo := NewCategoryRepository(mock)
	id := uuid.New()

	mock.ExpectExec(`DELETE FROM categories WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`DELETE FROM categories WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, repo.Delete(context.Background(), id))
	assert.ErrorIs(t, repo.Delete(context.Background(), id), domain.ErrNoRowsAffected)
}

func TestNoteRepository_CreateAndUpdate(t *testing.T) {
	mock := newMock(t)
	repo := NewNoteRepository(mock)
	n := domain.NewNote(uuid.New(), "groceries", "milk", fixedNow)

	mock.ExpectExec(`INSERT INTO notes`).
		WithArgs(n.ID, n.UserID, n.Title, n.Content, n.UpdatedAt, n.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`UPDATE notes`).
		WithArgs(n.ID, n.UserID, n.Title, n.Content, n.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	require.NoError(t, repo.Create(context.Background(), n))
	assert.ErrorIs(t, repo.Update(context.Background(), n), domain.ErrNoRowsAffected)
}

func TestNoteRepository_Create_ForeignKey(t *testing.T) {
	mock := newMock(t)
	repo := NewNoteRepository(mock)
	n := domain.NewNote(uuid.New(), "groceries", "milk", fixedNow)

	mock.ExpectExec(`INSERT INTO notes`).
		WithArgs(n.ID, n.UserID, n.Title, n.Content, n.UpdatedAt, n.CreatedAt).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "notes_user_id_fkey"})

	err := repo.Create(context.Background(), n)
	var dbErr *domain.DatabaseError
	require.ErrorAs(t, err, &dbErr)
	assert.ErrorIs(t, err, domain.ErrForeignKeyViolation)
}

func TestNoteRepository_Delete(t *testing.T) {
	mock := newMock(t)
	repo := NewNoteRepository(mock)
	id := uuid.New()

	mock.ExpectExec(`DELETE FROM notes WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`DELETE FROM notes WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, repo.Delete(context.Background(), id))

	err := repo.Delete(context.Background(), id)
	var dbErr *domain.DatabaseError
	require.ErrorAs(t, err, &dbErr)
	assert.ErrorIs(t, err, domain.ErrNoRowsAffected)
}

func TestNoteCategoryRepository_Create_ForeignKey(t *testing.T) {
	mock := newMock(t)
	repo := NewNoteCategoryRepository(mock)
	link := domain.NewNoteCategory(uuid.New(), uuid.New(), fixedNow)

	mock.ExpectExec(`INSERT INTO notes_categories`).
		WithArgs(link.NoteID, link.CategoryID, link.UpdatedAt, link.CreatedAt).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "notes_categories_note_id_fkey"})

	err := repo.Create(context.Background(), link)
	assert.ErrorIs(t, err, domain.ErrForeignKeyViolation)
}

func TestNoteCategoryRepository_CreateMany(t *testing.T) {
	mock := newMock(t)
	repo := NewNoteCategoryRepository(mock)
	noteID := uuid.New()
	links := []domain.NoteCategory{
		domain.NewNoteCategory(noteID, uuid.New(), fixedNow),
		domain.NewNoteCategory(noteID, uuid.New(), fixedNow),
	}

	mock.ExpectCopyFrom(pgx.Identifier{"notes_categories"}, noteCategoryColumns).
		WillReturnResult(2)

	require.NoError(t, repo.CreateMany(context.Background(), links))
}

func TestNoteCategoryRepository_CreateMany_Empty(t *testing.T) {
	mock := newMock(t)
	repo := NewNoteCategoryRepository(mock)

	require.NoError(t, repo.CreateMany(context.Background(), nil))
}

func TestNoteCategoryRepository_CreateMany_ForeignKey(t *testing.T) {
	mock := newMock(t)
	repo := NewNoteCategoryRepository(mock)
	links := []domain.NoteCategory{domain.NewNoteCategory(uuid.New(), uuid.New(), fixedNow)}

	mock.ExpectCopyFrom(pgx.Identifier{"notes_categories"}, noteCategoryColumns).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	assert.ErrorIs(t, repo.CreateMany(context.Background(), links), domain.ErrForeignKeyViolation)
}

func TestWrapErr_KeepsDatabaseError(t *testing.T) {
	original := errNoRowsAffected()
	assert.Same(t, original, wrapErr(original))
	assert.NoError(t, wrapErr(nil))
}
