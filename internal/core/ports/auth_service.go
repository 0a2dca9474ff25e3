package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/notesapp/notes-api/internal/core/domain"
)

// CreateUserInput is the signup payload after transport-level validation.
type CreateUserInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// AuthenticateInput carries login credentials.
type AuthenticateInput struct {
	Email    string
	Password string
}

// AuthenticateOutput is the issued access token.
type AuthenticateOutput struct {
	AccessToken string
	TokenType   string
}

// UpdateUserInput is a partial profile update; nil fields keep their value.
type UpdateUserInput struct {
	Email     *string
	Password  *string
	FirstName *string
	LastName  *string
}

// UserOutput is the public view of a user. It has no password field.
type UserOutput struct {
	ID        uuid.UUID
	Email     string
	FirstName string
	LastName  string
	UpdatedAt time.Time
	CreatedAt time.Time
}

// NewUserOutput projects a user onto its public view.
func NewUserOutput(u domain.User) UserOutput {
	return UserOutput{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		UpdatedAt: u.UpdatedAt,
		CreatedAt: u.CreatedAt,
	}
}

type AuthService interface {
	CreateUser(ctx context.Context, in CreateUserInput) (UserOutput, error)
	Authenticate(ctx context.Context, in AuthenticateInput) (AuthenticateOutput, error)
	GetUserFromToken(ctx context.Context, token string) (domain.User, error)
	UpdateUser(ctx context.Context, current domain.User, in UpdateUserInput) (UserOutput, error)
}
