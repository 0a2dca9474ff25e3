package handler

import (
	"time"

	"github.com/google/uuid"

	"github.com/notesapp/notes-api/internal/core/ports"
)

type signupRequest struct {
	Email                string `json:"email"                 validate:"required,email"`
	Password             string `json:"password"              validate:"required,min=1"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,min=1,eqfield=Password"`
	FirstName            string `json:"first_name"            validate:"required,min=1"`
	LastName             string `json:"last_name"             validate:"required,min=1"`
}

// tokenRequest is the OAuth2 password grant form; username carries the email.
type tokenRequest struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// profileUpdateRequest is a partial update; absent fields keep their value.
type profileUpdateRequest struct {
	Email                *string `json:"email"                 validate:"omitnil,email"`
	Password             *string `json:"password"              validate:"omitnil,min=1"`
	PasswordConfirmation *string `json:"password_confirmation" validate:"omitnil,min=1"`
	FirstName            *string `json:"first_name"            validate:"omitnil,min=1"`
	LastName             *string `json:"last_name"             validate:"omitnil,min=1"`
}

// passwordsMatch reports whether a supplied password comes with an equal
// confirmation.
func (r profileUpdateRequest) passwordsMatch() bool {
	if r.Password == nil {
		return true
	}
	return r.PasswordConfirmation != nil && *r.PasswordConfirmation == *r.Password
}

type userResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u ports.UserOutput) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		UpdatedAt: u.UpdatedAt,
		CreatedAt: u.CreatedAt,
	}
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
