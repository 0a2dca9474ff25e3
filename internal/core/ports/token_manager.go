package ports

import (
	"time"

	"github.com/google/uuid"
)

// TokenPayload is the claim set carried by an access token.
type TokenPayload struct {
	Subject   uuid.UUID
	ExpiresAt time.Time
	NotBefore time.Time
	IssuedAt  time.Time
}

// TokenManager signs and verifies access tokens. Decode returns false for any
// token that fails verification, without saying why.
type TokenManager interface {
	Encode(payload TokenPayload) (string, error)
	Decode(token string) (TokenPayload, bool)
}
