package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/notesapp/notes-api/internal/core/ports"
)

// JWTManager implements ports.TokenManager with a symmetric HMAC secret.
type JWTManager struct {
	secret []byte
	method jwt.SigningMethod
	now    func() time.Time
}

type JWTOption func(*JWTManager)

// WithClock replaces the clock used to check exp and nbf.
func WithClock(now func() time.Time) JWTOption {
	return func(m *JWTManager) { m.now = now }
}

// NewJWTManager accepts HS256, HS384 or HS512.
func NewJWTManager(secret, algorithm string, opts ...JWTOption) (*JWTManager, error) {
	if secret == "" {
		return nil, errors.New("jwt: secret must not be empty")
	}

	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("jwt: unsupported algorithm %q", algorithm)
	}

	m := &JWTManager{
		secret: []byte(secret),
		method: method,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

func (m *JWTManager) Encode(payload ports.TokenPayload) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   payload.Subject.String(),
		ExpiresAt: jwt.NewNumericDate(payload.ExpiresAt),
		NotBefore: jwt.NewNumericDate(payload.NotBefore),
		IssuedAt:  jwt.NewNumericDate(payload.IssuedAt),
	}

	signed, err := jwt.NewWithClaims(m.method, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (m *JWTManager) Decode(token string) (ports.TokenPayload, bool) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{m.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid {
		return ports.TokenPayload{}, false
	}

	if claims.NotBefore == nil || claims.IssuedAt == nil {
		return ports.TokenPayload{}, false
	}

	subject, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ports.TokenPayload{}, false
	}

	return ports.TokenPayload{
		Subject:   subject,
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
		NotBefore: claims.NotBefore.Time.UTC(),
		IssuedAt:  claims.IssuedAt.Time.UTC(),
	}, true
}
