package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/notesapp/notes-api/internal/core/domain"
	"github.com/notesapp/notes-api/internal/core/ports"
	"github.com/notesapp/notes-api/internal/metrics"
)

// TokenTypeBearer is the token_type reported with every access token.
const TokenTypeBearer = "Bearer"

// AuthService implements signup, login, token resolution and profile updates.
// Reads go straight to users; every write runs in a unit of work.
type AuthService struct {
	users    ports.UserRepository
	uow      ports.UnitOfWorkFactory
	hasher   ports.PasswordHasher
	tokens   ports.TokenManager
	rehash   ports.RehashQueue
	tokenTTL time.Duration
	log      zerolog.Logger
	now      func() time.Time
}

// NewAuthService wires the auth use cases. rehash may be nil, in which case
// outdated hashes are left as they are.
func NewAuthService(
	users ports.UserRepository,
	uow ports.UnitOfWorkFactory,
	hasher ports.PasswordHasher,
	tokens ports.TokenManager,
	rehash ports.RehashQueue,
	tokenTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 30 * time.Minute
	}
	return &AuthService{
		users:    users,
		uow:      uow,
		hasher:   hasher,
		tokens:   tokens,
		rehash:   rehash,
		tokenTTL: tokenTTL,
		log:      log,
		now:      domain.Now,
	}
}

func (s *AuthService) CreateUser(ctx context.Context, in ports.CreateUserInput) (ports.UserOutput, error) {
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return ports.UserOutput{}, err
	}

	uow, err := s.uow.Begin(ctx)
	if err != nil {
		return ports.UserOutput{}, err
	}
	defer uow.Close(ctx)

	existing, err := uow.Users().FindByEmail(ctx, in.Email)
	if err != nil {
		return ports.UserOutput{}, err
	}
	if existing != nil {
		return ports.UserOutput{}, domain.ErrEmailAlreadyExists
	}

	user := domain.NewUser(in.Email, hash, in.FirstName, in.LastName, s.now())
	if err := uow.Users().Create(ctx, user); err != nil {
		return ports.UserOutput{}, emailConflict(err)
	}
	if err := uow.Commit(ctx); err != nil {
		return ports.UserOutput{}, emailConflict(err)
	}

	metrics.SignupsTotal.Inc()
	s.log.Info().Str("user_id", user.ID.String()).Msg("user created")
	return ports.NewUserOutput(user), nil
}

// Authenticate verifies credentials and issues an access token. An unknown
// email and a wrong password fail the same way.
func (s *AuthService) Authenticate(ctx context.Context, in ports.AuthenticateInput) (ports.AuthenticateOutput, error) {
	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return ports.AuthenticateOutput{}, err
	}
	if user == nil || !s.hasher.Verify(user.Password, in.Password) {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		return ports.AuthenticateOutput{}, domain.ErrInvalidCredentials
	}

	now := s.now()
	token, err := s.tokens.Encode(ports.TokenPayload{
		Subject:   user.ID,
		IssuedAt:  now,
		NotBefore: now,
		ExpiresAt: now.Add(s.tokenTTL),
	})
	if err != nil {
		return ports.AuthenticateOutput{}, fmt.Errorf("encode token: %w", err)
	}
	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()

	if s.rehash != nil && s.hasher.NeedsRehash(user.Password) {
		if !s.rehash.Enqueue(ports.RehashJob{UserID: user.ID, Password: in.Password}) {
			metrics.RehashJobsTotal.WithLabelValues("dropped").Inc()
			s.log.Warn().Str("user_id", user.ID.String()).Msg("rehash queue full, job dropped")
		}
	}

	return ports.AuthenticateOutput{AccessToken: token, TokenType: TokenTypeBearer}, nil
}

func (s *AuthService) GetUserFromToken(ctx context.Context, token string) (domain.User, error) {
	payload, ok := s.tokens.Decode(token)
	if !ok {
		metrics.TokenRejectionsTotal.Inc()
		return domain.User{}, domain.ErrInvalidToken
	}

	user, err := s.users.FindByID(ctx, payload.Subject)
	if err != nil {
		return domain.User{}, err
	}
	if user == nil {
		metrics.TokenRejectionsTotal.Inc()
		return domain.User{}, domain.ErrInvalidToken
	}
	return *user, nil
}

// UpdateUser applies the non-nil fields of in to current. The stored row is
// reloaded inside the unit of work so concurrent edits are not overwritten
// with stale fields.
func (s *AuthService) UpdateUser(ctx context.Context, current domain.User, in ports.UpdateUserInput) (ports.UserOutput, error) {
	var hash string
	if in.Password != nil {
		h, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return ports.UserOutput{}, err
		}
		hash = h
	}

	uow, err := s.uow.Begin(ctx)
	if err != nil {
		return ports.UserOutput{}, err
	}
	defer uow.Close(ctx)

	stored, err := uow.Users().FindByID(ctx, current.ID)
	if err != nil {
		return ports.UserOutput{}, err
	}
	if stored == nil {
		return ports.UserOutput{}, domain.ErrUserNotFound
	}

	if in.Email != nil {
		owner, err := uow.Users().FindByEmail(ctx, *in.Email)
		if err != nil {
			return ports.UserOutput{}, err
		}
		if owner != nil && owner.ID != stored.ID {
			return ports.UserOutput{}, domain.ErrEmailAlreadyExists
		}
	}

	updated := mergeUser(*stored, in, hash, s.now())
	if err := uow.Users().Update(ctx, updated); err != nil {
		if errors.Is(err, domain.ErrNoRowsAffected) {
			return ports.UserOutput{}, domain.ErrUserNotFound
		}
		return ports.UserOutput{}, emailConflict(err)
	}
	if err := uow.Commit(ctx); err != nil {
		return ports.UserOutput{}, emailConflict(err)
	}

	s.log.Info().Str("user_id", updated.ID.String()).Msg("user updated")
	return ports.NewUserOutput(updated), nil
}

func mergeUser(u domain.User, in ports.UpdateUserInput, passwordHash string, now time.Time) domain.User {
	if in.Email != nil {
		u.Email = *in.Email
	}
	if in.Password != nil {
		u.Password = passwordHash
	}
	if in.FirstName != nil {
		u.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		u.LastName = *in.LastName
	}
	u.UpdatedAt = now
	return u
}

// emailConflict maps a unique violation on users, which can only be the
// email, to the error the pre-check would have returned.
func emailConflict(err error) error {
	if errors.Is(err, domain.ErrUniqueViolation) {
		return domain.ErrEmailAlreadyExists
	}
	return err
}
