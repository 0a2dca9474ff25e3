package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/notesapp/notes-api/internal/core/domain"
	"github.com/notesapp/notes-api/internal/core/ports"
	"github.com/notesapp/notes-api/internal/metrics"
)

// PasswordRehashService upgrades stored hashes that were produced with
// outdated parameters or a legacy algorithm. Jobs come from logins, so the
// plaintext has just been verified. It is verified again against the stored
// row, and the new hash is only written while that row still holds the hash
// that was verified, so a password change committed meanwhile wins.
type PasswordRehashService struct {
	uow    ports.UnitOfWorkFactory
	hasher ports.PasswordHasher
	log    zerolog.Logger
	now    func() time.Time
}

func NewPasswordRehashService(uow ports.UnitOfWorkFactory, hasher ports.PasswordHasher, log zerolog.Logger) *PasswordRehashService {
	return &PasswordRehashService{uow: uow, hasher: hasher, log: log, now: domain.Now}
}

func (s *PasswordRehashService) Rehash(ctx context.Context, job ports.RehashJob) error {
	uow, err := s.uow.Begin(ctx)
	if err != nil {
		metrics.RehashJobsTotal.WithLabelValues("error").Inc()
		return err
	}
	defer uow.Close(ctx)

	user, err := uow.Users().FindByID(ctx, job.UserID)
	if err != nil {
		metrics.RehashJobsTotal.WithLabelValues("error").Inc()
		return err
	}
	if user == nil || !s.hasher.NeedsRehash(user.Password) || !s.hasher.Verify(user.Password, job.Password) {
		metrics.RehashJobsTotal.WithLabelValues("skipped").Inc()
		return nil
	}

	hash, err := s.hasher.Hash(job.Password)
	if err != nil {
		metrics.RehashJobsTotal.WithLabelValues("error").Inc()
		return err
	}

	if err := uow.Users().UpdatePassword(ctx, user.ID, user.Password, hash, s.now()); err != nil {
		if errors.Is(err, domain.ErrNoRowsAffected) {
			metrics.RehashJobsTotal.WithLabelValues("skipped").Inc()
			return nil
		}
		metrics.RehashJobsTotal.WithLabelValues("error").Inc()
		return err
	}
	if err := uow.Commit(ctx); err != nil {
		metrics.RehashJobsTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.RehashJobsTotal.WithLabelValues("rehashed").Inc()
	s.log.Info().Str("user_id", user.ID.String()).Msg("password hash upgraded")
	return nil
}
