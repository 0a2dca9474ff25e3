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

type CategoryService struct {
	uow ports.UnitOfWorkFactory
	log zerolog.Logger
	now func() time.Time
}

func NewCategoryService(uow ports.UnitOfWorkFactory, log zerolog.Logger) *CategoryService {
	return &CategoryService{uow: uow, log: log, now: domain.Now}
}

// CreateCategory adds a category for in.UserID. Names are unique per owner.
func (s *CategoryService) CreateCategory(ctx context.Context, in ports.CreateCategoryInput) (ports.CategoryOutput, error) {
	uow, err := s.uow.Begin(ctx)
	if err != nil {
		return ports.CategoryOutput{}, err
	}
	defer uow.Close(ctx)

	exists, err := uow.Categories().Exists(ctx, in.Name, in.UserID)
	if err != nil {
		return ports.CategoryOutput{}, err
	}
	if exists {
		return ports.CategoryOutput{}, domain.ErrCategoryAlreadyExists
	}

	category := domain.NewCategory(in.UserID, in.Name, s.now())
	if err := uow.Categories().Create(ctx, category); err != nil {
		return ports.CategoryOutput{}, categoryConflict(err)
	}
	if err := uow.Commit(ctx); err != nil {
		return ports.CategoryOutput{}, categoryConflict(err)
	}

	metrics.CategoriesCreatedTotal.Inc()
	s.log.Info().
		Str("user_id", in.UserID.String()).
		Str("category_id", category.ID.String()).
		Msg("category created")

	return ports.CategoryOutput{
		ID:        category.ID,
		Name:      category.Name,
		CreatedAt: category.CreatedAt,
		UpdatedAt: category.UpdatedAt,
	}, nil
}

func categoryConflict(err error) error {
	if errors.Is(err, domain.ErrUniqueViolation) {
		return domain.ErrCategoryAlreadyExists
	}
	return err
}
