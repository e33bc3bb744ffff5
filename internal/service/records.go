package service

import (
	"context"
	"fmt"

	"github.com/Beka01247/smart-stock/internal/domain"
	"github.com/Beka01247/smart-stock/internal/repo"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Records is the CRUD service of one collection. Shape, when set, runs on
// every record before it is created.
type Records[T any, P domain.Record[T]] struct {
	name   string
	repo   repo.RecordRepository[T]
	shape  func(*T)
	logger *zap.SugaredLogger
}

func NewRecords[T any, P domain.Record[T]](name string, r repo.RecordRepository[T], shape func(*T), logger *zap.SugaredLogger) *Records[T, P] {
	return &Records[T, P]{
		name:   name,
		repo:   r,
		shape:  shape,
		logger: logger,
	}
}

func (s *Records[T, P]) Create(ctx context.Context, owner string, record *T) (*T, error) {
	trimStrings(record)
	if s.shape != nil {
		s.shape(record)
	}
	if err := Validate.Struct(record); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// ids and timestamps are assigned by the store
	meta := P(record).Metadata()
	*meta = domain.Meta{OwnerID: owner}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Infow("record created", "collection", s.name, "id", meta.ID.Hex(), "user_id", owner)
	return record, nil
}

func (s *Records[T, P]) List(ctx context.Context, owner string) ([]T, error) {
	return s.repo.ListByOwner(ctx, owner)
}

func (s *Records[T, P]) Get(ctx context.Context, owner, id string) (*T, error) {
	return s.repo.GetByID(ctx, owner, id)
}

// Update applies a partial patch. patch is usually a pointer to one of the
// domain *Patch types.
func (s *Records[T, P]) Update(ctx context.Context, owner, id string, patch any) (*T, error) {
	trimStrings(patch)
	if err := Validate.Struct(patch); err != nil {
		if _, ok := err.(*validator.InvalidValidationError); !ok {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	updated, err := s.repo.UpdateByID(ctx, owner, id, patch)
	if err != nil {
		return nil, err
	}

	s.logger.Infow("record updated", "collection", s.name, "id", id, "user_id", owner)
	return updated, nil
}

func (s *Records[T, P]) Delete(ctx context.Context, owner, id string) error {
	if err := s.repo.DeleteByID(ctx, owner, id); err != nil {
		return err
	}

	s.logger.Infow("record deleted", "collection", s.name, "id", id, "user_id", owner)
	return nil
}
