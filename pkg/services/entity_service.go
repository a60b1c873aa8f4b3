package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-mes/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-mes/pkg/collections"
)

// entityService is the validate-log-delegate core shared by the per-entity
// services.
type entityService[T collections.Keyed, C any, U any] struct {
	entity string
	coll   *collections.Collection[T, C, U]
	logger *zap.Logger
}

func (s *entityService[T, C, U]) get(id string) (T, error) {
	item, ok := s.coll.Get(id)
	if !ok {
		return item, fmt.Errorf("%s %s: %w", s.entity, id, apperrors.ErrNotFound)
	}
	return item, nil
}

func (s *entityService[T, C, U]) create(ctx context.Context, input C) (T, error) {
	var zero T
	if err := validateStruct(input); err != nil {
		return zero, err
	}

	item, err := s.coll.Create(ctx, input)
	if err != nil {
		s.logger.Error("Failed to create "+s.entity, zap.Error(err))
		return zero, fmt.Errorf("failed to create %s: %w", s.entity, err)
	}

	s.logger.Info("Created "+s.entity, zap.String("id", item.Key()))
	return item, nil
}

func (s *entityService[T, C, U]) update(ctx context.Context, id string, patch U) (T, error) {
	var zero T
	if err := validateStruct(patch); err != nil {
		return zero, err
	}

	item, err := s.coll.Update(ctx, id, patch)
	if err != nil {
		s.logger.Error("Failed to update "+s.entity, zap.String("id", id), zap.Error(err))
		return zero, fmt.Errorf("failed to update %s: %w", s.entity, err)
	}

	s.logger.Debug("Updated "+s.entity, zap.String("id", id))
	return item, nil
}

func (s *entityService[T, C, U]) delete(ctx context.Context, id string) error {
	if err := s.coll.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete "+s.entity, zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete %s: %w", s.entity, err)
	}

	s.logger.Info("Deleted "+s.entity, zap.String("id", id))
	return nil
}
