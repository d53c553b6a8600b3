// Package service contains the application services layered over the
// storage interfaces: validation, partial-success policy, and read
// degradation live here, never in the repositories.
package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/josh34hsr/recipe-keeper/errs"
	"github.com/josh34hsr/recipe-keeper/model"
	"github.com/josh34hsr/recipe-keeper/repository"
)

// CategoryService manages the shared category catalogue.
type CategoryService interface {
	// Add creates a category or returns the existing id for the same name.
	Add(ctx context.Context, name string) (int64, error)
	// List returns all categories ordered by name.
	List(ctx context.Context) ([]model.Category, error)
}

type CategoryServiceImpl struct {
	cats repository.CategoryRepository
	log  *zap.Logger
}

// NewCategoryService constructs CategoryService.
func NewCategoryService(cats repository.CategoryRepository, log *zap.Logger) *CategoryServiceImpl {
	return &CategoryServiceImpl{cats: cats, log: log}
}

// Add trims the name and upserts it. Calling Add twice with the same name
// returns the same id both times; a duplicate is never an error.
func (s *CategoryServiceImpl) Add(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, errs.Validationf("category name cannot be empty")
	}
	return s.cats.Upsert(ctx, name)
}

// List returns the catalogue. Storage errors degrade to an empty result.
func (s *CategoryServiceImpl) List(ctx context.Context) ([]model.Category, error) {
	out, err := s.cats.List(ctx)
	if err != nil {
		s.log.Error("list categories", zap.Error(err))
		return []model.Category{}, nil
	}
	return out, nil
}
