package repository

import (
	"context"

	"github.com/josh34hsr/recipe-keeper/model"
)

// CategoryRepository provides the category catalogue.
type CategoryRepository interface {
	// Upsert inserts a category or returns the existing id for the same name.
	Upsert(ctx context.Context, name string) (int64, error)
	// List returns all categories ordered by name.
	List(ctx context.Context) ([]model.Category, error)
}
