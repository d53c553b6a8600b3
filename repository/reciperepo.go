package repository

import (
	"context"

	"github.com/josh34hsr/recipe-keeper/model"
)

// RecipeRepository provides recipe rows with their links and counters. All
// writes keep the denormalized counters and the event log consistent within
// a single transaction.
type RecipeRepository interface {
	// Create inserts a recipe with its links and ingredients. Inputs are
	// already validated. Returns the new id and the category ids that were
	// skipped because no such category exists.
	Create(ctx context.Context, p model.CreateRecipeParams) (int64, []int64, error)
	// Update rewrites an active recipe and optionally replaces its links and
	// ingredients. Returns the skipped category ids.
	Update(ctx context.Context, id int64, p model.UpdateRecipeParams) ([]int64, error)
	// SoftDelete marks an active recipe deleted and unwinds its counters.
	SoftDelete(ctx context.Context, id int64, actingUsername string) error
	// Get loads an active recipe with categories and ingredients.
	Get(ctx context.Context, id int64) (*model.RecipeDetails, error)
	// ListActive returns active recipes, newest first.
	ListActive(ctx context.Context, limit int) ([]model.RecipeSummary, error)
	// ListActiveAll returns every active recipe, newest first, uncapped.
	ListActiveAll(ctx context.Context) ([]model.RecipeSummary, error)
	// MostViewed returns active recipes by descending view count.
	MostViewed(ctx context.Context, limit int) ([]model.RecipeSummary, error)
	// ByCategory returns active recipes linked to the category, newest first.
	ByCategory(ctx context.Context, categoryID int64) ([]model.RecipeSummary, error)
	// ByAuthor returns the author's active recipes, newest first.
	ByAuthor(ctx context.Context, username string) ([]model.RecipeSummary, error)
}
