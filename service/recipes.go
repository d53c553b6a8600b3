package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/josh34hsr/recipe-keeper/errs"
	"github.com/josh34hsr/recipe-keeper/model"
	"github.com/josh34hsr/recipe-keeper/repository"
	"github.com/josh34hsr/recipe-keeper/validate"
)

// Listing defaults when the caller passes a non-positive limit.
const (
	DefaultListLimit = 1000
	DefaultTopLimit  = 10
)

// RecipeService orchestrates recipe writes and the active-only reads.
type RecipeService interface {
	// Create validates and stores a new recipe with its links and ingredients.
	Create(ctx context.Context, p model.CreateRecipeParams) (model.CreateRecipeResult, error)
	// Update rewrites an active recipe; links and ingredients are replaced
	// wholesale only when the matching flag in p is set.
	Update(ctx context.Context, id int64, p model.UpdateRecipeParams) (model.UpdateRecipeResult, error)
	// SoftDelete marks an active recipe deleted on behalf of actingUsername.
	SoftDelete(ctx context.Context, id int64, actingUsername string) error
	// Get loads an active recipe with categories and ingredients.
	Get(ctx context.Context, id int64) (*model.RecipeDetails, error)
	// ListActive returns active recipes, newest first.
	ListActive(ctx context.Context, limit int) ([]model.RecipeSummary, error)
	// Recent returns the latest active recipes, newest first.
	Recent(ctx context.Context, limit int) ([]model.RecipeSummary, error)
	// MostViewed returns active recipes by descending view count.
	MostViewed(ctx context.Context, limit int) ([]model.RecipeSummary, error)
	// ByCategory returns active recipes in the category; id 0 means all,
	// with no row cap.
	ByCategory(ctx context.Context, categoryID int64) ([]model.RecipeSummary, error)
	// ByAuthor returns the author's active recipes, newest first.
	ByAuthor(ctx context.Context, username string) ([]model.RecipeSummary, error)
}

type RecipeServiceImpl struct {
	repo repository.RecipeRepository
	log  *zap.Logger
}

// NewRecipeService constructs RecipeService.
func NewRecipeService(repo repository.RecipeRepository, log *zap.Logger) *RecipeServiceImpl {
	return &RecipeServiceImpl{repo: repo, log: log}
}

// Create validates the recipe fields up front and the ingredient pairs
// individually: a failing pair is skipped, not fatal, but at least one must
// survive before anything is written. Repeated category ids and ids no
// category exists for are likewise skipped. Both skip lists come back in
// the result.
func (s *RecipeServiceImpl) Create(ctx context.Context, p model.CreateRecipeParams) (model.CreateRecipeResult, error) {
	title, err := validate.RecipeTitle(p.Title)
	if err != nil {
		return model.CreateRecipeResult{}, err
	}
	instructions, err := validate.Instructions(p.Instructions)
	if err != nil {
		return model.CreateRecipeResult{}, err
	}
	prepTime, err := validate.PrepTime(p.PrepTime)
	if err != nil {
		return model.CreateRecipeResult{}, err
	}
	if p.Author == "" {
		return model.CreateRecipeResult{}, errs.Validationf("author cannot be empty")
	}

	kept, skippedIngredients := splitIngredients(p.Ingredients)
	if len(kept) == 0 {
		return model.CreateRecipeResult{}, errs.Validationf("at least one ingredient is required")
	}

	p.Title = title
	p.Instructions = instructions
	p.PrepTime = prepTime
	var repeats []int64
	p.CategoryIDs, repeats = dedupIDs(p.CategoryIDs)
	p.Ingredients = kept

	id, skippedCategories, err := s.repo.Create(ctx, p)
	if err != nil {
		return model.CreateRecipeResult{}, err
	}
	skippedCategories = append(repeats, skippedCategories...)
	s.logSkips("create recipe", id, skippedCategories, skippedIngredients)
	return model.CreateRecipeResult{
		RecipeID:           id,
		SkippedCategoryIDs: skippedCategories,
		SkippedIngredients: skippedIngredients,
	}, nil
}

// Update revalidates the mutable fields and applies the same skip policy as
// Create to any replacement sets. Unlike Create, a replacement that leaves
// zero ingredients is allowed. Missing or deleted recipes return
// errs.ErrNotFound.
func (s *RecipeServiceImpl) Update(ctx context.Context, id int64, p model.UpdateRecipeParams) (model.UpdateRecipeResult, error) {
	title, err := validate.RecipeTitle(p.Title)
	if err != nil {
		return model.UpdateRecipeResult{}, err
	}
	instructions, err := validate.Instructions(p.Instructions)
	if err != nil {
		return model.UpdateRecipeResult{}, err
	}
	prepTime, err := validate.PrepTime(p.PrepTime)
	if err != nil {
		return model.UpdateRecipeResult{}, err
	}
	p.Title = title
	p.Instructions = instructions
	p.PrepTime = prepTime

	var skippedIngredients []model.IngredientInput
	if p.ReplaceIngredients {
		p.Ingredients, skippedIngredients = splitIngredients(p.Ingredients)
	}
	var repeats []int64
	if p.ReplaceCategories {
		p.CategoryIDs, repeats = dedupIDs(p.CategoryIDs)
	}

	skippedCategories, err := s.repo.Update(ctx, id, p)
	if err != nil {
		return model.UpdateRecipeResult{}, err
	}
	skippedCategories = append(repeats, skippedCategories...)
	s.logSkips("update recipe", id, skippedCategories, skippedIngredients)
	return model.UpdateRecipeResult{
		SkippedCategoryIDs: skippedCategories,
		SkippedIngredients: skippedIngredients,
	}, nil
}

// SoftDelete flips the recipe to deleted and unwinds its counters. The event
// is attributed to actingUsername, which may differ from the author.
func (s *RecipeServiceImpl) SoftDelete(ctx context.Context, id int64, actingUsername string) error {
	if actingUsername == "" {
		return errs.Validationf("acting username cannot be empty")
	}
	return s.repo.SoftDelete(ctx, id, actingUsername)
}

// Get returns the active recipe or errs.ErrNotFound. Deleted recipes are
// unreachable through this path.
func (s *RecipeServiceImpl) Get(ctx context.Context, id int64) (*model.RecipeDetails, error) {
	return s.repo.Get(ctx, id)
}

// ListActive returns active recipes, newest first.
func (s *RecipeServiceImpl) ListActive(ctx context.Context, limit int) ([]model.RecipeSummary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	out, err := s.repo.ListActive(ctx, limit)
	if err != nil {
		s.log.Error("list active recipes", zap.Error(err))
		return []model.RecipeSummary{}, nil
	}
	return out, nil
}

// Recent returns the newest active recipes, default limit 10.
func (s *RecipeServiceImpl) Recent(ctx context.Context, limit int) ([]model.RecipeSummary, error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	out, err := s.repo.ListActive(ctx, limit)
	if err != nil {
		s.log.Error("recent recipes", zap.Error(err))
		return []model.RecipeSummary{}, nil
	}
	return out, nil
}

// MostViewed returns active recipes by view count, default limit 10.
func (s *RecipeServiceImpl) MostViewed(ctx context.Context, limit int) ([]model.RecipeSummary, error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	out, err := s.repo.MostViewed(ctx, limit)
	if err != nil {
		s.log.Error("most viewed recipes", zap.Error(err))
		return []model.RecipeSummary{}, nil
	}
	return out, nil
}

// ByCategory returns active recipes linked to the category; a non-positive
// id drops the filter and lists every active recipe, uncapped.
func (s *RecipeServiceImpl) ByCategory(ctx context.Context, categoryID int64) ([]model.RecipeSummary, error) {
	var (
		out []model.RecipeSummary
		err error
	)
	if categoryID > 0 {
		out, err = s.repo.ByCategory(ctx, categoryID)
	} else {
		out, err = s.repo.ListActiveAll(ctx)
	}
	if err != nil {
		s.log.Error("recipes by category", zap.Int64("category_id", categoryID), zap.Error(err))
		return []model.RecipeSummary{}, nil
	}
	return out, nil
}

// ByAuthor returns the author's active recipes, newest first.
func (s *RecipeServiceImpl) ByAuthor(ctx context.Context, username string) ([]model.RecipeSummary, error) {
	out, err := s.repo.ByAuthor(ctx, username)
	if err != nil {
		s.log.Error("recipes by author", zap.String("username", username), zap.Error(err))
		return []model.RecipeSummary{}, nil
	}
	return out, nil
}

func (s *RecipeServiceImpl) logSkips(op string, recipeID int64, cats []int64, ings []model.IngredientInput) {
	if len(cats) > 0 {
		s.log.Warn(op+": skipped category ids",
			zap.Int64("recipe_id", recipeID), zap.Int64s("category_ids", cats))
	}
	if len(ings) > 0 {
		s.log.Warn(op+": skipped invalid ingredients",
			zap.Int64("recipe_id", recipeID), zap.Int("count", len(ings)))
	}
}

// splitIngredients validates each pair independently, returning the
// normalized survivors and the rejected originals.
func splitIngredients(in []model.IngredientInput) (kept, skipped []model.IngredientInput) {
	for _, ing := range in {
		name, qty, err := validate.Ingredient(ing.Ingredient, ing.Quantity)
		if err != nil {
			skipped = append(skipped, ing)
			continue
		}
		kept = append(kept, model.IngredientInput{Ingredient: name, Quantity: qty})
	}
	return kept, skipped
}

// dedupIDs drops repeated category ids, keeping first occurrences in order.
// The repeats come back separately so they can be reported as skipped.
func dedupIDs(ids []int64) (unique, repeats []int64) {
	if len(ids) < 2 {
		return ids, nil
	}
	seen := make(map[int64]struct{}, len(ids))
	unique = make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			repeats = append(repeats, id)
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique, repeats
}
