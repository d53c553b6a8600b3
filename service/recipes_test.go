package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/josh34hsr/recipe-keeper/errs"
	"github.com/josh34hsr/recipe-keeper/model"
	"github.com/josh34hsr/recipe-keeper/repository"
)

type fakeRecipeRepo struct {
	createIn    model.CreateRecipeParams
	createID    int64
	createSkip  []int64
	createErr   error
	createCalls int

	updateInID int64
	updateIn   model.UpdateRecipeParams
	updateSkip []int64
	updateErr  error

	delInID     int64
	delInActing string
	delErr      error

	getOut *model.RecipeDetails
	getErr error

	listInLimit int
	listOut     []model.RecipeSummary
	listErr     error

	listAllCalls int
	listAllOut   []model.RecipeSummary
	listAllErr   error

	mostInLimit int
	mostOut     []model.RecipeSummary
	mostErr     error

	byCatIn  int64
	byCatOut []model.RecipeSummary
	byCatErr error

	byAuthorIn  string
	byAuthorOut []model.RecipeSummary
	byAuthorErr error
}

var _ repository.RecipeRepository = (*fakeRecipeRepo)(nil)

func (f *fakeRecipeRepo) Create(_ context.Context, p model.CreateRecipeParams) (int64, []int64, error) {
	f.createCalls++
	f.createIn = p
	return f.createID, append([]int64(nil), f.createSkip...), f.createErr
}
func (f *fakeRecipeRepo) Update(_ context.Context, id int64, p model.UpdateRecipeParams) ([]int64, error) {
	f.updateInID, f.updateIn = id, p
	return append([]int64(nil), f.updateSkip...), f.updateErr
}
func (f *fakeRecipeRepo) SoftDelete(_ context.Context, id int64, actingUsername string) error {
	f.delInID, f.delInActing = id, actingUsername
	return f.delErr
}
func (f *fakeRecipeRepo) Get(_ context.Context, id int64) (*model.RecipeDetails, error) {
	return f.getOut, f.getErr
}
func (f *fakeRecipeRepo) ListActive(_ context.Context, limit int) ([]model.RecipeSummary, error) {
	f.listInLimit = limit
	return append([]model.RecipeSummary(nil), f.listOut...), f.listErr
}
func (f *fakeRecipeRepo) ListActiveAll(_ context.Context) ([]model.RecipeSummary, error) {
	f.listAllCalls++
	return append([]model.RecipeSummary(nil), f.listAllOut...), f.listAllErr
}
func (f *fakeRecipeRepo) MostViewed(_ context.Context, limit int) ([]model.RecipeSummary, error) {
	f.mostInLimit = limit
	return append([]model.RecipeSummary(nil), f.mostOut...), f.mostErr
}
func (f *fakeRecipeRepo) ByCategory(_ context.Context, categoryID int64) ([]model.RecipeSummary, error) {
	f.byCatIn = categoryID
	return append([]model.RecipeSummary(nil), f.byCatOut...), f.byCatErr
}
func (f *fakeRecipeRepo) ByAuthor(_ context.Context, username string) ([]model.RecipeSummary, error) {
	f.byAuthorIn = username
	return append([]model.RecipeSummary(nil), f.byAuthorOut...), f.byAuthorErr
}

func TestRecipes_Create_ValidationAndSkips(t *testing.T) {
	t.Parallel()
	repo := &fakeRecipeRepo{createID: 7, createSkip: []int64{9}}
	s := NewRecipeService(repo, zap.NewNop())
	ctx := context.Background()

	base := model.CreateRecipeParams{
		Title:        "Cake",
		Instructions: "Mix and bake.",
		PrepTime:     45,
		Author:       "bob",
		CategoryIDs:  []int64{2, 2, 9},
		Ingredients: []model.IngredientInput{
			{Ingredient: " flour ", Quantity: " 2 cups "},
			{Ingredient: "   ", Quantity: "1 cup"},
		},
	}

	bad := base
	bad.Title = "  "
	if _, err := s.Create(ctx, bad); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("want validation error on blank title, got %v", err)
	}
	bad = base
	bad.PrepTime = 0
	if _, err := s.Create(ctx, bad); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("want validation error on prep time, got %v", err)
	}
	bad = base
	bad.Author = ""
	if _, err := s.Create(ctx, bad); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("want validation error on empty author, got %v", err)
	}

	bad = base
	bad.Ingredients = []model.IngredientInput{{Ingredient: "  ", Quantity: "x"}}
	if _, err := s.Create(ctx, bad); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("want validation error with zero surviving ingredients, got %v", err)
	}
	if repo.createCalls != 0 {
		t.Fatalf("nothing may be written before the ingredient check")
	}

	res, err := s.Create(ctx, base)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if res.RecipeID != 7 {
		t.Fatalf("want recipe id 7, got %d", res.RecipeID)
	}
	if want := []int64{2, 9}; !reflect.DeepEqual(repo.createIn.CategoryIDs, want) {
		t.Fatalf("category ids not deduplicated: %v", repo.createIn.CategoryIDs)
	}
	if want := []model.IngredientInput{{Ingredient: "flour", Quantity: "2 cups"}}; !reflect.DeepEqual(repo.createIn.Ingredients, want) {
		t.Fatalf("surviving ingredients not normalized: %v", repo.createIn.Ingredients)
	}
	// The repeated 2 and the unknown 9 are both reported back.
	if !reflect.DeepEqual(res.SkippedCategoryIDs, []int64{2, 9}) {
		t.Fatalf("skipped categories lost: %v", res.SkippedCategoryIDs)
	}
	if len(res.SkippedIngredients) != 1 || res.SkippedIngredients[0].Ingredient != "   " {
		t.Fatalf("skipped ingredients should keep the originals: %v", res.SkippedIngredients)
	}

	repo.createErr = errors.New("boom")
	if _, err := s.Create(ctx, base); err == nil {
		t.Fatalf("want propagated repo error")
	}
}

func TestRecipes_Update_ReplaceFlags(t *testing.T) {
	t.Parallel()
	repo := &fakeRecipeRepo{}
	s := NewRecipeService(repo, zap.NewNop())
	ctx := context.Background()

	base := model.UpdateRecipeParams{
		Title:        "Cake v2",
		Instructions: "Mix, bake, frost.",
		PrepTime:     50,
	}

	bad := base
	bad.PrepTime = 2000
	if _, err := s.Update(ctx, 7, bad); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("want validation error on prep time, got %v", err)
	}

	if _, err := s.Update(ctx, 7, base); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if repo.updateInID != 7 {
		t.Fatalf("want id 7, got %d", repo.updateInID)
	}
	if repo.updateIn.ReplaceCategories || repo.updateIn.ReplaceIngredients {
		t.Fatalf("replace flags must stay unset when not requested")
	}

	// Replacing with only invalid pairs is allowed; the set just ends empty.
	repl := base
	repl.ReplaceCategories = true
	repl.CategoryIDs = []int64{4, 4, 5}
	repl.ReplaceIngredients = true
	repl.Ingredients = []model.IngredientInput{{Ingredient: "  ", Quantity: ""}}
	res, err := s.Update(ctx, 7, repl)
	if err != nil {
		t.Fatalf("Update with replacements: %v", err)
	}
	if want := []int64{4, 5}; !reflect.DeepEqual(repo.updateIn.CategoryIDs, want) {
		t.Fatalf("category ids not deduplicated: %v", repo.updateIn.CategoryIDs)
	}
	if !reflect.DeepEqual(res.SkippedCategoryIDs, []int64{4}) {
		t.Fatalf("repeated category id not reported: %v", res.SkippedCategoryIDs)
	}
	if len(repo.updateIn.Ingredients) != 0 {
		t.Fatalf("invalid pairs must not reach the repository: %v", repo.updateIn.Ingredients)
	}
	if len(res.SkippedIngredients) != 1 {
		t.Fatalf("skipped ingredients lost: %v", res.SkippedIngredients)
	}

	repo.updateErr = errs.ErrNotFound
	if _, err := s.Update(ctx, 404, base); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestRecipes_SoftDelete_And_Get(t *testing.T) {
	t.Parallel()
	repo := &fakeRecipeRepo{}
	s := NewRecipeService(repo, zap.NewNop())
	ctx := context.Background()

	if err := s.SoftDelete(ctx, 7, ""); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("want validation error on empty acting username, got %v", err)
	}
	if err := s.SoftDelete(ctx, 7, "admin"); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}
	if repo.delInID != 7 || repo.delInActing != "admin" {
		t.Fatalf("soft delete args not passed through: %d %q", repo.delInID, repo.delInActing)
	}
	repo.delErr = errs.ErrNotFound
	if err := s.SoftDelete(ctx, 7, "admin"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("want ErrNotFound on second delete, got %v", err)
	}

	repo.getErr = errs.ErrNotFound
	if _, err := s.Get(ctx, 7); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("want ErrNotFound from Get, got %v", err)
	}
	repo.getErr = nil
	repo.getOut = &model.RecipeDetails{Recipe: model.Recipe{ID: 7, Title: "Cake"}}
	got, err := s.Get(ctx, 7)
	if err != nil || got.Recipe.Title != "Cake" {
		t.Fatalf("Get: %v, %+v", err, got)
	}
}

func TestRecipes_Reads_DefaultsAndDegrade(t *testing.T) {
	t.Parallel()
	repo := &fakeRecipeRepo{
		listOut: []model.RecipeSummary{{ID: 1, Title: "Cake"}},
	}
	s := NewRecipeService(repo, zap.NewNop())
	ctx := context.Background()

	if _, err := s.ListActive(ctx, 0); err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if repo.listInLimit != DefaultListLimit {
		t.Fatalf("want default list limit %d, got %d", DefaultListLimit, repo.listInLimit)
	}

	if _, err := s.Recent(ctx, 0); err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if repo.listInLimit != DefaultTopLimit {
		t.Fatalf("want default recent limit %d, got %d", DefaultTopLimit, repo.listInLimit)
	}

	if _, err := s.MostViewed(ctx, 3); err != nil {
		t.Fatalf("MostViewed: %v", err)
	}
	if repo.mostInLimit != 3 {
		t.Fatalf("want limit 3, got %d", repo.mostInLimit)
	}

	// Category id 0 drops the filter and lists everything active, uncapped.
	if _, err := s.ByCategory(ctx, 0); err != nil {
		t.Fatalf("ByCategory(0): %v", err)
	}
	if repo.listAllCalls != 1 {
		t.Fatalf("ByCategory(0) should route to the uncapped listing")
	}
	if _, err := s.ByCategory(ctx, 5); err != nil {
		t.Fatalf("ByCategory: %v", err)
	}
	if repo.byCatIn != 5 {
		t.Fatalf("want category 5, got %d", repo.byCatIn)
	}

	if _, err := s.ByAuthor(ctx, "bob"); err != nil {
		t.Fatalf("ByAuthor: %v", err)
	}
	if repo.byAuthorIn != "bob" {
		t.Fatalf("want author bob, got %q", repo.byAuthorIn)
	}

	repo.listErr = errors.New("boom")
	repo.listAllErr = errors.New("boom")
	repo.mostErr = errors.New("boom")
	repo.byCatErr = errors.New("boom")
	repo.byAuthorErr = errors.New("boom")
	if out, err := s.ListActive(ctx, 5); err != nil || len(out) != 0 {
		t.Fatalf("ListActive on storage error: %v, %d rows", err, len(out))
	}
	if out, err := s.Recent(ctx, 5); err != nil || len(out) != 0 {
		t.Fatalf("Recent on storage error: %v, %d rows", err, len(out))
	}
	if out, err := s.MostViewed(ctx, 5); err != nil || len(out) != 0 {
		t.Fatalf("MostViewed on storage error: %v, %d rows", err, len(out))
	}
	if out, err := s.ByCategory(ctx, 5); err != nil || len(out) != 0 {
		t.Fatalf("ByCategory on storage error: %v, %d rows", err, len(out))
	}
	if out, err := s.ByCategory(ctx, 0); err != nil || len(out) != 0 {
		t.Fatalf("ByCategory(0) on storage error: %v, %d rows", err, len(out))
	}
	if out, err := s.ByAuthor(ctx, "bob"); err != nil || len(out) != 0 {
		t.Fatalf("ByAuthor on storage error: %v, %d rows", err, len(out))
	}
}
