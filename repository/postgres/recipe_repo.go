package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/josh34hsr/recipe-keeper/errs"
	"github.com/josh34hsr/recipe-keeper/model"
)

// RecipeRepo implements RecipeRepository using PostgreSQL.
type RecipeRepo struct{ db *DB }

// NewRecipeRepo constructs a recipe repository.
func NewRecipeRepo(db *DB) *RecipeRepo { return &RecipeRepo{db: db} }

// Create inserts the recipe with its links, ingredients, counters and the
// create event in one transaction. Unknown category ids are skipped and
// returned rather than failing the write.
func (r *RecipeRepo) Create(ctx context.Context, p model.CreateRecipeParams) (id int64, skipped []int64, err error) {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			err = e
		}
	}()

	const ins = `
INSERT INTO recipes (title, instructions, prep_time, created_by)
VALUES ($1, $2, $3, $4)
RETURNING id`
	if err = tx.QueryRow(ctx, ins, p.Title, p.Instructions, p.PrepTime, p.Author).Scan(&id); err != nil {
		return 0, nil, err
	}

	const bumpAuthor = `UPDATE users SET recipe_count = recipe_count + 1 WHERE username=$1`
	if _, err = tx.Exec(ctx, bumpAuthor, p.Author); err != nil {
		return 0, nil, err
	}

	if err = insertEventTx(ctx, tx, id, p.Author, model.EventCreate); err != nil {
		return 0, nil, err
	}

	if skipped, err = linkCategoriesTx(ctx, tx, id, p.CategoryIDs); err != nil {
		return 0, nil, err
	}

	const insIng = `INSERT INTO recipe_ingredients (recipe_id, ingredient, quantity) VALUES ($1, $2, $3)`
	for _, ing := range p.Ingredients {
		if _, err = tx.Exec(ctx, insIng, id, ing.Ingredient, ing.Quantity); err != nil {
			return 0, nil, err
		}
	}
	return id, skipped, nil
}

// Update rewrites an active recipe's fields and optionally replaces its links
// and ingredients. The edit event is attributed to the stored author.
func (r *RecipeRepo) Update(ctx context.Context, id int64, p model.UpdateRecipeParams) (skipped []int64, err error) {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			err = e
		}
	}()

	const upd = `
UPDATE recipes
SET title=$2, instructions=$3, prep_time=$4, updated_at=now()
WHERE id=$1 AND status='active'
RETURNING created_by`
	var author string
	if err = tx.QueryRow(ctx, upd, id, p.Title, p.Instructions, p.PrepTime).Scan(&author); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}

	if p.ReplaceCategories {
		const unbump = `
UPDATE categories SET recipe_count = recipe_count - 1
WHERE id IN (SELECT category_id FROM recipe_categories WHERE recipe_id=$1)`
		if _, err = tx.Exec(ctx, unbump, id); err != nil {
			return nil, err
		}
		const unlink = `DELETE FROM recipe_categories WHERE recipe_id=$1`
		if _, err = tx.Exec(ctx, unlink, id); err != nil {
			return nil, err
		}
		if skipped, err = linkCategoriesTx(ctx, tx, id, p.CategoryIDs); err != nil {
			return nil, err
		}
	}

	if p.ReplaceIngredients {
		const del = `DELETE FROM recipe_ingredients WHERE recipe_id=$1`
		if _, err = tx.Exec(ctx, del, id); err != nil {
			return nil, err
		}
		const ins = `INSERT INTO recipe_ingredients (recipe_id, ingredient, quantity) VALUES ($1, $2, $3)`
		for _, ing := range p.Ingredients {
			if _, err = tx.Exec(ctx, ins, id, ing.Ingredient, ing.Quantity); err != nil {
				return nil, err
			}
		}
	}

	if err = insertEventTx(ctx, tx, id, author, model.EventEdit); err != nil {
		return nil, err
	}
	return skipped, nil
}

// SoftDelete marks an active recipe deleted and unwinds its counters.
func (r *RecipeRepo) SoftDelete(ctx context.Context, id int64, actingUsername string) (err error) {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			err = e
		}
	}()

	err = softDeleteRecipeTx(ctx, tx, id, actingUsername)
	return err
}

// Get loads an active recipe with its categories and ingredients.
func (r *RecipeRepo) Get(ctx context.Context, id int64) (*model.RecipeDetails, error) {
	const q = `
SELECT id, title, instructions, views, prep_time, created_by, created_at, updated_at, status
FROM recipes WHERE id=$1 AND status='active'`
	row := r.db.Pool.QueryRow(ctx, q, id)
	var rec model.Recipe
	err := row.Scan(&rec.ID, &rec.Title, &rec.Instructions, &rec.Views, &rec.PrepTime,
		&rec.CreatedBy, &rec.CreatedAt, &rec.UpdatedAt, &rec.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}

	cats, err := r.categoriesFor(ctx, id)
	if err != nil {
		return nil, err
	}
	ings, err := r.ingredientsFor(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.RecipeDetails{Recipe: rec, Categories: cats, Ingredients: ings}, nil
}

func (r *RecipeRepo) categoriesFor(ctx context.Context, recipeID int64) ([]model.Category, error) {
	const q = `
SELECT c.id, c.name, c.recipe_count
FROM categories c
JOIN recipe_categories rc ON rc.category_id = c.id
WHERE rc.recipe_id=$1
ORDER BY c.id ASC`
	rows, err := r.db.Pool.Query(ctx, q, recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.RecipeCount); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *RecipeRepo) ingredientsFor(ctx context.Context, recipeID int64) ([]model.Ingredient, error) {
	const q = `
SELECT id, recipe_id, ingredient, quantity
FROM recipe_ingredients
WHERE recipe_id=$1
ORDER BY id ASC`
	rows, err := r.db.Pool.Query(ctx, q, recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Ingredient
	for rows.Next() {
		var ing model.Ingredient
		if err := rows.Scan(&ing.ID, &ing.RecipeID, &ing.Ingredient, &ing.Quantity); err != nil {
			return nil, err
		}
		out = append(out, ing)
	}
	return out, rows.Err()
}

// ListActive returns active recipes, newest first.
func (r *RecipeRepo) ListActive(ctx context.Context, limit int) ([]model.RecipeSummary, error) {
	const q = `
SELECT id, title, views, prep_time, created_by, created_at
FROM recipes
WHERE status='active'
ORDER BY created_at DESC, id DESC
LIMIT $1`
	rows, err := r.db.Pool.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSummaries(rows)
}

// ListActiveAll returns every active recipe, newest first, with no row cap.
func (r *RecipeRepo) ListActiveAll(ctx context.Context) ([]model.RecipeSummary, error) {
	const q = `
SELECT id, title, views, prep_time, created_by, created_at
FROM recipes
WHERE status='active'
ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSummaries(rows)
}

// MostViewed returns active recipes by descending view count; ties resolve
// by ascending id so the order is stable.
func (r *RecipeRepo) MostViewed(ctx context.Context, limit int) ([]model.RecipeSummary, error) {
	const q = `
SELECT id, title, views, prep_time, created_by, created_at
FROM recipes
WHERE status='active'
ORDER BY views DESC, id ASC
LIMIT $1`
	rows, err := r.db.Pool.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSummaries(rows)
}

// ByCategory returns active recipes linked to the category, newest first.
func (r *RecipeRepo) ByCategory(ctx context.Context, categoryID int64) ([]model.RecipeSummary, error) {
	const q = `
SELECT r.id, r.title, r.views, r.prep_time, r.created_by, r.created_at
FROM recipes r
JOIN recipe_categories rc ON rc.recipe_id = r.id
WHERE rc.category_id=$1 AND r.status='active'
ORDER BY r.created_at DESC, r.id DESC`
	rows, err := r.db.Pool.Query(ctx, q, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSummaries(rows)
}

// ByAuthor returns the author's active recipes, newest first.
func (r *RecipeRepo) ByAuthor(ctx context.Context, username string) ([]model.RecipeSummary, error) {
	const q = `
SELECT id, title, views, prep_time, created_by, created_at
FROM recipes
WHERE created_by=$1 AND status='active'
ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Pool.Query(ctx, q, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSummaries(rows)
}

func scanSummaries(rows pgx.Rows) ([]model.RecipeSummary, error) {
	var out []model.RecipeSummary
	for rows.Next() {
		var s model.RecipeSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.Views, &s.PrepTime, &s.CreatedBy, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// linkCategoriesTx links the recipe to each existing category and bumps its
// counter. Ids without a category row are collected, not fatal.
func linkCategoriesTx(ctx context.Context, tx pgx.Tx, recipeID int64, categoryIDs []int64) ([]int64, error) {
	const sel = `SELECT id FROM categories WHERE id=$1`
	const link = `INSERT INTO recipe_categories (recipe_id, category_id) VALUES ($1, $2)`
	const bump = `UPDATE categories SET recipe_count = recipe_count + 1 WHERE id=$1`

	var skipped []int64
	for _, cid := range categoryIDs {
		var found int64
		scanErr := tx.QueryRow(ctx, sel, cid).Scan(&found)
		switch {
		case scanErr == nil:
			if _, err := tx.Exec(ctx, link, recipeID, cid); err != nil {
				return nil, err
			}
			if _, err := tx.Exec(ctx, bump, cid); err != nil {
				return nil, err
			}
		case errors.Is(scanErr, pgx.ErrNoRows):
			skipped = append(skipped, cid)
		default:
			return nil, scanErr
		}
	}
	return skipped, nil
}

// softDeleteRecipeTx performs the full soft delete inside the caller's
// transaction: status flip, author and category counters, per-user view rows,
// delete event. Fails with ErrNotFound unless the recipe is currently active.
func softDeleteRecipeTx(ctx context.Context, tx pgx.Tx, recipeID int64, actingUsername string) error {
	const sel = `SELECT created_by FROM recipes WHERE id=$1 AND status='active' FOR UPDATE`
	var author string
	if err := tx.QueryRow(ctx, sel, recipeID).Scan(&author); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errs.ErrNotFound
		}
		return err
	}

	const mark = `UPDATE recipes SET status='deleted', updated_at=now() WHERE id=$1`
	if _, err := tx.Exec(ctx, mark, recipeID); err != nil {
		return err
	}

	const dropAuthor = `UPDATE users SET recipe_count = recipe_count - 1 WHERE username=$1`
	if _, err := tx.Exec(ctx, dropAuthor, author); err != nil {
		return err
	}

	const dropCats = `
UPDATE categories SET recipe_count = recipe_count - 1
WHERE id IN (SELECT category_id FROM recipe_categories WHERE recipe_id=$1)`
	if _, err := tx.Exec(ctx, dropCats, recipeID); err != nil {
		return err
	}

	const dropViews = `DELETE FROM user_recipe_views WHERE recipe_id=$1`
	if _, err := tx.Exec(ctx, dropViews, recipeID); err != nil {
		return err
	}

	return insertEventTx(ctx, tx, recipeID, actingUsername, model.EventDelete)
}

func insertEventTx(ctx context.Context, tx pgx.Tx, recipeID int64, username string, et model.EventType) error {
	const q = `INSERT INTO recipe_events (recipe_id, username, event_type) VALUES ($1, $2, $3)`
	_, err := tx.Exec(ctx, q, recipeID, username, et)
	return err
}
