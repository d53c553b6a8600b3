package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/josh34hsr/recipe-keeper/errs"
	"github.com/josh34hsr/recipe-keeper/model"
)

// ViewRepo implements ViewRepository using PostgreSQL.
type ViewRepo struct{ db *DB }

// NewViewRepo constructs a view repository.
func NewViewRepo(db *DB) *ViewRepo { return &ViewRepo{db: db} }

// RecordView bumps the recipe's total counter, upserts the per-user counter,
// and appends the view event in one transaction. Both increments happen in
// SQL, so concurrent calls are never lost to read-modify-write races.
func (v *ViewRepo) RecordView(ctx context.Context, recipeID int64, username string) (err error) {
	tx, err := v.db.Pool.BeginTx(ctx, pgx.TxOptions{})
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

	const bump = `UPDATE recipes SET views = views + 1 WHERE id=$1`
	tag, err := tx.Exec(ctx, bump, recipeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}

	const upsert = `
INSERT INTO user_recipe_views (username, recipe_id, view_count)
VALUES ($1, $2, 1)
ON CONFLICT (username, recipe_id)
DO UPDATE SET view_count = user_recipe_views.view_count + 1, last_viewed = now()`
	if _, err = tx.Exec(ctx, upsert, username, recipeID); err != nil {
		return err
	}

	err = insertEventTx(ctx, tx, recipeID, username, model.EventView)
	return err
}
