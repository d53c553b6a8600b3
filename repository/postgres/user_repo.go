package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/josh34hsr/recipe-keeper/errs"
	"github.com/josh34hsr/recipe-keeper/model"
)

// UserRepo implements UserRepository using PostgreSQL.
type UserRepo struct{ db *DB }

// NewUserRepo constructs a user repository.
func NewUserRepo(db *DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts a new user row and returns the generated id.
func (r *UserRepo) Create(ctx context.Context, u *model.User) (int64, error) {
	const q = `
INSERT INTO users (username, password_hash, password_salt, role)
VALUES ($1, $2, $3, $4)
RETURNING id`
	var id int64
	err := r.db.Pool.QueryRow(ctx, q, u.Username, u.PasswordHash, u.PasswordSalt, u.Role).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, errs.ErrAlreadyExists
		}
		return 0, err
	}
	return id, nil
}

// GetByUsername selects a user by username, including credential columns.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	const q = `
SELECT id, username, password_hash, password_salt, role, created_at, last_login, recipe_count
FROM users WHERE username=$1`
	row := r.db.Pool.QueryRow(ctx, q, username)
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.PasswordSalt, &u.Role, &u.CreatedAt, &u.LastLogin, &u.RecipeCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// TouchLastLogin stamps last_login with the current time.
func (r *UserRepo) TouchLastLogin(ctx context.Context, username string) error {
	const q = `UPDATE users SET last_login=now() WHERE username=$1`
	tag, err := r.db.Pool.Exec(ctx, q, username)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Delete soft-deletes the user's active recipes and removes the user row,
// all in one transaction. Recipe delete events carry actingUsername.
func (r *UserRepo) Delete(ctx context.Context, username, actingUsername string) (err error) {
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

	const selUser = `SELECT id FROM users WHERE username=$1 FOR UPDATE`
	var userID int64
	if err = tx.QueryRow(ctx, selUser, username).Scan(&userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errs.ErrNotFound
		}
		return err
	}

	// Lock the recipes in id order before touching them.
	const selRecipes = `SELECT id FROM recipes WHERE created_by=$1 AND status='active' ORDER BY id FOR UPDATE`
	rows, err := tx.Query(ctx, selRecipes, username)
	if err != nil {
		return err
	}
	var ids []int64
	for rows.Next() {
		var id int64
		if err = rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return err
	}

	for _, id := range ids {
		if err = softDeleteRecipeTx(ctx, tx, id, actingUsername); err != nil {
			return err
		}
	}

	const delUser = `DELETE FROM users WHERE username=$1`
	if _, err = tx.Exec(ctx, delUser, username); err != nil {
		return err
	}
	return nil
}

// List returns all users, newest first. Credential columns are not loaded.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	const q = `
SELECT id, username, role, created_at, last_login, recipe_count
FROM users
ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanUsers(rows)
}

// SearchByPrefix returns users whose name starts with prefix, case-insensitive.
func (r *UserRepo) SearchByPrefix(ctx context.Context, prefix string) ([]model.User, error) {
	const q = `
SELECT id, username, role, created_at, last_login, recipe_count
FROM users
WHERE username ILIKE $1
ORDER BY username ASC`
	rows, err := r.db.Pool.Query(ctx, q, escapeLike(prefix)+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanUsers(rows)
}

func scanUsers(rows pgx.Rows) ([]model.User, error) {
	var out []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Role, &u.CreatedAt, &u.LastLogin, &u.RecipeCount); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// escapeLike neutralizes LIKE wildcards in user input; backslash is the
// default escape character.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
