// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/josh34hsr/recipe-keeper/model"
)

// UserRepository provides account rows and the admin user listings.
type UserRepository interface {
	// Create inserts a new user and returns the generated id.
	Create(ctx context.Context, u *model.User) (int64, error)
	// GetByUsername loads a user by username.
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	// TouchLastLogin stamps last_login with the current time.
	TouchLastLogin(ctx context.Context, username string) error
	// Delete removes the user after soft-deleting all their active recipes.
	// The delete events are attributed to actingUsername.
	Delete(ctx context.Context, username, actingUsername string) error
	// List returns every user, newest first.
	List(ctx context.Context) ([]model.User, error)
	// SearchByPrefix returns users whose name starts with prefix,
	// case-insensitive, ordered by username.
	SearchByPrefix(ctx context.Context, prefix string) ([]model.User, error)
}
