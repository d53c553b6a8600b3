// Package recipekeeper is a PostgreSQL-backed persistence layer for a recipe
// collection: user accounts, categories, recipes with ingredients, per-user
// view counters, and an append-only event log. Open returns a Store whose
// sub-stores carry the whole operation surface; the UI layer on top is not
// part of this module.
package recipekeeper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/josh34hsr/recipe-keeper/internal/crypto"
	"github.com/josh34hsr/recipe-keeper/internal/limiter"
	"github.com/josh34hsr/recipe-keeper/internal/migrate"
	"github.com/josh34hsr/recipe-keeper/repository/postgres"
	"github.com/josh34hsr/recipe-keeper/service"
)

// Login lockout defaults applied by Open.
const (
	defaultLoginWindow   = 15 * time.Minute
	defaultLoginMaxFails = 5
	defaultLoginBlockFor = 15 * time.Minute
)

// Config carries everything Open needs. Only DSN is required.
type Config struct {
	// DSN is the PostgreSQL connection string.
	DSN string
	// Logger receives skip warnings and read-degradation notices from the
	// services. Nil disables logging.
	Logger *zap.Logger
	// Hasher overrides the password hashing primitive. Nil selects argon2id
	// with per-user salts.
	Hasher service.PasswordHasher

	// Login lockout tuning; zero values select 15m / 5 / 15m.
	LoginWindow   time.Duration
	LoginMaxFails int
	LoginBlockFor time.Duration
}

func (cfg Config) withDefaults() Config {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Hasher == nil {
		cfg.Hasher = crypto.Argon2id{}
	}
	if cfg.LoginWindow <= 0 {
		cfg.LoginWindow = defaultLoginWindow
	}
	if cfg.LoginMaxFails <= 0 {
		cfg.LoginMaxFails = defaultLoginMaxFails
	}
	if cfg.LoginBlockFor <= 0 {
		cfg.LoginBlockFor = defaultLoginBlockFor
	}
	return cfg
}

// Store bundles the five stores over one connection pool.
type Store struct {
	Credentials service.CredentialService
	Categories  service.CategoryService
	Recipes     service.RecipeService
	Views       service.ViewService
	Reports     service.ReportService

	db *postgres.DB
}

// Open applies the embedded migrations, connects to the database, and wires
// repositories and services. The returned Store is safe for concurrent use.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, errors.New("recipekeeper: empty DSN")
	}
	cfg = cfg.withDefaults()

	if err := migrate.Up(ctx, cfg.DSN); err != nil {
		return nil, err
	}

	db, err := postgres.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	userRepo := postgres.NewUserRepo(db)
	categoryRepo := postgres.NewCategoryRepo(db)
	recipeRepo := postgres.NewRecipeRepo(db)
	viewRepo := postgres.NewViewRepo(db)
	statsRepo := postgres.NewStatsRepo(db)

	lim := limiter.NewPG(db.Pool, cfg.LoginWindow, cfg.LoginMaxFails, cfg.LoginBlockFor)

	return &Store{
		Credentials: service.NewCredentialService(userRepo, cfg.Hasher, lim),
		Categories:  service.NewCategoryService(categoryRepo, cfg.Logger),
		Recipes:     service.NewRecipeService(recipeRepo, cfg.Logger),
		Views:       service.NewViewService(viewRepo),
		Reports:     service.NewReportService(statsRepo, userRepo, cfg.Logger),
		db:          db,
	}, nil
}

// Close releases the connection pool.
func (s *Store) Close() { s.db.Close() }
