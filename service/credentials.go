package service

import (
	"context"
	"time"

	"github.com/josh34hsr/recipe-keeper/errs"
	"github.com/josh34hsr/recipe-keeper/model"
	"github.com/josh34hsr/recipe-keeper/repository"
	"github.com/josh34hsr/recipe-keeper/validate"
)

// PasswordHasher turns a password into a stored digest and back-checks it.
// The store treats hashing as an opaque primitive behind this interface.
type PasswordHasher interface {
	// NewSalt returns a fresh per-user salt.
	NewSalt() ([]byte, error)
	// Hash derives the digest for password under salt.
	Hash(password, salt []byte) []byte
	// Verify reports whether password matches the expected digest.
	Verify(password, salt, expected []byte) bool
}

// LoginLimiter throttles repeated failed logins per account.
type LoginLimiter interface {
	// Allow reports whether login is currently allowed and optional retry-after.
	Allow(ctx context.Context, username string) (bool, time.Duration, error)
	// Success resets counters after a successful login.
	Success(ctx context.Context, username string) error
	// Failure records a failed attempt; may place a temporary block.
	Failure(ctx context.Context, username string) (bool, time.Duration, error)
}

// CredentialService defines account registration, login, and removal.
type CredentialService interface {
	// Register creates a new account and returns its id.
	Register(ctx context.Context, username, password string, role model.Role) (int64, error)
	// Login authenticates the account and returns its stored role.
	Login(ctx context.Context, username, password string) (model.Role, error)
	// Delete removes the account, soft-deleting its recipes first.
	Delete(ctx context.Context, username, actingUsername string) error
}

type CredentialServiceImpl struct {
	users  repository.UserRepository
	hasher PasswordHasher
	lim    LoginLimiter
}

// NewCredentialService constructs CredentialService with required dependencies.
func NewCredentialService(users repository.UserRepository, hasher PasswordHasher, lim LoginLimiter) *CredentialServiceImpl {
	return &CredentialServiceImpl{users: users, hasher: hasher, lim: lim}
}

// Register validates the credentials, hashes the password with a fresh salt,
// and inserts the account. An empty role defaults to model.RoleUser. A taken
// username returns errs.ErrAlreadyExists.
func (s *CredentialServiceImpl) Register(ctx context.Context, username, password string, role model.Role) (int64, error) {
	name, err := validate.Username(username)
	if err != nil {
		return 0, err
	}
	if _, err := validate.Password(password); err != nil {
		return 0, err
	}
	if role == "" {
		role = model.RoleUser
	}
	if !role.Valid() {
		return 0, errs.Validationf("role must be %q or %q", model.RoleUser, model.RoleAdmin)
	}

	salt, err := s.hasher.NewSalt()
	if err != nil {
		return 0, err
	}
	u := &model.User{
		Username:     name,
		PasswordHash: s.hasher.Hash([]byte(password), salt),
		PasswordSalt: salt,
		Role:         role,
	}
	return s.users.Create(ctx, u)
}

// Login authenticates with per-account lockout. Wrong password and unknown
// account both come back as errs.ErrUnauthorized; a locked account comes back
// as errs.ErrRateLimited. On success last_login is stamped and the stored
// role returned.
func (s *CredentialServiceImpl) Login(ctx context.Context, username, password string) (model.Role, error) {
	name, err := validate.Username(username)
	if err != nil {
		return "", err
	}
	if _, err := validate.Password(password); err != nil {
		return "", err
	}

	allowed, _, err := s.lim.Allow(ctx, name)
	if err != nil {
		return "", err
	}
	if !allowed {
		return "", errs.ErrRateLimited
	}

	u, err := s.users.GetByUsername(ctx, name)
	if err != nil || !s.hasher.Verify([]byte(password), u.PasswordSalt, u.PasswordHash) {
		// Record the failure; at the threshold report the block instead.
		if blocked, _, ferr := s.lim.Failure(ctx, name); ferr == nil && blocked {
			return "", errs.ErrRateLimited
		}
		// Hide whether the account exists.
		return "", errs.ErrUnauthorized
	}

	// Success: reset counters (best-effort).
	_ = s.lim.Success(ctx, name)

	if err := s.users.TouchLastLogin(ctx, name); err != nil {
		return "", err
	}
	return u.Role, nil
}

// Delete removes the account after soft-deleting all of its active recipes.
// The cascade's delete events are attributed to actingUsername.
func (s *CredentialServiceImpl) Delete(ctx context.Context, username, actingUsername string) error {
	if username == "" {
		return errs.Validationf("username cannot be empty")
	}
	if actingUsername == "" {
		return errs.Validationf("acting username cannot be empty")
	}
	return s.users.Delete(ctx, username, actingUsername)
}
