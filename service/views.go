package service

import (
	"context"

	"github.com/josh34hsr/recipe-keeper/errs"
	"github.com/josh34hsr/recipe-keeper/repository"
)

// ViewService records who viewed what. Every view bumps the recipe's global
// counter, the per-user counter, and the event log together.
type ViewService interface {
	// Record registers one view of the recipe by the user.
	Record(ctx context.Context, recipeID int64, username string) error
}

type ViewServiceImpl struct {
	views repository.ViewRepository
}

// NewViewService constructs ViewService.
func NewViewService(views repository.ViewRepository) *ViewServiceImpl {
	return &ViewServiceImpl{views: views}
}

// Record counts a view. Unknown recipe ids return errs.ErrNotFound; repeated
// calls keep counting, there is no dedup window.
func (s *ViewServiceImpl) Record(ctx context.Context, recipeID int64, username string) error {
	if username == "" {
		return errs.Validationf("username cannot be empty")
	}
	return s.views.RecordView(ctx, recipeID, username)
}
