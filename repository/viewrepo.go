package repository

import "context"

// ViewRepository records recipe views.
type ViewRepository interface {
	// RecordView bumps the recipe's total counter, upserts the per-user
	// counter, and appends a view event, all in one transaction.
	RecordView(ctx context.Context, recipeID int64, username string) error
}
