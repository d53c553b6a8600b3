package repository

import (
	"context"

	"github.com/josh34hsr/recipe-keeper/model"
)

// StatsRepository computes the reporting aggregates.
type StatsRepository interface {
	// SystemStats returns the dashboard snapshot in one pass.
	SystemStats(ctx context.Context) (model.SystemStats, error)
}
