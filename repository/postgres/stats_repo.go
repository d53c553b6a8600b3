package postgres

import (
	"context"

	"github.com/josh34hsr/recipe-keeper/model"
)

// StatsRepo implements StatsRepository using PostgreSQL.
type StatsRepo struct{ db *DB }

// NewStatsRepo constructs a stats repository.
func NewStatsRepo(db *DB) *StatsRepo { return &StatsRepo{db: db} }

// SystemStats gathers the dashboard aggregates. The counts run as separate
// queries in a fixed order; the snapshot is not transactional.
func (r *StatsRepo) SystemStats(ctx context.Context) (model.SystemStats, error) {
	var s model.SystemStats

	counts := []struct {
		q    string
		dest *int64
	}{
		{`SELECT COUNT(*) FROM users`, &s.TotalUsers},
		{`SELECT COUNT(*) FROM recipes WHERE status='active'`, &s.ActiveRecipes},
		{`SELECT COUNT(*) FROM categories`, &s.TotalCategories},
		{`SELECT COALESCE(SUM(views), 0) FROM recipes WHERE status='active'`, &s.TotalViews},
		{`SELECT COUNT(*) FROM recipe_events WHERE event_time >= now() - interval '7 days'`, &s.RecentEvents},
		{`SELECT COUNT(*) FROM recipes WHERE created_at >= now() - interval '7 days' AND status='active'`, &s.RecentRecipes},
	}
	for _, c := range counts {
		if err := r.db.Pool.QueryRow(ctx, c.q).Scan(c.dest); err != nil {
			return model.SystemStats{}, err
		}
	}

	const topQ = `
SELECT created_by, COUNT(*) AS recipe_count, COALESCE(SUM(views), 0) AS total_views
FROM recipes
WHERE status='active'
GROUP BY created_by
ORDER BY recipe_count DESC, created_by ASC
LIMIT 5`
	rows, err := r.db.Pool.Query(ctx, topQ)
	if err != nil {
		return model.SystemStats{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var a model.AuthorStats
		if err := rows.Scan(&a.Username, &a.RecipeCount, &a.TotalViews); err != nil {
			return model.SystemStats{}, err
		}
		s.TopUsers = append(s.TopUsers, a)
	}
	if err := rows.Err(); err != nil {
		return model.SystemStats{}, err
	}
	return s, nil
}
