package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/josh34hsr/recipe-keeper/model"
	"github.com/josh34hsr/recipe-keeper/repository"
)

// ReportService serves the read-only admin views: the stats dashboard and
// the user listings.
type ReportService interface {
	// SystemStats returns the dashboard snapshot.
	SystemStats(ctx context.Context) (model.SystemStats, error)
	// ListAllUsers returns every account, newest first.
	ListAllUsers(ctx context.Context) ([]model.User, error)
	// SearchUsers finds accounts by case-insensitive username prefix. A blank
	// query returns all accounts, newest first, like ListAllUsers.
	SearchUsers(ctx context.Context, query string) ([]model.User, error)
}

type ReportServiceImpl struct {
	stats repository.StatsRepository
	users repository.UserRepository
	log   *zap.Logger
}

// NewReportService constructs ReportService.
func NewReportService(stats repository.StatsRepository, users repository.UserRepository, log *zap.Logger) *ReportServiceImpl {
	return &ReportServiceImpl{stats: stats, users: users, log: log}
}

// SystemStats returns the aggregates. Storage errors degrade to zero stats.
func (s *ReportServiceImpl) SystemStats(ctx context.Context) (model.SystemStats, error) {
	out, err := s.stats.SystemStats(ctx)
	if err != nil {
		s.log.Error("system stats", zap.Error(err))
		return model.SystemStats{}, nil
	}
	return out, nil
}

// ListAllUsers returns every account, newest first. Storage errors degrade
// to an empty result.
func (s *ReportServiceImpl) ListAllUsers(ctx context.Context) ([]model.User, error) {
	out, err := s.users.List(ctx)
	if err != nil {
		s.log.Error("list users", zap.Error(err))
		return []model.User{}, nil
	}
	return out, nil
}

// SearchUsers routes a blank query to the full listing (created_at DESC) and
// a non-blank one to the prefix match (username ASC). The two orderings are
// intentionally different.
func (s *ReportServiceImpl) SearchUsers(ctx context.Context, query string) ([]model.User, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return s.ListAllUsers(ctx)
	}
	out, err := s.users.SearchByPrefix(ctx, q)
	if err != nil {
		s.log.Error("search users", zap.String("query", q), zap.Error(err))
		return []model.User{}, nil
	}
	return out, nil
}
