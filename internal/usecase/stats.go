package usecase

import (
	"context"

	"auditcollective/internal/domain/collective"
)

const leaderboardLimit = 20

type MetricsView struct {
	Leaderboard []collective.User
	Stats       FindingStats
}

// Metrics is a pure read-side aggregation: the auditor leaderboard (score
// descending, user id as the stable tiebreak, top 20) plus global finding
// counts. Nothing is cached; both queries run fresh per request.
func (s *Service) Metrics(ctx context.Context) (MetricsView, error) {
	leaderboard, err := s.repos.Users.Leaderboard(ctx, leaderboardLimit)
	if err != nil {
		return MetricsView{}, err
	}
	stats, err := s.repos.Findings.CountByStatus(ctx)
	if err != nil {
		return MetricsView{}, err
	}
	return MetricsView{Leaderboard: leaderboard, Stats: stats}, nil
}
