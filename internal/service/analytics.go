package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/DanNano/FFQueryAnalyzer/internal/model"
	"github.com/DanNano/FFQueryAnalyzer/internal/repository"
	"github.com/DanNano/FFQueryAnalyzer/internal/scoring"
	"github.com/rs/zerolog"
)

type analyticsService struct {
	repo    repository.AnalyticsRepository
	weights scoring.Weights
	log     zerolog.Logger
}

func NewAnalyticsService(repo repository.AnalyticsRepository, weights scoring.Weights, logger zerolog.Logger) AnalyticsService {
	l := logger.With().Str("module", "service").Str("component", "analytics").Logger()
	return &analyticsService{repo: repo, weights: weights, log: l}
}

func (s *analyticsService) TotalRows(ctx context.Context) (int64, error) {
	start := time.Now()
	n, err := s.repo.CountAllRows(ctx)
	if err != nil {
		return 0, err
	}
	s.log.Debug().Dur("took", time.Since(start)).Int64("rows", n).Msg("total rows counted")
	return n, nil
}

func (s *analyticsService) PlayerFantasyPoints(ctx context.Context, playerID string) ([]model.PlayerSeasonMetric, error) {
	playerID = strings.TrimSpace(playerID)
	if err := NewInvalidInputError(checkPlayerID("playerid", playerID)); err != nil {
		return nil, err
	}
	totals, err := s.repo.SeasonTotalsByPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	return s.fantasy(totals), nil
}

func (s *analyticsService) TopFantasySeasons(ctx context.Context, w model.SeasonWindow) ([]model.PlayerSeasonMetric, error) {
	start := time.Now()
	if ferrs := validateWindow(w); len(ferrs) > 0 {
		s.log.Debug().Interface("field_errors", ferrs).Msg("season window validation failed")
		return nil, NewInvalidInputError(ferrs)
	}
	totals, err := s.repo.QualifiedSeasonTotals(ctx, w)
	if err != nil {
		return nil, err
	}
	out := rankByValue(s.fantasy(totals))
	if len(out) > w.Limit {
		out = out[:w.Limit]
	}
	s.log.Debug().Dur("took", time.Since(start)).Int("candidates", len(totals)).Int("returned", len(out)).Msg("fantasy leaderboard built")
	return out, nil
}

func (s *analyticsService) FindPlayers(ctx context.Context, name string) ([]model.PlayerLookup, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewInvalidInputError([]FieldError{{Field: "name", Message: "must not be empty"}})
	}
	hits, err := s.repo.PlayersByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, repository.ErrNotFound
	}
	return hits, nil
}

func (s *analyticsService) TargetShare(ctx context.Context, playerID string) ([]model.PlayerSeasonMetric, error) {
	return s.playerShare(ctx, playerID, s.repo.TargetCounts)
}

func (s *analyticsService) GoalLineCarryShare(ctx context.Context, playerID string) ([]model.PlayerSeasonMetric, error) {
	return s.playerShare(ctx, playerID, s.repo.GoalLineCarryCounts)
}

func (s *analyticsService) SnapCountShare(ctx context.Context, playerID string) ([]model.PlayerSeasonMetric, error) {
	return s.playerShare(ctx, playerID, s.repo.SnapCounts)
}

func (s *analyticsService) TouchdownShare(ctx context.Context, playerID string) ([]model.PlayerSeasonMetric, error) {
	return s.playerShare(ctx, playerID, s.repo.TouchdownCounts)
}

func (s *analyticsService) TopTouchdownShare(ctx context.Context, q model.LeaderQuery) ([]model.PlayerSeasonMetric, error) {
	return s.leaderShare(ctx, q, s.repo.TopTouchdownCounts)
}

func (s *analyticsService) TopTargetShare(ctx context.Context, q model.LeaderQuery) ([]model.PlayerSeasonMetric, error) {
	return s.leaderShare(ctx, q, s.repo.TopTargetCounts)
}

func (s *analyticsService) playerShare(ctx context.Context, playerID string, fetch func(context.Context, string) ([]model.ShareCounts, error)) ([]model.PlayerSeasonMetric, error) {
	playerID = strings.TrimSpace(playerID)
	if err := NewInvalidInputError(checkPlayerID("playerid", playerID)); err != nil {
		return nil, err
	}
	counts, err := fetch(ctx, playerID)
	if err != nil {
		return nil, err
	}
	return shares(counts), nil
}

// leaderShare keeps the repository's order; ranking happens in SQL.
func (s *analyticsService) leaderShare(ctx context.Context, q model.LeaderQuery, fetch func(context.Context, model.LeaderQuery) ([]model.ShareCounts, error)) ([]model.PlayerSeasonMetric, error) {
	if ferrs := validateLeaderQuery(q); len(ferrs) > 0 {
		s.log.Debug().Interface("field_errors", ferrs).Msg("leaderboard validation failed")
		return nil, NewInvalidInputError(ferrs)
	}
	counts, err := fetch(ctx, q)
	if err != nil {
		return nil, err
	}
	return shares(counts), nil
}

func (s *analyticsService) fantasy(totals []model.SeasonTotals) []model.PlayerSeasonMetric {
	out := make([]model.PlayerSeasonMetric, 0, len(totals))
	for _, t := range totals {
		out = append(out, s.weights.FantasyMetric(t))
	}
	return out
}

func shares(counts []model.ShareCounts) []model.PlayerSeasonMetric {
	out := make([]model.PlayerSeasonMetric, 0, len(counts))
	for _, c := range counts {
		out = append(out, scoring.ShareMetric(c))
	}
	return out
}

// rankByValue sorts descending by value with missing values last; ties go to name, then year.
func rankByValue(rows []model.PlayerSeasonMetric) []model.PlayerSeasonMetric {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		switch {
		case a.Value == nil && b.Value == nil:
		case a.Value == nil:
			return false
		case b.Value == nil:
			return true
		case *a.Value != *b.Value:
			return *a.Value > *b.Value
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Year < b.Year
	})
	return rows
}

var _ AnalyticsService = (*analyticsService)(nil)
