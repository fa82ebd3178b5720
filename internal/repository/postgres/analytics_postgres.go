package postgres

import (
	"context"
	"strings"

	"github.com/DanNano/FFQueryAnalyzer/internal/model"
	"github.com/DanNano/FFQueryAnalyzer/internal/repository"
	"github.com/jackc/pgx/v5"
)

type analyticsRepository struct{ scope repository.SessionScope }

func NewAnalyticsRepository(scope repository.SessionScope) repository.AnalyticsRepository {
	return &analyticsRepository{scope: scope}
}

func (r *analyticsRepository) CountAllRows(ctx context.Context) (int64, error) {
	totals, err := collect(ctx, r.scope, qTotalRows, totalRowsSQL, pgx.RowTo[int64])
	if err != nil {
		return 0, err
	}
	if len(totals) == 0 {
		return 0, nil
	}
	return totals[0], nil
}

func (r *analyticsRepository) SeasonTotalsByPlayer(ctx context.Context, playerID string) ([]model.SeasonTotals, error) {
	return collect(ctx, r.scope, qSeasonTotals, seasonTotalsSQL, pgx.RowToStructByName[model.SeasonTotals], playerID)
}

func (r *analyticsRepository) QualifiedSeasonTotals(ctx context.Context, w model.SeasonWindow) ([]model.SeasonTotals, error) {
	return collect(ctx, r.scope, qQualifiedTotals, qualifiedTotalsSQL, pgx.RowToStructByName[model.SeasonTotals],
		w.From, w.To, w.MinSeasons)
}

func (r *analyticsRepository) PlayersByName(ctx context.Context, name string) ([]model.PlayerLookup, error) {
	pattern := "%" + escapeLike(name) + "%"
	return collect(ctx, r.scope, qPlayersByName, playersByNameSQL, pgx.RowToStructByName[model.PlayerLookup], pattern)
}

func (r *analyticsRepository) TargetCounts(ctx context.Context, playerID string) ([]model.ShareCounts, error) {
	return r.shares(ctx, qTargetShare, targetShareSQL, playerID)
}

func (r *analyticsRepository) GoalLineCarryCounts(ctx context.Context, playerID string) ([]model.ShareCounts, error) {
	return r.shares(ctx, qGoalLineCarries, goalLineShareSQL, playerID)
}

func (r *analyticsRepository) SnapCounts(ctx context.Context, playerID string) ([]model.ShareCounts, error) {
	return r.shares(ctx, qSnapCounts, snapCountsSQL, playerID)
}

func (r *analyticsRepository) TouchdownCounts(ctx context.Context, playerID string) ([]model.ShareCounts, error) {
	return r.shares(ctx, qTouchdownShare, touchdownShareSQL, playerID)
}

func (r *analyticsRepository) TopTouchdownCounts(ctx context.Context, q model.LeaderQuery) ([]model.ShareCounts, error) {
	return r.shares(ctx, qTopTouchdowns, topTouchdownsSQL, q.Year, q.Limit, q.Minimum)
}

func (r *analyticsRepository) TopTargetCounts(ctx context.Context, q model.LeaderQuery) ([]model.ShareCounts, error) {
	return r.shares(ctx, qTopTargets, topTargetsSQL, q.Year, q.Limit, q.Minimum)
}

func (r *analyticsRepository) shares(ctx context.Context, name, sql string, args ...any) ([]model.ShareCounts, error) {
	return collect(ctx, r.scope, name, sql, pgx.RowToStructByName[model.ShareCounts], args...)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes name match literally inside a LIKE pattern.
func escapeLike(name string) string { return likeEscaper.Replace(name) }

var _ repository.AnalyticsRepository = (*analyticsRepository)(nil)
