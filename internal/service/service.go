// Package service holds the use cases behind the API: input validation, calls into the
// read-only repository, and the derived metrics computed from what it returns.
package service

import (
	"context"
	"errors"

	"github.com/DanNano/FFQueryAnalyzer/internal/model"
)

// ErrInvalidInput is the marker error for aggregated validation failures (maps to HTTP 400).
// Field-level details are retrieved via FieldErrors(err).
var ErrInvalidInput = errors.New("invalid input")

// FieldError describes a single invalid field in a client request.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// invalidInputError aggregates multiple FieldError instances and unwraps to ErrInvalidInput.
type invalidInputError struct {
	fields []FieldError
}

func (e *invalidInputError) Error() string        { return ErrInvalidInput.Error() }
func (e *invalidInputError) Unwrap() error        { return ErrInvalidInput }
func (e *invalidInputError) Fields() []FieldError { return e.fields }

// NewInvalidInputError builds an aggregated validation error if any field errors are present.
// Handlers use it for binding failures so both layers share one error shape.
func NewInvalidInputError(fe []FieldError) error {
	if len(fe) == 0 {
		return nil
	}
	return &invalidInputError{fields: fe}
}

// FieldErrors extracts field errors from an aggregated validation error.
func FieldErrors(err error) []FieldError {
	if err == nil {
		return nil
	}
	type feIface interface{ Fields() []FieldError }
	var v feIface
	if errors.As(err, &v) && errors.Is(err, ErrInvalidInput) {
		return v.Fields()
	}
	return nil
}

// AnalyticsService defines the read-only stat queries. Every call runs one repository statement.
type AnalyticsService interface {
	TotalRows(ctx context.Context) (int64, error)
	PlayerFantasyPoints(ctx context.Context, playerID string) ([]model.PlayerSeasonMetric, error)
	// TopFantasySeasons ranks player-seasons inside w by fantasy points per game.
	TopFantasySeasons(ctx context.Context, w model.SeasonWindow) ([]model.PlayerSeasonMetric, error)
	// FindPlayers returns repository.ErrNotFound when nothing matches.
	FindPlayers(ctx context.Context, name string) ([]model.PlayerLookup, error)
	TargetShare(ctx context.Context, playerID string) ([]model.PlayerSeasonMetric, error)
	GoalLineCarryShare(ctx context.Context, playerID string) ([]model.PlayerSeasonMetric, error)
	SnapCountShare(ctx context.Context, playerID string) ([]model.PlayerSeasonMetric, error)
	TouchdownShare(ctx context.Context, playerID string) ([]model.PlayerSeasonMetric, error)
	TopTouchdownShare(ctx context.Context, q model.LeaderQuery) ([]model.PlayerSeasonMetric, error)
	TopTargetShare(ctx context.Context, q model.LeaderQuery) ([]model.PlayerSeasonMetric, error)
}
