package repository

import (
	"context"
	"time"

	"github.com/DanNano/FFQueryAnalyzer/internal/model"
	"github.com/jackc/pgx/v5"
)

// Pinger represents a minimal readiness probe capability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Querier is the read-only surface a session exposes to repository code.
// Both *pgx.Conn and *pgxpool.Conn satisfy it.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Session is one database connection owned by one request.
type Session interface {
	Querier
	Ping(ctx context.Context) error
	// Release hands the connection back (pool) or closes it (direct). Called exactly once.
	Release(ctx context.Context) error
}

// SessionProvider opens sessions.
type SessionProvider interface {
	Acquire(ctx context.Context) (Session, error)
}

// SessionFunc is the unit of work executed against a single session.
type SessionFunc func(ctx context.Context, q Querier) error

// SessionScope runs fn inside a freshly acquired session and releases it on every exit path.
// name labels the statement in logs and metrics.
type SessionScope interface {
	WithinSession(ctx context.Context, name string, fn SessionFunc) error
}

// QueryObserver receives session lifecycle events; the metrics package implements it.
type QueryObserver interface {
	SessionAcquired(err error)
	QueryFinished(name string, took time.Duration, err error)
	SessionReleased(err error)
}

// AnalyticsRepository declares the fixed read queries behind the API.
// Every method runs exactly one statement in its own session.
type AnalyticsRepository interface {
	// CountAllRows sums the row counts of every table in the schema.
	CountAllRows(ctx context.Context) (int64, error)
	SeasonTotalsByPlayer(ctx context.Context, playerID string) ([]model.SeasonTotals, error)
	// QualifiedSeasonTotals returns season rows for players with at least w.MinSeasons distinct
	// seasons inside the window. Ranking is left to the caller.
	QualifiedSeasonTotals(ctx context.Context, w model.SeasonWindow) ([]model.SeasonTotals, error)
	// PlayersByName matches name as a case-insensitive substring.
	PlayersByName(ctx context.Context, name string) ([]model.PlayerLookup, error)
	TargetCounts(ctx context.Context, playerID string) ([]model.ShareCounts, error)
	GoalLineCarryCounts(ctx context.Context, playerID string) ([]model.ShareCounts, error)
	SnapCounts(ctx context.Context, playerID string) ([]model.ShareCounts, error)
	TouchdownCounts(ctx context.Context, playerID string) ([]model.ShareCounts, error)
	// TopTouchdownCounts and TopTargetCounts rank by share, descending, inside SQL.
	TopTouchdownCounts(ctx context.Context, q model.LeaderQuery) ([]model.ShareCounts, error)
	TopTargetCounts(ctx context.Context, q model.LeaderQuery) ([]model.ShareCounts, error)
}
