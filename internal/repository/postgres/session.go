package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DanNano/FFQueryAnalyzer/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

type poolSession struct{ conn *pgxpool.Conn }

func (s *poolSession) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return s.conn.Query(ctx, sql, args...)
}

func (s *poolSession) Ping(ctx context.Context) error { return s.conn.Ping(ctx) }

func (s *poolSession) Release(context.Context) error {
	s.conn.Release()
	return nil
}

type poolProvider struct{ pool *pgxpool.Pool }

// NewPoolProvider hands out connections borrowed from pool.
func NewPoolProvider(pool *pgxpool.Pool) repository.SessionProvider {
	return &poolProvider{pool: pool}
}

func (p *poolProvider) Acquire(ctx context.Context) (repository.Session, error) {
	if err := ensurePool(p.pool); err != nil {
		return nil, err
	}
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return &poolSession{conn: conn}, nil
}

type directSession struct{ conn *pgx.Conn }

func (s *directSession) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return s.conn.Query(ctx, sql, args...)
}

func (s *directSession) Ping(ctx context.Context) error { return s.conn.Ping(ctx) }

func (s *directSession) Release(ctx context.Context) error { return s.conn.Close(ctx) }

type directProvider struct{ cfg *pgx.ConnConfig }

// NewDirectProvider opens a new connection per session and closes it on release.
func NewDirectProvider(cfg *pgx.ConnConfig) repository.SessionProvider {
	return &directProvider{cfg: cfg}
}

func (p *directProvider) Acquire(ctx context.Context) (repository.Session, error) {
	if p.cfg == nil {
		return nil, errors.New("pgx conn config is nil")
	}
	conn, err := pgx.ConnectConfig(ctx, p.cfg.Copy())
	if err != nil {
		return nil, err
	}
	return &directSession{conn: conn}, nil
}

type noopObserver struct{}

func (noopObserver) SessionAcquired(error)                     {}
func (noopObserver) QueryFinished(string, time.Duration, error) {}
func (noopObserver) SessionReleased(error)                     {}

type sessionScope struct {
	provider     repository.SessionProvider
	log          zerolog.Logger
	observer     repository.QueryObserver
	queryTimeout time.Duration
}

// NewSessionScope wires provider into a SessionScope. observer may be nil; a zero
// queryTimeout leaves statements bounded only by the caller's context.
func NewSessionScope(provider repository.SessionProvider, logger zerolog.Logger, observer repository.QueryObserver, queryTimeout time.Duration) repository.SessionScope {
	if observer == nil {
		observer = noopObserver{}
	}
	return &sessionScope{
		provider:     provider,
		log:          logger.With().Str("component", "session").Logger(),
		observer:     observer,
		queryTimeout: queryTimeout,
	}
}

func (s *sessionScope) WithinSession(ctx context.Context, name string, fn repository.SessionFunc) error {
	if s.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.queryTimeout)
		defer cancel()
	}

	sess, err := s.provider.Acquire(ctx)
	s.observer.SessionAcquired(err)
	if err != nil {
		s.log.Error().Err(err).Str("query", name).Msg("session acquisition failed")
		return fmt.Errorf("%w: %w", repository.ErrUnavailable, err)
	}
	defer func() {
		// Release must happen even when ctx is already done or fn panicked.
		relErr := sess.Release(context.WithoutCancel(ctx))
		s.observer.SessionReleased(relErr)
		if relErr != nil {
			s.log.Warn().Err(relErr).Str("query", name).Msg("session release failed")
		}
	}()

	start := time.Now()
	err = fn(ctx, sess)
	took := time.Since(start)
	s.observer.QueryFinished(name, took, err)
	if err != nil {
		s.log.Error().Err(err).Str("query", name).Dur("took", took).Msg("query failed")
		return repository.MapPgError(err)
	}
	s.log.Debug().Str("query", name).Dur("took", took).Msg("query finished")
	return nil
}

// collect runs sql in its own session and scans every row with scan.
func collect[T any](ctx context.Context, scope repository.SessionScope, name, sql string, scan pgx.RowToFunc[T], args ...any) ([]T, error) {
	var out []T
	err := scope.WithinSession(ctx, name, func(ctx context.Context, q repository.Querier) error {
		rows, err := q.Query(ctx, sql, args...)
		if err != nil {
			return err
		}
		out, err = pgx.CollectRows(rows, scan)
		return err
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func ensurePool(pool *pgxpool.Pool) error {
	if pool == nil {
		return errors.New("pgx pool is nil")
	}
	return nil
}

var (
	_ repository.SessionProvider = (*poolProvider)(nil)
	_ repository.SessionProvider = (*directProvider)(nil)
	_ repository.SessionScope    = (*sessionScope)(nil)
)
