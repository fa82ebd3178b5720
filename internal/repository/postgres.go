package repository

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/DanNano/FFQueryAnalyzer/internal/config"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

const connectCheckTimeout = 5 * time.Second

// Repository holds what session providers need: a pool in pool mode, and in both
// modes the parsed connection config with tracing attached.
type Repository struct {
	pool       *pgxpool.Pool
	connConfig *pgx.ConnConfig
}

// DSN returns cfg.DSN when set, otherwise a postgres:// URL assembled from the discrete fields.
func DSN(cfg config.PostgresConfig) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:   cfg.DBName,
	}
	if cfg.User != "" || cfg.Password != "" {
		u.User = url.UserPassword(cfg.User, cfg.Password)
	}
	q := u.Query()
	if cfg.SSLMode != "" {
		q.Set("sslmode", cfg.SSLMode)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// New parses the connection settings and checks the database is reachable.
// In pool mode it also creates the pool; in direct mode no connection outlives the check.
func New(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*Repository, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	pg := cfg.Postgres

	poolConfig, err := pgxpool.ParseConfig(DSN(pg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse pool config: %w", err)
	}

	poolConfig.ConnConfig.Tracer = &tracelog.TraceLog{
		Logger:   newPgxLogger(*logger),
		LogLevel: traceLevel(logger.GetLevel()),
	}

	repo := &Repository{connConfig: poolConfig.ConnConfig}

	checkCtx, cancel := context.WithTimeout(ctx, connectCheckTimeout)
	defer cancel()

	switch pg.SessionMode {
	case "direct":
		conn, err := pgx.ConnectConfig(checkCtx, repo.ConnConfig())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		pingErr := conn.Ping(checkCtx)
		_ = conn.Close(context.Background())
		if pingErr != nil {
			return nil, fmt.Errorf("failed to ping postgres: %w", pingErr)
		}
	default:
		if pg.MaxConns > 0 {
			poolConfig.MaxConns = pg.MaxConns
		}
		poolConfig.MinConns = pg.MinConns
		if pg.MaxConnLifetime > 0 {
			poolConfig.MaxConnLifetime = time.Duration(pg.MaxConnLifetime) * time.Second
		}
		if pg.MaxConnIdleTime > 0 {
			poolConfig.MaxConnIdleTime = time.Duration(pg.MaxConnIdleTime) * time.Second
		}
		if pg.HealthCheckPeriod > 0 {
			poolConfig.HealthCheckPeriod = time.Duration(pg.HealthCheckPeriod) * time.Second
		}

		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create postgres pool: %w", err)
		}
		if err := pool.Ping(checkCtx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to ping postgres: %w", err)
		}
		repo.pool = pool
	}

	logger.Info().
		Str("host", repo.connConfig.Host).
		Uint16("port", repo.connConfig.Port).
		Str("user", repo.connConfig.User).
		Str("db", repo.connConfig.Database).
		Str("session_mode", pg.SessionMode).
		Msg("Successfully connected to PostgreSQL")

	return repo, nil
}

// Pool is nil in direct mode.
func (r *Repository) Pool() *pgxpool.Pool { return r.pool }

// ConnConfig returns a copy safe to hand to pgx.ConnectConfig.
func (r *Repository) ConnConfig() *pgx.ConnConfig { return r.connConfig.Copy() }

// Close releases all resources held by the pool.
func (r *Repository) Close() {
	if r.pool != nil {
		r.pool.Close()
	}
}

func traceLevel(l zerolog.Level) tracelog.LogLevel {
	switch {
	case l <= zerolog.TraceLevel:
		return tracelog.LogLevelTrace
	case l <= zerolog.DebugLevel:
		return tracelog.LogLevelDebug
	case l <= zerolog.InfoLevel:
		return tracelog.LogLevelInfo
	case l <= zerolog.WarnLevel:
		return tracelog.LogLevelWarn
	default:
		return tracelog.LogLevelError
	}
}
