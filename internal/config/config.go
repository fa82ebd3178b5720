package config

import (
	"time"

	"github.com/DanNano/FFQueryAnalyzer/internal/logger"
)

// Config is built once at start-up and handed to every layer explicitly.
type Config struct {
	App      AppConfig           `mapstructure:"app"`
	Server   ServerConfig        `mapstructure:"server"`
	Logger   logger.LoggerConfig `mapstructure:"logger" validate:"-"`
	Postgres PostgresConfig      `mapstructure:"postgres"`
	API      APIConfig           `mapstructure:"api"`
	Defaults DefaultsConfig      `mapstructure:"defaults"`
	Scoring  ScoringConfig       `mapstructure:"scoring"`
}

type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
	Env     string `mapstructure:"env"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// PostgresConfig describes how sessions are opened. DSN wins over the discrete fields.
type PostgresConfig struct {
	DSN               string        `mapstructure:"dsn"`
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	User              string        `mapstructure:"user" validate:"required_without=DSN"`
	Password          string        `mapstructure:"password" validate:"required_without=DSN"`
	DBName            string        `mapstructure:"db_name" validate:"required_without=DSN"`
	SSLMode           string        `mapstructure:"sslmode" validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
	SessionMode       string        `mapstructure:"session_mode" validate:"oneof=pool direct"`
	QueryTimeout      time.Duration `mapstructure:"query_timeout" validate:"min=0"`
	MaxConns          int32         `mapstructure:"max_conns" validate:"min=0"`
	MinConns          int32         `mapstructure:"min_conns" validate:"min=0"`
	MaxConnLifetime   int           `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime   int           `mapstructure:"max_conn_idle_time"`
	HealthCheckPeriod int           `mapstructure:"health_check_period"`
}

type APIConfig struct {
	// AcceptLegacyIDParam lets the goal-line endpoint read `id` when `playerid` is absent.
	AcceptLegacyIDParam bool `mapstructure:"accept_legacy_id_param"`
}

// DefaultsConfig holds the values used when a query parameter is absent.
type DefaultsConfig struct {
	PlayerID      string `mapstructure:"player_id" validate:"required"`
	PlayerName    string `mapstructure:"player_name" validate:"required"`
	Year          int    `mapstructure:"year" validate:"min=1920,max=2100"`
	MinSeasons    int    `mapstructure:"min_seasons" validate:"min=1"`
	MinTouchdowns int    `mapstructure:"min_touchdowns" validate:"min=0"`
	MinTargets    int    `mapstructure:"min_targets" validate:"min=0"`
}

// ScoringConfig holds fantasy point weights per unit of each box-score stat.
type ScoringConfig struct {
	PassingYard   float64 `mapstructure:"passing_yard"`
	PassingTD     float64 `mapstructure:"passing_td"`
	Interception  float64 `mapstructure:"interception"`
	RushingYard   float64 `mapstructure:"rushing_yard"`
	RushingTD     float64 `mapstructure:"rushing_td"`
	ReceivingYard float64 `mapstructure:"receiving_yard"`
	ReceivingTD   float64 `mapstructure:"receiving_td"`
	FumbleLost    float64 `mapstructure:"fumble_lost"`
}
