package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// legacyEnv lists environment names the service honoured before the APP_ prefix existed.
var legacyEnv = map[string][]string{
	"server.port":       {"APP_SERVER_PORT", "PORT"},
	"postgres.dsn":      {"APP_POSTGRES_DSN", "DATABASE_URL", "DB_CONNECT_STRING"},
	"postgres.user":     {"APP_POSTGRES_USER", "DB_USER", "POSTGRES_USER"},
	"postgres.password": {"APP_POSTGRES_PASSWORD", "DB_PASSWORD", "POSTGRES_PASSWORD"},
	"postgres.db_name":  {"APP_POSTGRES_DB", "APP_POSTGRES_DB_NAME", "DB_NAME", "POSTGRES_DB"},
	"postgres.host":     {"APP_POSTGRES_HOST", "POSTGRES_HOST", "DB_HOST"},
}

// Load reads an optional YAML file at path, overlays environment variables and validates the result.
// A missing file is not an error: the service can run on env alone.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	for key, envs := range legacyEnv {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stat config %s: %w", path, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks struct tags; logger settings are validated by logger.New after defaults apply.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation error: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "ffquery-analyzer")
	v.SetDefault("app.version", "0.1.0")
	v.SetDefault("app.env", "prod")

	v.SetDefault("server.port", 5000)
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("logger.level", "")
	v.SetDefault("logger.env", "")
	v.SetDefault("logger.service_name", "ffquery-analyzer")

	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.db_name", "")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.session_mode", "pool")
	v.SetDefault("postgres.query_timeout", time.Duration(0))
	v.SetDefault("postgres.max_conns", 10)
	v.SetDefault("postgres.min_conns", 0)
	v.SetDefault("postgres.max_conn_lifetime", 3600)
	v.SetDefault("postgres.max_conn_idle_time", 300)
	v.SetDefault("postgres.health_check_period", 60)

	v.SetDefault("api.accept_legacy_id_param", false)

	v.SetDefault("defaults.player_id", "00-0032765")
	v.SetDefault("defaults.player_name", "Tom Brady")
	v.SetDefault("defaults.year", 2022)
	v.SetDefault("defaults.min_seasons", 3)
	v.SetDefault("defaults.min_touchdowns", 3)
	v.SetDefault("defaults.min_targets", 30)

	v.SetDefault("scoring.passing_yard", 0.04)
	v.SetDefault("scoring.passing_td", 4.0)
	v.SetDefault("scoring.interception", -2.0)
	v.SetDefault("scoring.rushing_yard", 0.1)
	v.SetDefault("scoring.rushing_td", 6.0)
	v.SetDefault("scoring.receiving_yard", 0.1)
	v.SetDefault("scoring.receiving_td", 6.0)
	v.SetDefault("scoring.fumble_lost", -2.0)
}
