package logger_test

import (
	"os"
	"testing"

	logpkg "github.com/DanNano/FFQueryAnalyzer/internal/logger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		config      *logpkg.LoggerConfig
		expectError bool
		wantLevel   zerolog.Level
	}{
		{
			name: "prod defaults to info",
			config: &logpkg.LoggerConfig{
				ServiceName: "ffquery-test",
				Env:         "prod",
				Fields:      map[string]interface{}{"key": "value"},
			},
			wantLevel: zerolog.InfoLevel,
		},
		{
			name:        "unknown env rejected",
			config:      &logpkg.LoggerConfig{Env: "wrong-env", Level: "debug"},
			expectError: true,
		},
		{
			name:        "unknown level rejected",
			config:      &logpkg.LoggerConfig{Env: "prod", Level: "loud"},
			expectError: true,
		},
		{
			name:        "unknown output target rejected",
			config:      &logpkg.LoggerConfig{Env: "prod", OutputTarget: "syslog"},
			expectError: true,
		},
		{
			name:      "staging warn to stderr",
			config:    &logpkg.LoggerConfig{Env: "staging", Level: "warn", OutputTarget: "stderr", TimeFormat: "unix"},
			wantLevel: zerolog.WarnLevel,
		},
		{
			name:      "dev info console only",
			config:    &logpkg.LoggerConfig{Env: "dev", Level: "info", TimeField: "time"},
			wantLevel: zerolog.InfoLevel,
		},
		{
			name:      "prod error with caller and stack",
			config:    &logpkg.LoggerConfig{Env: "prod", Level: "error", WithCaller: true, Stacktrace: true},
			wantLevel: zerolog.ErrorLevel,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l, err := logpkg.New(tc.config)
			if tc.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantLevel, zerolog.GlobalLevel())
			assert.Equal(t, tc.wantLevel, l.GetLevel())
		})
	}

	t.Run("dev debug mirrors into file", func(t *testing.T) {
		dir := t.TempDir()
		wd, err := os.Getwd()
		require.NoError(t, err)
		require.NoError(t, os.Chdir(dir))
		t.Cleanup(func() { _ = os.Chdir(wd) })

		_, err = logpkg.New(&logpkg.LoggerConfig{Env: "dev", Level: "debug"})
		require.NoError(t, err)

		_, statErr := os.Stat(logpkg.DebugLogPath)
		assert.NoError(t, statErr)
	})
}

func TestNew_FillsDefaults(t *testing.T) {
	cfg := &logpkg.LoggerConfig{}
	_, err := logpkg.New(cfg)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "stdout", cfg.OutputTarget)
	assert.Equal(t, "ts", cfg.TimeField)
	assert.Equal(t, "ffquery-analyzer", cfg.ServiceName)
	assert.True(t, cfg.Stacktrace)
	assert.NotNil(t, cfg.Fields)
}
