package repository

import (
	"context"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

// pgxLogger adapts zerolog.Logger to pgx's tracelog interface.
type pgxLogger struct {
	logger zerolog.Logger
}

func newPgxLogger(logger zerolog.Logger) *pgxLogger {
	l := logger.With().Str("component", "pgx").Logger()
	return &pgxLogger{logger: l}
}

// Log implements tracelog.Logger. SQL text is attached at every level so a failing statement
// can be found in the log; bound arguments only at trace, since they carry user input.
func (l *pgxLogger) Log(_ context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
	if level == tracelog.LogLevelNone {
		return
	}

	var event *zerolog.Event
	switch level {
	case tracelog.LogLevelTrace:
		event = l.logger.Trace()
	case tracelog.LogLevelDebug:
		event = l.logger.Debug()
	case tracelog.LogLevelInfo:
		event = l.logger.Info()
	case tracelog.LogLevelWarn:
		event = l.logger.Warn()
	case tracelog.LogLevelError:
		event = l.logger.Error()
	default:
		event = l.logger.Info().Str("pgx_log_level", level.String())
	}

	fields := make(map[string]any, len(data))
	for k, v := range data {
		fields[k] = v
	}
	if sqlVal, ok := fields["sql"]; ok {
		if s, ok := sqlVal.(string); ok {
			event = event.Str("sql", s)
		} else {
			event = event.Interface("sql", sqlVal)
		}
		delete(fields, "sql")
	}
	if args, ok := fields["args"]; ok {
		if level == tracelog.LogLevelTrace {
			event = event.Interface("args", args)
		}
		delete(fields, "args")
	}
	if err, ok := fields["err"].(error); ok {
		event = event.Err(err)
		delete(fields, "err")
	}

	if len(fields) > 0 {
		event = event.Fields(fields)
	}
	event.Msg(msg)
}
