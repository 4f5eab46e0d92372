package telemetry

import (
	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

// NewQueryTracer возвращает tracer для pgx, пишущий SQL и аргументы
// в логгер с компонентом "pgx".
func NewQueryTracer(logger zerolog.Logger) *tracelog.TraceLog {
	pgxLogger := logger.With().Str("component", "pgx").Logger()

	return &tracelog.TraceLog{
		Logger:   pgxzero.NewLogger(pgxLogger),
		LogLevel: PgxLogLevel(logger.GetLevel()),
	}
}

// PgxLogLevel переводит уровень zerolog в уровень tracelog.
func PgxLogLevel(level zerolog.Level) tracelog.LogLevel {
	switch level {
	case zerolog.TraceLevel:
		return tracelog.LogLevelTrace
	case zerolog.DebugLevel:
		return tracelog.LogLevelDebug
	case zerolog.InfoLevel:
		return tracelog.LogLevelInfo
	case zerolog.WarnLevel:
		return tracelog.LogLevelWarn
	case zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.PanicLevel:
		return tracelog.LogLevelError
	default:
		return tracelog.LogLevelNone
	}
}
