package telemetry

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/shaiso/WorkerStore/internal/config"
)

// LogLevel разбирает уровень логирования.
// Возможные значения: trace, debug, info, warn, error.
// По умолчанию: info.
func LogLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// SetupLogger инициализирует логгер процесса.
//
// Формат вывода определяется cfg.Format:
//   - "json" (по умолчанию) — JSON формат для production
//   - "text" — человекочитаемый формат для разработки
func SetupLogger(cfg config.LogConfig) zerolog.Logger {
	return NewLogger(os.Stderr, cfg)
}

// NewLogger создаёт логгер, пишущий в w, и делает его логгером по умолчанию.
func NewLogger(w io.Writer, cfg config.LogConfig) zerolog.Logger {
	if cfg.Format == "text" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	logger := zerolog.New(w).
		Level(LogLevel(cfg.Level)).
		With().
		Timestamp().
		Logger()

	zerolog.DefaultContextLogger = &logger

	return logger
}

// WithLogger добавляет логгер в контекст.
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}

// FromContext извлекает логгер из контекста.
// Если логгер не найден, возвращает логгер по умолчанию.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// WithWorkerID возвращает логгер с добавленным worker_id.
func WithWorkerID(logger zerolog.Logger, workerID int64) zerolog.Logger {
	return logger.With().Int64("worker_id", workerID).Logger()
}

// WithUserID возвращает логгер с добавленным user_id.
func WithUserID(logger zerolog.Logger, userID int64) zerolog.Logger {
	return logger.With().Int64("user_id", userID).Logger()
}

// WithOperationID возвращает логгер с добавленным operation_id.
func WithOperationID(logger zerolog.Logger, operationID string) zerolog.Logger {
	return logger.With().Str("operation_id", operationID).Logger()
}
