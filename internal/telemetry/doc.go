// Package telemetry обеспечивает наблюдаемость WorkerStore.
//
// Включает:
//   - logging.go — structured logging через zerolog
//   - tracing.go — логирование SQL-запросов pgx через zerolog
//   - metrics.go — Prometheus метрики репозитория и audit consumer
//
// Все бинарники используют единый формат логирования,
// workerstore-audit экспортирует метрики на /metrics.
package telemetry
