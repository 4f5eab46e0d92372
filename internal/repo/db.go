package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/shaiso/WorkerStore/internal/config"
	"github.com/shaiso/WorkerStore/internal/telemetry"
)

// DB — источник соединений для репозиториев.
// Реализуется *pgxpool.Pool: каждый вызов берёт соединение из пула
// и возвращает его по завершении.
type DB interface {
	querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

// querier — общий набор методов пула и транзакции.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NewPool создаёт пул соединений и проверяет доступность БД.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.HealthCheckPeriod = cfg.HealthCheckPeriod
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}

	if cfg.Trace {
		poolCfg.ConnConfig.Tracer = telemetry.NewQueryTracer(logger)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("new pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, storeError("ping db", err)
	}

	logger.Info().
		Int32("max_conns", poolCfg.MaxConns).
		Bool("trace", cfg.Trace).
		Msg("connected to the database")

	return pool, nil
}
