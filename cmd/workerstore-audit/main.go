// WorkerStore Audit — журнал изменений сотрудников.
//
// Audit:
//   - Получает события worker.* из очереди workers.audit
//   - Пишет каждое событие в лог
//   - Считает события по типу и исходу в workerstore_audit_events_total
//   - Переподключается к брокеру после обрыва
//
// Экспортирует /healthz и /metrics.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/WorkerStore/internal/config"
	"github.com/shaiso/WorkerStore/internal/mq"
	"github.com/shaiso/WorkerStore/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := telemetry.SetupLogger(config.Default().Log)
		fallback.Fatal().Err(err).Msg("failed to load config")
	}

	logger := telemetry.SetupLogger(cfg.Log)
	logger.Info().Msg("starting workerstore-audit")

	if !cfg.AMQP.Enabled() {
		logger.Fatal().Msg("WORKERSTORE_AMQP__URL is required")
	}

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	conn, err := mq.Dial(cfg.AMQP.URL, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to connect to RabbitMQ")
		os.Exit(1)
	}
	defer conn.Close()

	topo := mq.NewTopology(cfg.AMQP.Exchange, cfg.AMQP.Queue)
	if err := mq.SetupTopology(ctx, conn, topo); err != nil {
		logger.Error().Err(err).Msg("failed to setup topology")
		os.Exit(1)
	}
	logger.Info().Stringer("topology", topo).Msg("topology ready")

	consumer := mq.NewConsumer(conn, logger, mq.ConsumerConfig{
		Queue:    topo.Queue,
		Prefetch: 10,
		Metrics:  telemetry.NewAuditMetrics(prometheus.DefaultRegisterer),
		Handler: func(ctx context.Context, ev mq.Event) error {
			telemetry.FromContext(ctx).Info().
				Str("type", string(ev.Type)).
				Str("message_id", ev.ID).
				Time("at", ev.Timestamp).
				Str("filter", ev.Payload.Filter).
				Int64("rows", ev.Payload.Rows).
				Str("operation_id", ev.Payload.OperationID).
				Bool("redelivered", ev.Redelivered).
				Msg("worker event")
			return nil
		},
	})

	// HTTP mux: /healthz + /metrics
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if !conn.Healthy() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server error")
			cancel()
		}
	}()

	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("consumer stopped")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)

	logger.Info().Msg("workerstore-audit stopped")
}
