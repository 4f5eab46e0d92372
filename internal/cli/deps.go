package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/shaiso/WorkerStore/internal/config"
	"github.com/shaiso/WorkerStore/internal/domain"
	"github.com/shaiso/WorkerStore/internal/mq"
	"github.com/shaiso/WorkerStore/internal/repo"
	"github.com/shaiso/WorkerStore/internal/telemetry"
)

// Store — операции хранилища, которыми пользуются команды.
// Реализуется *repo.WorkerRepo.
type Store interface {
	Insert(ctx context.Context, w *domain.Worker) error
	Update(ctx context.Context, w *domain.Worker) error
	Get(ctx context.Context, workerID, userID int64) (*domain.Worker, error)
	List(ctx context.Context) (*domain.WorkerSet, error)
	ListByUser(ctx context.Context, userID int64) (*domain.WorkerSet, error)

	DeleteByID(ctx context.Context, workerID, userID int64) (int64, error)
	DeleteByUser(ctx context.Context, userID int64) (int64, error)
	DeleteBySalaryAtLeast(ctx context.Context, threshold int, userID int64) (int64, error)
	DeleteBySalaryAtMost(ctx context.Context, threshold int, userID int64) (int64, error)
	DeleteByStartDate(ctx context.Context, startDate time.Time, userID int64) (int64, error)
	DeleteByEndDate(ctx context.Context, endDate time.Time, userID int64) (int64, error)

	ColorID(ctx context.Context, color domain.Color) (int64, error)
	StatusID(ctx context.Context, status domain.Status) (int64, error)
	WorkerID(ctx context.Context, name string, userID int64) (int64, error)
}

// LegacyStore — те же операции с флагами вместо ошибок.
// Реализуется *repo.FlaggedRepo.
type LegacyStore interface {
	Insert(ctx context.Context, w *domain.Worker) bool
	Update(ctx context.Context, w *domain.Worker) bool
	List(ctx context.Context) *domain.WorkerSet

	DeleteByID(ctx context.Context, workerID, userID int64) bool
	DeleteByUser(ctx context.Context, userID int64) bool
	DeleteBySalaryAtLeast(ctx context.Context, threshold int, userID int64) bool
	DeleteBySalaryAtMost(ctx context.Context, threshold int, userID int64) bool
	DeleteByStartDate(ctx context.Context, startDate time.Time, userID int64) bool
	DeleteByEndDate(ctx context.Context, endDate time.Time, userID int64) bool

	ColorID(ctx context.Context, color domain.Color) *int64
	StatusID(ctx context.Context, status domain.Status) *int64
	WorkerID(ctx context.Context, name string, userID int64) *int64
}

// EventPublisher публикует события об изменениях сотрудников.
// Реализуется *mq.Publisher.
type EventPublisher interface {
	PublishWorkerEvent(ctx context.Context, msgType mq.MessageType, payload mq.WorkerEventPayload) error
}

// nopPublisher используется, когда брокер не настроен.
type nopPublisher struct{}

func (nopPublisher) PublishWorkerEvent(context.Context, mq.MessageType, mq.WorkerEventPayload) error {
	return nil
}

// Deps — зависимости команд, создаются после разбора флагов.
type Deps struct {
	Store  Store
	Legacy LegacyStore
	Events EventPublisher
	Logger zerolog.Logger

	// LegacyMode направляет команды через LegacyStore.
	LegacyMode bool

	// OperationID помечает логи и события одного запуска CLI.
	OperationID string

	closers []func()
}

// DepsFunc лениво создаёт Deps.
type DepsFunc func(ctx context.Context) (*Deps, error)

// Connect подключается к БД и, если настроен, к RabbitMQ.
// Недоступный брокер не мешает работе: события просто не публикуются.
// Метрики репозитория регистрируются в reg; nil отключает их.
func Connect(ctx context.Context, cfg *config.Config, logger zerolog.Logger, reg prometheus.Registerer) (*Deps, error) {
	operationID := uuid.NewString()
	logger = telemetry.WithOperationID(logger, operationID)

	pool, err := repo.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	var metrics *telemetry.RepoMetrics
	if reg != nil {
		metrics = telemetry.NewRepoMetrics(reg)
	}

	workers := repo.NewWorkerRepo(pool, metrics)
	d := &Deps{
		Store:       workers,
		Legacy:      repo.NewFlaggedRepo(workers),
		Events:      nopPublisher{},
		Logger:      logger,
		OperationID: operationID,
		closers:     []func(){pool.Close},
	}

	if !cfg.AMQP.Enabled() {
		return d, nil
	}

	conn, err := mq.Dial(cfg.AMQP.URL, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("RabbitMQ not available, events disabled")
		return d, nil
	}
	d.closers = append(d.closers, func() { _ = conn.Close() })

	topo := mq.NewTopology(cfg.AMQP.Exchange, cfg.AMQP.Queue)
	if err := mq.SetupTopology(ctx, conn, topo); err != nil {
		logger.Warn().Err(err).Msg("failed to setup topology")
	}
	d.Events = mq.NewPublisher(conn, topo.Exchange, logger)

	return d, nil
}

// Close освобождает соединения в обратном порядке.
func (d *Deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}

// Context возвращает ctx с логгером команды.
func (d *Deps) Context(ctx context.Context) context.Context {
	return telemetry.WithLogger(ctx, d.Logger)
}

// publish отправляет событие. Ошибка публикации только логируется.
func (d *Deps) publish(ctx context.Context, msgType mq.MessageType, payload mq.WorkerEventPayload) {
	if d.Events == nil {
		return
	}
	payload.OperationID = d.OperationID
	if err := d.Events.PublishWorkerEvent(ctx, msgType, payload); err != nil {
		logger := telemetry.WithUserID(d.Logger, payload.UserID)
		if payload.WorkerID != 0 {
			logger = telemetry.WithWorkerID(logger, payload.WorkerID)
		}
		logger.Warn().
			Err(err).
			Str("type", string(msgType)).
			Msg("failed to publish worker event")
	}
}
