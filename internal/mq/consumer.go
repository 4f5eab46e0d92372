package mq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/shaiso/WorkerStore/internal/telemetry"
)

// Исходы обработки события, метка outcome в метриках аудита.
const (
	OutcomeAcked     = "acked"
	OutcomeRequeued  = "requeued"
	OutcomeDropped   = "dropped"
	OutcomeMalformed = "malformed"
)

// Event — событие, полученное из очереди аудита.
type Event struct {
	Message

	// Redelivered — сообщение уже доставлялось и не было подтверждено.
	Redelivered bool
}

// EventHandler обрабатывает одно событие. Логгер в ctx уже помечен
// worker_id и user_id события.
type EventHandler func(ctx context.Context, ev Event) error

// ConsumerConfig — настройки Consumer.
type ConsumerConfig struct {
	Queue    Queue
	Prefetch int
	Handler  EventHandler

	// Metrics может быть nil.
	Metrics *telemetry.AuditMetrics
}

// Consumer читает события сотрудников из очереди аудита.
//
// Успешно обработанное событие подтверждается. Ошибка обработчика
// возвращает событие в очередь один раз, повторная ошибка его
// отбрасывает. Нечитаемые сообщения и неизвестные типы отбрасываются сразу.
type Consumer struct {
	conn     *Connection
	logger   zerolog.Logger
	queue    Queue
	prefetch int
	handler  EventHandler
	metrics  *telemetry.AuditMetrics
}

// NewConsumer создаёт Consumer. Prefetch меньше 1 заменяется на 1.
func NewConsumer(conn *Connection, logger zerolog.Logger, cfg ConsumerConfig) *Consumer {
	return &Consumer{
		conn:     conn,
		logger:   logger.With().Str("queue", string(cfg.Queue)).Logger(),
		queue:    cfg.Queue,
		prefetch: max(cfg.Prefetch, 1),
		handler:  cfg.Handler,
		metrics:  cfg.Metrics,
	}
}

// errDeliveriesClosed — брокер закрыл канал доставки.
var errDeliveriesClosed = errors.New("deliveries channel closed")

// Run читает очередь до отмены ctx или закрытия соединения.
// После обрыва переподключается с задержкой retryDelay.
func (c *Consumer) Run(ctx context.Context) error {
	for attempt := 0; ; attempt++ {
		deliveries, err := c.subscribe(ctx)
		if err == nil {
			attempt = 0
			c.logger.Info().Msg("consumer started")
			err = c.drain(ctx, deliveries)
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
		if errors.Is(err, ErrClosed) {
			return err
		}

		delay := retryDelay(attempt)
		c.logger.Warn().Err(err).Dur("delay", delay).Msg("consumer interrupted, reconnecting")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		if err := c.conn.Redial(); err != nil {
			if errors.Is(err, ErrClosed) {
				return err
			}
			c.logger.Warn().Err(err).Msg("reconnect failed")
		}
	}
}

// retryDelay — 1s, 2s, 4s... но не больше 30 секунд.
func retryDelay(attempt int) time.Duration {
	delay := time.Second << min(attempt, 5)
	return min(delay, 30*time.Second)
}

// subscribe выставляет prefetch и подписывается на очередь.
func (c *Consumer) subscribe(ctx context.Context) (<-chan amqp.Delivery, error) {
	var deliveries <-chan amqp.Delivery

	err := c.conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		if err := ch.Qos(c.prefetch, 0, false); err != nil {
			return fmt.Errorf("set qos: %w", err)
		}

		d, err := ch.Consume(string(c.queue), "", false, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("consume %s: %w", c.queue, err)
		}
		deliveries = d
		return nil
	})

	return deliveries, err
}

// drain обрабатывает доставки, пока канал открыт.
func (c *Consumer) drain(ctx context.Context, deliveries <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case raw, ok := <-deliveries:
			if !ok {
				return errDeliveriesClosed
			}
			c.handle(ctx, raw)
		}
	}
}

// handle разбирает одно сообщение, вызывает обработчик и подтверждает
// доставку. Возвращает исход для метрик.
func (c *Consumer) handle(ctx context.Context, raw amqp.Delivery) string {
	var msg Message
	err := json.Unmarshal(raw.Body, &msg)
	if err == nil && !msg.Type.Valid() {
		err = fmt.Errorf("unknown event type %q", msg.Type)
	}
	if err != nil {
		c.logger.Error().
			Err(err).
			Bytes("body", raw.Body).
			Msg("malformed worker event")
		_ = raw.Nack(false, false)
		c.metrics.Event("unknown", OutcomeMalformed)
		return OutcomeMalformed
	}

	logger := telemetry.WithUserID(telemetry.WithWorkerID(c.logger, msg.Payload.WorkerID), msg.Payload.UserID)
	ctx = telemetry.WithLogger(ctx, logger)

	outcome := OutcomeAcked
	if err := c.handler(ctx, Event{Message: msg, Redelivered: raw.Redelivered}); err != nil {
		outcome = OutcomeRequeued
		if raw.Redelivered {
			outcome = OutcomeDropped
		}
		logger.Error().
			Err(err).
			Str("message_id", msg.ID).
			Str("type", string(msg.Type)).
			Str("outcome", outcome).
			Msg("worker event handler failed")
		_ = raw.Nack(false, outcome == OutcomeRequeued)
	} else {
		_ = raw.Ack(false)
	}

	c.metrics.Event(string(msg.Type), outcome)
	return outcome
}
