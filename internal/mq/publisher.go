package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// MessageType — тип сообщения в очереди.
type MessageType string

// Типы сообщений.
const (
	MessageTypeWorkerInserted MessageType = "worker.inserted"
	MessageTypeWorkerUpdated  MessageType = "worker.updated"
	MessageTypeWorkerDeleted  MessageType = "worker.deleted"
)

// RoutingKey возвращает ключ маршрутизации для типа сообщения.
// Ключ совпадает с типом и попадает под привязку worker.#.
func (t MessageType) RoutingKey() RoutingKey {
	return RoutingKey(t)
}

// Valid возвращает true для известных типов событий.
func (t MessageType) Valid() bool {
	switch t {
	case MessageTypeWorkerInserted, MessageTypeWorkerUpdated, MessageTypeWorkerDeleted:
		return true
	default:
		return false
	}
}

// Message — событие об изменении сотрудников в том виде, в каком
// оно лежит в очереди.
type Message struct {
	ID        string             `json:"id"`
	Type      MessageType        `json:"type"`
	Payload   WorkerEventPayload `json:"payload"`
	Timestamp time.Time          `json:"timestamp"`
}

// NewMessage создаёт сообщение с новым ID и текущим временем.
func NewMessage(msgType MessageType, payload WorkerEventPayload) *Message {
	return &Message{
		ID:        uuid.New().String(),
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// WorkerEventPayload — payload события об изменении сотрудников.
//
// Для вставки и обновления заполнен WorkerID. Для удалений Filter
// описывает условие, а Rows — число удалённых сотрудников.
type WorkerEventPayload struct {
	WorkerID    int64  `json:"worker_id,omitempty"`
	UserID      int64  `json:"user_id"`
	Filter      string `json:"filter,omitempty"`
	Rows        int64  `json:"rows,omitempty"`
	OperationID string `json:"operation_id,omitempty"`
}

// Publisher публикует сообщения в RabbitMQ.
type Publisher struct {
	conn     *Connection
	exchange Exchange
	logger   zerolog.Logger
}

// NewPublisher создаёт новый Publisher для обменника exchange.
func NewPublisher(conn *Connection, exchange Exchange, logger zerolog.Logger) *Publisher {
	return &Publisher{
		conn:     conn,
		exchange: exchange,
		logger:   logger,
	}
}

// Publish публикует сообщение в обменник с ключом msg.Type.
func (p *Publisher) Publish(ctx context.Context, msg *Message) error {
	routingKey := msg.Type.RoutingKey()
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	return p.conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.PublishWithContext(
			ctx,
			string(p.exchange), // exchange
			string(routingKey), // routing key
			false,
			false,
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				MessageId:    msg.ID,
				Timestamp:    msg.Timestamp,
				Type:         string(msg.Type),
				Body:         body,
			},
		)
		if err != nil {
			return fmt.Errorf("publish to %s/%s: %w", p.exchange, routingKey, err)
		}

		p.logger.Debug().
			Str("exchange", string(p.exchange)).
			Str("routing_key", string(routingKey)).
			Str("message_id", msg.ID).
			Str("type", string(msg.Type)).
			Msg("published message")

		return nil
	})
}

// PublishWorkerEvent публикует событие об изменении сотрудников.
// Потребитель: workerstore-audit.
func (p *Publisher) PublishWorkerEvent(ctx context.Context, msgType MessageType, payload WorkerEventPayload) error {
	if !msgType.Valid() {
		return fmt.Errorf("publish worker event: unknown type %q", msgType)
	}
	return p.Publish(ctx, NewMessage(msgType, payload))
}
