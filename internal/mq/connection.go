package mq

import (
	"context"
	"errors"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

var (
	// ErrNoChannel — канал не открыт или закрыт брокером.
	ErrNoChannel = errors.New("no channel available")

	// ErrClosed — соединение закрыто через Close.
	ErrClosed = errors.New("amqp connection closed")
)

// Connection — соединение с RabbitMQ и один канал для событий сотрудников.
//
// CLI публикует несколько событий за запуск, audit только читает
// очередь, поэтому одного канала хватает обоим. Доступ к каналу
// сериализован. Переподключение выполняет вызывающий через Redial.
type Connection struct {
	url    string
	logger zerolog.Logger

	mu     sync.Mutex
	conn   *amqp.Connection
	ch     *amqp.Channel
	closed bool
}

// Dial подключается к брокеру и открывает канал.
func Dial(url string, logger zerolog.Logger) (*Connection, error) {
	c := &Connection{url: url, logger: logger}
	if err := c.open(); err != nil {
		return nil, err
	}
	return c, nil
}

// open устанавливает соединение. Вызывается под c.mu или до публикации c.
func (c *Connection) open() error {
	conn, err := amqp.Dial(c.url)
	if err != nil {
		return fmt.Errorf("dial amqp: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	c.conn, c.ch = conn, ch
	c.logger.Info().Msg("connected to RabbitMQ")
	return nil
}

// Redial открывает соединение заново, если текущее оборвалось.
// Живое соединение не трогает.
func (c *Connection) Redial() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if c.conn != nil && !c.conn.IsClosed() && c.ch != nil && !c.ch.IsClosed() {
		return nil
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
	c.conn, c.ch = nil, nil

	return c.open()
}

// Healthy сообщает, открыты ли соединение и канал.
func (c *Connection) Healthy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed && c.conn != nil && !c.conn.IsClosed() && c.ch != nil && !c.ch.IsClosed()
}

// WithChannel выполняет fn с каналом соединения.
// amqp.Channel не рассчитан на конкурентное использование, поэтому
// вызовы идут по одному.
func (c *Connection) WithChannel(ctx context.Context, fn func(ch *amqp.Channel) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if c.ch == nil || c.ch.IsClosed() {
		return ErrNoChannel
	}
	return fn(c.ch)
}

// Close закрывает соединение вместе с каналом. Повторный вызов ничего не делает.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	if c.conn == nil || c.conn.IsClosed() {
		return nil
	}
	if err := c.conn.Close(); err != nil {
		return fmt.Errorf("close amqp: %w", err)
	}

	c.logger.Info().Msg("connection closed")
	return nil
}
