package mq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange — тип для имени обменника.
type Exchange string

// Queue — тип для имени очереди.
type Queue string

// RoutingKey — тип для ключа маршрутизации.
type RoutingKey string

const (
	defaultExchange Exchange = "workerstore.workers"
	defaultQueue    Queue    = "workers.audit"

	// bindingAllWorkers — шаблон привязки очереди аудита.
	bindingAllWorkers RoutingKey = "worker.#"
)

// Topology — имена обменника и очереди событий.
type Topology struct {
	Exchange Exchange
	Queue    Queue
}

// NewTopology собирает топологию из настроек.
// Пустые имена заменяются на workerstore.workers и workers.audit.
func NewTopology(exchange, queue string) Topology {
	topo := Topology{Exchange: Exchange(exchange), Queue: Queue(queue)}
	if topo.Exchange == "" {
		topo.Exchange = defaultExchange
	}
	if topo.Queue == "" {
		topo.Queue = defaultQueue
	}
	return topo
}

// SetupTopology объявляет topic-обменник, очередь аудита и привязку worker.#.
// Повторный вызов безопасен: объявления идемпотентны.
func SetupTopology(ctx context.Context, conn *Connection, topo Topology) error {
	return conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		if err := ch.ExchangeDeclare(string(topo.Exchange), amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare exchange %s: %w", topo.Exchange, err)
		}
		if _, err := ch.QueueDeclare(string(topo.Queue), true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare queue %s: %w", topo.Queue, err)
		}
		if err := ch.QueueBind(string(topo.Queue), string(bindingAllWorkers), string(topo.Exchange), false, nil); err != nil {
			return fmt.Errorf("bind queue %s to %s: %w", topo.Queue, topo.Exchange, err)
		}
		return nil
	})
}

// String возвращает описание топологии для логирования.
func (t Topology) String() string {
	return fmt.Sprintf("%s (topic) -> %s [routing: %s]", t.Exchange, t.Queue, bindingAllWorkers)
}
