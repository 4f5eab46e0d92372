package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "workerstore"

// RepoMetrics — метрики операций репозитория.
// Нулевой указатель допустим: методы ничего не делают.
type RepoMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewRepoMetrics регистрирует метрики репозитория в reg.
func NewRepoMetrics(reg prometheus.Registerer) *RepoMetrics {
	factory := promauto.With(reg)

	return &RepoMetrics{
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "repo",
			Name:      "operations_total",
			Help:      "Repository operations by outcome.",
		}, []string{"op", "outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "repo",
			Name:      "operation_duration_seconds",
			Help:      "Repository operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}
}

// Observe учитывает завершённую операцию.
func (m *RepoMetrics) Observe(op, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op, outcome).Inc()
	m.duration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// AuditMetrics — метрики audit consumer.
// Нулевой указатель допустим.
type AuditMetrics struct {
	events *prometheus.CounterVec
}

// NewAuditMetrics регистрирует метрики audit consumer в reg.
func NewAuditMetrics(reg prometheus.Registerer) *AuditMetrics {
	return &AuditMetrics{
		events: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "audit",
			Name:      "events_total",
			Help:      "Worker change events consumed, by type and outcome.",
		}, []string{"type", "outcome"}),
	}
}

// Event учитывает полученное событие и то, чем закончилась его обработка.
func (m *AuditMetrics) Event(eventType, outcome string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(eventType, outcome).Inc()
}
