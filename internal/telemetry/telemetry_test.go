package telemetry

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/shaiso/WorkerStore/internal/config"
)

func TestLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"nonsense", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LogLevel(tt.in), "level %q", tt.in)
	}
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, config.LogConfig{Level: "info", Format: "json"})

	logger.Debug().Msg("hidden")
	tagged := WithUserID(WithWorkerID(logger, 7), 10)
	tagged.Info().Msg("visible")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"worker_id":7`)
	assert.Contains(t, out, `"user_id":10`)
	assert.Contains(t, out, `"message":"visible"`)
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	ctx := WithLogger(context.Background(), logger)
	FromContext(ctx).Info().Msg("from ctx")

	assert.Contains(t, buf.String(), "from ctx")
}

func TestPgxLogLevel(t *testing.T) {
	assert.Equal(t, tracelog.LogLevelDebug, PgxLogLevel(zerolog.DebugLevel))
	assert.Equal(t, tracelog.LogLevelError, PgxLogLevel(zerolog.FatalLevel))
	assert.Equal(t, tracelog.LogLevelNone, PgxLogLevel(zerolog.Disabled))
}

func TestRepoMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRepoMetrics(reg)

	m.Observe("insert_worker", "success", 10*time.Millisecond)
	m.Observe("insert_worker", "success", 20*time.Millisecond)
	m.Observe("insert_worker", "constraint_violation", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues("insert_worker", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("insert_worker", "constraint_violation")))

	var nilMetrics *RepoMetrics
	assert.NotPanics(t, func() { nilMetrics.Observe("x", "y", time.Second) })
}

func TestAuditMetrics(t *testing.T) {
	m := NewAuditMetrics(prometheus.NewRegistry())
	m.Event("worker.deleted", "acked")
	m.Event("worker.deleted", "requeued")
	m.Event("worker.deleted", "acked")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.events.WithLabelValues("worker.deleted", "acked")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.events.WithLabelValues("worker.deleted", "requeued")))

	var nilMetrics *AuditMetrics
	assert.NotPanics(t, func() { nilMetrics.Event("worker.deleted", "acked") })
}
