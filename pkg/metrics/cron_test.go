package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCronJobMetricsRecords(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewCronJobMetrics(reg)

	m.ObserveDuration("wizard_session_sweep", 2*time.Second)
	m.IncSuccess("wizard_session_sweep")
	m.IncFailure("outbox_retention")

	if got := testutil.ToFloat64(m.success.WithLabelValues("wizard_session_sweep")); got != 1 {
		t.Fatalf("expected 1 success, got %v", got)
	}
	if got := testutil.ToFloat64(m.failure.WithLabelValues("outbox_retention")); got != 1 {
		t.Fatalf("expected 1 failure, got %v", got)
	}
}

func TestCronJobMetricsNilSafe(t *testing.T) {
	t.Parallel()

	var m *CronJobMetrics
	m.ObserveDuration("noop", time.Second)
	m.IncSuccess("noop")
	m.IncFailure("noop")

	empty := NewCronJobMetrics(nil)
	empty.IncSuccess("noop")
}
