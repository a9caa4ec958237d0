package ofmetrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/flowforge/goflow10/internal/ofmetrics"
)

func TestNewCollector(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := ofmetrics.NewCollector(reg)

	if c.Errors == nil {
		t.Error("Errors is nil")
	}
	if c.MessagesReceived == nil {
		t.Error("MessagesReceived is nil")
	}
	if c.ConnectionsActive == nil {
		t.Error("ConnectionsActive is nil")
	}
	if c.ConnectionsAccepted == nil {
		t.Error("ConnectionsAccepted is nil")
	}
	if c.ConnectionsClosed == nil {
		t.Error("ConnectionsClosed is nil")
	}

	// Verify all metrics are registered by gathering them.
	if _, err := reg.Gather(); err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
}

func TestIncError(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := ofmetrics.NewCollector(reg)

	c.IncError("truncated")
	c.IncError("truncated")
	c.IncError("version_mismatch")

	if v := counterValue(t, c.Errors, "truncated"); v != 2 {
		t.Errorf("Errors[truncated] = %v, want 2", v)
	}
	if v := counterValue(t, c.Errors, "version_mismatch"); v != 1 {
		t.Errorf("Errors[version_mismatch] = %v, want 1", v)
	}
}

func TestIncMessageReceived(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := ofmetrics.NewCollector(reg)

	c.IncMessageReceived("PacketIn")
	c.IncMessageReceived("PacketIn")
	c.IncMessageReceived("Hello")

	if v := counterValue(t, c.MessagesReceived, "PacketIn"); v != 2 {
		t.Errorf("MessagesReceived[PacketIn] = %v, want 2", v)
	}
	if v := counterValue(t, c.MessagesReceived, "Hello"); v != 1 {
		t.Errorf("MessagesReceived[Hello] = %v, want 1", v)
	}
}

func TestConnectionLifecycle(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := ofmetrics.NewCollector(reg)

	c.ConnAccepted()
	c.ConnAccepted()
	c.ConnClosed()

	if v := gaugeValue(t, c.ConnectionsActive); v != 1 {
		t.Errorf("ConnectionsActive = %v, want 1", v)
	}

	m := &dto.Metric{}
	if err := c.ConnectionsAccepted.Write(m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if m.GetCounter().GetValue() != 2 {
		t.Errorf("ConnectionsAccepted = %v, want 2", m.GetCounter().GetValue())
	}
}

// -------------------------------------------------------------------------
// Helpers
// -------------------------------------------------------------------------

func counterValue(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()

	counter, err := vec.GetMetricWithLabelValues(labels...)
	if err != nil {
		t.Fatalf("GetMetricWithLabelValues(%v): %v", labels, err)
	}

	m := &dto.Metric{}
	if err := counter.Write(m); err != nil {
		t.Fatalf("Write metric: %v", err)
	}

	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()

	m := &dto.Metric{}
	if err := g.Write(m); err != nil {
		t.Fatalf("Write metric: %v", err)
	}

	return m.GetGauge().GetValue()
}
