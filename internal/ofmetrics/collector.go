// Package ofmetrics exposes Prometheus metrics for the OpenFlow server:
// decode/IO error counts by kind, message counts by type, and connection
// gauges.
package ofmetrics

import "github.com/prometheus/client_golang/prometheus"

// -------------------------------------------------------------------------
// Prometheus Metric Constants
// -------------------------------------------------------------------------

const (
	namespace = "goflow10"
	subsystem = "server"
)

// Label names.
const (
	labelKind        = "kind"
	labelMessageType = "message_type"
)

// -------------------------------------------------------------------------
// Collector — Prometheus OpenFlow server metrics
// -------------------------------------------------------------------------

// Collector holds all OpenFlow server Prometheus metrics.
//
//   - Errors counts decode/IO failures labeled by kind, so that a kind
//     climbing faster than normal is visible without reading logs.
//   - MessagesReceived counts decoded SCMessages labeled by type.
//   - ConnectionsActive/Accepted/Closed track connection lifecycle.
type Collector struct {
	// Errors counts decode/IO failures labeled by kind (truncated,
	// version_mismatch, unknown_message_type, unknown_ether_type,
	// unknown_ip_protocol, malformed_trailer, invalid_enum,
	// length_inconsistent, io_error).
	Errors *prometheus.CounterVec

	// MessagesReceived counts decoded switch-to-controller messages,
	// labeled by message type name.
	MessagesReceived *prometheus.CounterVec

	// ConnectionsActive is the number of currently open switch connections.
	ConnectionsActive prometheus.Gauge

	// ConnectionsAccepted counts total accepted TCP connections.
	ConnectionsAccepted prometheus.Counter

	// ConnectionsClosed counts total connections closed, for any reason.
	ConnectionsClosed prometheus.Counter
}

// NewCollector creates a Collector with all metrics registered against reg.
// If reg is nil, prometheus.DefaultRegisterer is used.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := newMetrics()

	reg.MustRegister(
		c.Errors,
		c.MessagesReceived,
		c.ConnectionsActive,
		c.ConnectionsAccepted,
		c.ConnectionsClosed,
	)

	return c
}

// newMetrics creates all Prometheus metric vectors without registering them.
func newMetrics() *Collector {
	return &Collector{
		Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "errors_total",
			Help:      "Total decode/IO failures, labeled by error kind.",
		}, []string{labelKind}),

		MessagesReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "messages_received_total",
			Help:      "Total decoded switch-to-controller messages, labeled by message type.",
		}, []string{labelMessageType}),

		ConnectionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "connections_active",
			Help:      "Number of currently open switch connections.",
		}),

		ConnectionsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "connections_accepted_total",
			Help:      "Total TCP connections accepted.",
		}),

		ConnectionsClosed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "connections_closed_total",
			Help:      "Total connections closed, for any reason.",
		}),
	}
}

// -------------------------------------------------------------------------
// Error Counters
// -------------------------------------------------------------------------

// IncError increments the error counter for the given kind.
func (c *Collector) IncError(kind string) {
	c.Errors.WithLabelValues(kind).Inc()
}

// -------------------------------------------------------------------------
// Message Counters
// -------------------------------------------------------------------------

// IncMessageReceived increments the received-message counter for the
// given message type name.
func (c *Collector) IncMessageReceived(messageType string) {
	c.MessagesReceived.WithLabelValues(messageType).Inc()
}

// -------------------------------------------------------------------------
// Connection Lifecycle
// -------------------------------------------------------------------------

// ConnAccepted records a newly accepted connection.
func (c *Collector) ConnAccepted() {
	c.ConnectionsAccepted.Inc()
	c.ConnectionsActive.Inc()
}

// ConnClosed records a connection closing, for any reason.
func (c *Collector) ConnClosed() {
	c.ConnectionsClosed.Inc()
	c.ConnectionsActive.Dec()
}
