package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	handsStartedCounter    prometheus.Counter
	actionsCounter         *prometheus.CounterVec
	rejectedCounter        *prometheus.CounterVec
	potsDistributedCounter prometheus.Counter
	deferredChecksCounter  *prometheus.CounterVec
	activeTablesGauge      prometheus.Gauge
	connectedClientsGauge  prometheus.Gauge
}

// HandStarted counts a new hand
func (m *metrics) HandStarted() {
	m.handsStartedCounter.Inc()
}

// OperationCommitted counts an operation that changed a hand, e.g. "action" or "approve"
func (m *metrics) OperationCommitted(operation string) {
	m.actionsCounter.WithLabelValues(operation).Inc()
}

// OperationRejected counts an operation that failed validation
func (m *metrics) OperationRejected(operation string) {
	m.rejectedCounter.WithLabelValues(operation).Inc()
}

// PotDistributed counts a hand that paid out
func (m *metrics) PotDistributed() {
	m.potsDistributedCounter.Inc()
}

// DeferredCheck counts a deferred winner selection check and whether it changed the hand
func (m *metrics) DeferredCheck(kind string, applied bool) {
	result := "skipped"
	if applied {
		result = "applied"
	}

	m.deferredChecksCounter.WithLabelValues(kind, result).Inc()
}

// SetActiveTables sets how many tables have a running dealer
func (m *metrics) SetActiveTables(count int) {
	m.activeTablesGauge.Set(float64(count))
}

// ClientConnected tracks a websocket client joining
func (m *metrics) ClientConnected() {
	m.connectedClientsGauge.Inc()
}

// ClientDisconnected tracks a websocket client leaving
func (m *metrics) ClientDisconnected() {
	m.connectedClientsGauge.Dec()
}

// Metrics is the process wide set of metrics
var Metrics = &metrics{
	handsStartedCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "chipstack_hands_started_total",
		Help: "Total number of hands started",
	}),
	actionsCounter: promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chipstack_operations_committed_total",
		Help: "Total number of hand operations committed",
	}, []string{"operation"}),
	rejectedCounter: promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chipstack_operations_rejected_total",
		Help: "Total number of hand operations that failed validation",
	}, []string{"operation"}),
	potsDistributedCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "chipstack_pots_distributed_total",
		Help: "Total number of pots paid out",
	}),
	deferredChecksCounter: promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chipstack_deferred_checks_total",
		Help: "Total number of deferred winner selection checks",
	}, []string{"kind", "result"}),
	activeTablesGauge: promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chipstack_active_tables",
		Help: "Count of tables with a running dealer",
	}),
	connectedClientsGauge: promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chipstack_connected_clients",
		Help: "Count of connected websocket clients",
	}),
}
