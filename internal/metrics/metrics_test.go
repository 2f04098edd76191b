package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	a := assert.New(t)

	before := testutil.ToFloat64(Metrics.handsStartedCounter)
	Metrics.HandStarted()
	a.Equal(before+1, testutil.ToFloat64(Metrics.handsStartedCounter))

	Metrics.DeferredCheck("auto-approval", false)
	Metrics.DeferredCheck("auto-approval", false)
	Metrics.DeferredCheck("auto-approval", true)
	a.Equal(float64(2), testutil.ToFloat64(Metrics.deferredChecksCounter.WithLabelValues("auto-approval", "skipped")))
	a.Equal(float64(1), testutil.ToFloat64(Metrics.deferredChecksCounter.WithLabelValues("auto-approval", "applied")))

	Metrics.OperationCommitted("approve")
	a.Equal(float64(1), testutil.ToFloat64(Metrics.actionsCounter.WithLabelValues("approve")))

	Metrics.SetActiveTables(3)
	a.Equal(float64(3), testutil.ToFloat64(Metrics.activeTablesGauge))

	Metrics.ClientConnected()
	Metrics.ClientConnected()
	Metrics.ClientDisconnected()
	a.Equal(float64(1), testutil.ToFloat64(Metrics.connectedClientsGauge))
}
