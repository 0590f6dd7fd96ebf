package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestStoreMetrics_Counts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewStoreMetricsWith(reg)

	m.OrderPlaced(35)
	m.OrderPlaced(10)
	m.OrderCancelled()
	m.StatusChanged("shipped", false)
	m.StatusChanged("placed", true)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ordersPlaced))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ordersCancelled))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.statusUpdates.WithLabelValues("shipped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.statusRegressions))
}

func TestStoreMetrics_ReRegisterReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	a := NewStoreMetricsWith(reg)
	b := NewStoreMetricsWith(reg)

	a.OrderCancelled()
	b.OrderCancelled()

	assert.Equal(t, 2.0, testutil.ToFloat64(a.ordersCancelled))
}

func TestStoreMetrics_NilIsNoop(t *testing.T) {
	var m *StoreMetrics
	assert.NotPanics(t, func() {
		m.OrderPlaced(1)
		m.OrderCancelled()
		m.StatusChanged("placed", true)
	})
}

func TestHTTPMetrics_Begin(t *testing.T) {
	m := NewHTTPMetricsWith(prometheus.NewRegistry())

	done := m.Begin()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.inFlight))
	done("/api/v1/orders", "POST", 201)

	assert.Equal(t, 0.0, testutil.ToFloat64(m.inFlight))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("/api/v1/orders", "POST", "201")))

	var nilM *HTTPMetrics
	assert.NotPanics(t, func() { nilM.Begin()("/", "GET", 200) })
}
