// Package metrics holds the storefront's business counters. HTTP request
// metrics live with the middleware.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// StoreMetrics counts order lifecycle events. A nil *StoreMetrics is valid
// and records nothing.
type StoreMetrics struct {
	ordersPlaced      prometheus.Counter
	ordersCancelled   prometheus.Counter
	statusUpdates     *prometheus.CounterVec
	statusRegressions prometheus.Counter
	orderValue        prometheus.Histogram
}

func NewStoreMetrics() *StoreMetrics {
	return NewStoreMetricsWith(prometheus.DefaultRegisterer)
}

// NewStoreMetricsWith registers on reg. Registering twice on the same
// registry reuses the existing collectors.
func NewStoreMetricsWith(reg prometheus.Registerer) *StoreMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &StoreMetrics{
		ordersPlaced: register(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "produce_orders_placed_total",
			Help: "Orders successfully placed",
		})),
		ordersCancelled: register(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "produce_orders_cancelled_total",
			Help: "Orders cancelled (deleted) by their buyer",
		})),
		statusUpdates: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "produce_order_status_updates_total",
			Help: "Order status changes applied by admins, by new status",
		}, []string{"status"})),
		statusRegressions: register(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "produce_order_status_regressions_total",
			Help: "Status changes that moved an order backwards in the lifecycle",
		})),
		orderValue: register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "produce_order_value",
			Help:    "Total price of placed orders",
			Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		})),
	}
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			panic(fmt.Sprintf("register collector: %v", err))
		}
		existing, ok := are.ExistingCollector.(C)
		if !ok {
			panic("collector already registered with unexpected type")
		}
		return existing
	}
	return c
}

func (m *StoreMetrics) OrderPlaced(total float64) {
	if m == nil {
		return
	}
	m.ordersPlaced.Inc()
	m.orderValue.Observe(total)
}

func (m *StoreMetrics) OrderCancelled() {
	if m == nil {
		return
	}
	m.ordersCancelled.Inc()
}

// StatusChanged records an admin status update. regressed marks a move to an
// earlier lifecycle stage, which is accepted but worth watching.
func (m *StoreMetrics) StatusChanged(status string, regressed bool) {
	if m == nil {
		return
	}
	m.statusUpdates.WithLabelValues(status).Inc()
	if regressed {
		m.statusRegressions.Inc()
	}
}
