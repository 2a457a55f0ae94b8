// Package metrics exposes the market's prometheus instrumentation.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	OrdersSubmitted *prometheus.CounterVec
	OrdersRejected  prometheus.Counter
	OrdersCanceled  prometheus.Counter
	Trades          prometheus.Counter
	MatchedVolume   prometheus.Counter
	RestingOrders   *prometheus.GaugeVec
	BookDepth       *prometheus.GaugeVec
}

func New(namespace string) *Metrics {
	return &Metrics{
		OrdersSubmitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_submitted_total",
			Help:      "Orders accepted by the matching engine, by side.",
		}, []string{"side"}),
		OrdersRejected: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_rejected_total",
			Help:      "Orders rejected before or during matching.",
		}),
		OrdersCanceled: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_canceled_total",
			Help:      "Resting orders removed by cancellation.",
		}),
		Trades: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trades_total",
			Help:      "Executed fills.",
		}),
		MatchedVolume: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matched_base_volume_total",
			Help:      "Matched base-asset volume in base units.",
		}),
		RestingOrders: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "resting_orders",
			Help:      "Resting orders per book side.",
		}, []string{"side"}),
		BookDepth: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "book_depth_levels",
			Help:      "Distinct price levels per book side.",
		}, []string{"side"}),
	}
}

// Handler returns the scrape endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
