package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	TransfersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transfers_total",
			Help: "Transfer attempts by outcome",
		},
		[]string{"outcome"}, // success|validation|credential|not_found|self_transfer|insufficient|timeout|config_missing|failed
	)

	TransferAmount = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "transfer_amount_minor_units",
			Help:    "Amounts of successful transfers in minor currency units",
			Buckets: prometheus.ExponentialBuckets(10000, 4, 8),
		},
	)
)

// Handler serves /metrics.
var Handler = promhttp.Handler

func Init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(TransfersTotal)
	prometheus.MustRegister(TransferAmount)
}
