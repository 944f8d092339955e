package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(notifyAttempts, notifyDeliveries) }

var notifyAttempts = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "notify_attempts_total",
		Help: "Individual callback POST attempts by outcome.",
	},
	[]string{"outcome"}, // 'ok', 'rejected', 'error'
)

var notifyDeliveries = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "notify_deliveries_total",
		Help: "Terminal delivery outcomes per report.",
	},
	[]string{"result"}, // 'delivered', 'exhausted'
)

func IncNotifyAttempt(outcome string) {
	notifyAttempts.WithLabelValues(outcome).Inc()
}

func IncNotifyDelivery(result string) {
	notifyDeliveries.WithLabelValues(result).Inc()
}
