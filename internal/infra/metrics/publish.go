package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(publishFailures, publishDuration) }

var publishFailures = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "publish_failures_total",
		Help: "Terminal publish failures labeled by stage.",
	},
	[]string{"stage"}, // 'create_repo', 'push', 'enable_pages'
)

var publishDuration = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "publish_duration_seconds",
		Help:    "End-to-end duration of a successful create+push+enable sequence.",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
	},
)

func IncPublishFailure(stage string) {
	publishFailures.WithLabelValues(stage).Inc()
}

func ObservePublishDuration(d time.Duration) {
	publishDuration.Observe(d.Seconds())
}
