package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(jobsTotal, jobsOverflow) }

var jobsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "deploy_jobs_total",
		Help: "Total number of accepted jobs, labeled by terminal status.",
	},
	[]string{"status"}, // 'completed', 'failed'
)

var jobsOverflow = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "deploy_jobs_queue_overflow_total",
		Help: "Accepted jobs processed outside the worker pool because the queue was saturated.",
	},
)

func IncJob(status string) {
	jobsTotal.WithLabelValues(status).Inc()
}

func IncJobOverflow() {
	jobsOverflow.Inc()
}
