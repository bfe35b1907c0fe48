package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	jobRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "orbita",
		Name:      "job_runs_total",
		Help:      "Background job ticks by job name and outcome",
	}, []string{"job", "status"})

	jobRunDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "orbita",
		Name:      "job_run_duration_seconds",
		Help:      "Background job tick duration",
		Buckets:   prometheus.DefBuckets,
	}, []string{"job"})
)

func ObserveJobRun(job string, duration time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	jobRunsTotal.WithLabelValues(job, status).Inc()
	jobRunDuration.WithLabelValues(job).Observe(duration.Seconds())
}
