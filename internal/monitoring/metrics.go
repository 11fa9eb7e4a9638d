package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_event_fetch_total",
			Help: "Total event store fetches",
		},
		[]string{"status"},
	)

	completionRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_completion_requests_total",
			Help: "Total chat completion requests",
		},
		[]string{"provider", "status"},
	)

	completionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portal_completion_duration_seconds",
			Help:    "Latency of chat completion requests",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 8),
		},
		[]string{"provider"},
	)

	importRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_csv_import_rows_total",
			Help: "CSV rows processed by bulk upload",
		},
		[]string{"result"},
	)
)

func statusLabel(ok bool) string {
	if ok {
		return "success"
	}
	return "error"
}

// ObserveFetch 记录一次活动拉取
func ObserveFetch(ok bool) {
	eventFetches.WithLabelValues(statusLabel(ok)).Inc()
}

// ObserveCompletion 记录一次补全调用及耗时
func ObserveCompletion(provider string, started time.Time, ok bool) {
	completionRequests.WithLabelValues(provider, statusLabel(ok)).Inc()
	completionDuration.WithLabelValues(provider).Observe(time.Since(started).Seconds())
}

// ObserveImport 记录 CSV 导入行数
func ObserveImport(succeeded, failed int) {
	importRows.WithLabelValues("success").Add(float64(succeeded))
	importRows.WithLabelValues("error").Add(float64(failed))
}
