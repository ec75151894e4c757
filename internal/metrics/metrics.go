package metrics

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "daypeak_http_requests_total",
		Help: "Total number of HTTP requests by method, path and status",
	}, []string{"method", "path", "status"})

	// Tracker metrics
	ReadingsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "daypeak_readings_total",
		Help: "Total number of numeric readings accepted by the tracker",
	})
	ReadingsRejectedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "daypeak_readings_rejected_total",
		Help: "Total number of non-numeric readings ignored by the tracker",
	})
	SentinelReadingsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "daypeak_sentinel_readings_total",
		Help: "Total number of unknown/unavailable states recorded",
	})
	ResetsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "daypeak_resets_total",
		Help: "Total number of extremum window resets by trigger",
	}, []string{"trigger"})

	// Persistence metrics
	SnapshotSavesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "daypeak_snapshot_saves_total",
		Help: "Total number of snapshot upserts that succeeded",
	})
	SnapshotSaveFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "daypeak_snapshot_save_failures_total",
		Help: "Total number of snapshot upserts that failed",
	})
)

var registerOnce sync.Once

// Register adds all collectors to the default prometheus registry. Safe to
// call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HTTPRequestsTotal,
			ReadingsTotal,
			ReadingsRejectedTotal,
			SentinelReadingsTotal,
			ResetsTotal,
			SnapshotSavesTotal,
			SnapshotSaveFailuresTotal,
		)
	})
}

// Handler exposes the default registry as a gin handler for GET /metrics.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
