package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registerOnce sync.Once

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "thangka",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	requestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "thangka",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	toggleTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "thangka",
			Subsystem: "social",
			Name:      "toggles_total",
			Help:      "Like, bookmark and follow toggles by resulting action.",
		},
		[]string{"kind", "action"},
	)

	notificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "thangka",
			Subsystem: "social",
			Name:      "notifications_total",
			Help:      "Notifications created by type.",
		},
		[]string{"type"},
	)
)

func register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(requestDuration, requestTotal, toggleTotal, notificationsTotal)
	})
}

// GinMiddleware records latency and count per route template.
func GinMiddleware() gin.HandlerFunc {
	register()

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		labels := prometheus.Labels{
			"method": c.Request.Method,
			"path":   path,
			"status": strconv.Itoa(c.Writer.Status()),
		}
		requestDuration.With(labels).Observe(time.Since(start).Seconds())
		requestTotal.With(labels).Inc()
	}
}

func Handler() gin.HandlerFunc {
	register()
	return gin.WrapH(promhttp.Handler())
}

func ObserveToggle(kind, action string) {
	toggleTotal.WithLabelValues(kind, action).Inc()
}

func ObserveNotification(typ string) {
	notificationsTotal.WithLabelValues(typ).Inc()
}
