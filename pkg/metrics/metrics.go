package metrics

import (
	"database/sql"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the prometheus collectors exposed by the service.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	DBOpenConns     prometheus.Gauge
	DBIdleConns     prometheus.Gauge
	DBWaitCount     prometheus.Gauge
}

// New registers and returns the collectors for the given service name.
func New(serviceName string) *Metrics {
	labels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Number of HTTP requests by method, route and status code.",
			ConstLabels: labels,
		}, []string{"method", "route", "code"}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency by method and route.",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		DBOpenConns: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Open connections in the database pool.",
			ConstLabels: labels,
		}),
		DBIdleConns: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Idle connections in the database pool.",
			ConstLabels: labels,
		}),
		DBWaitCount: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_wait_count_total",
			Help:        "Cumulative number of waits for a database connection.",
			ConstLabels: labels,
		}),
	}
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(method, route, code string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, route, code).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// CollectDBStats samples pool statistics until stop is closed.
func (m *Metrics) CollectDBStats(db *sql.DB, interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			stats := db.Stats()
			m.DBOpenConns.Set(float64(stats.OpenConnections))
			m.DBIdleConns.Set(float64(stats.Idle))
			m.DBWaitCount.Set(float64(stats.WaitCount))
		}
	}
}
