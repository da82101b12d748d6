package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// flightMetrics exposes cache activity as Prometheus series, labelled by
// cache name so the file cache and the session cache stay distinguishable.
type flightMetrics struct {
	hits   prometheus.Counter
	misses prometheus.Counter
	loads  prometheus.Counter
	size   prometheus.Gauge
}

func newFlightMetrics(reg prometheus.Registerer, name string) *flightMetrics {
	labels := prometheus.Labels{"cache": name}
	return &flightMetrics{
		hits: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace:   "racefeed",
			Subsystem:   "cache",
			Name:        "hits_total",
			Help:        "Requests served from an in-flight or completed load.",
			ConstLabels: labels,
		}),
		misses: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace:   "racefeed",
			Subsystem:   "cache",
			Name:        "misses_total",
			Help:        "Requests that started a new load.",
			ConstLabels: labels,
		}),
		loads: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace:   "racefeed",
			Subsystem:   "cache",
			Name:        "loads_total",
			Help:        "Physical loads started.",
			ConstLabels: labels,
		}),
		size: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Namespace:   "racefeed",
			Subsystem:   "cache",
			Name:        "entries",
			Help:        "Keys with an in-flight or completed load.",
			ConstLabels: labels,
		}),
	}
}
