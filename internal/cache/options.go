package cache

import "github.com/prometheus/client_golang/prometheus"

type options struct {
	registerer prometheus.Registerer
	name       string
}

// Option configures a Flight cache.
type Option func(*options)

// WithMetrics attaches Prometheus metrics under the given cache name
// (used as the "cache" label on every series).
func WithMetrics(reg prometheus.Registerer, name string) Option {
	return func(o *options) {
		o.registerer = reg
		o.name = name
	}
}

func applyOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
