// Package cache provides a generic promise de-duplication cache: the value
// stored per key is the in-flight (or completed) load itself, so any number
// of concurrent callers for the same key share exactly one execution of the
// load function for the lifetime of the process.
//
// There is no eviction and no invalidation. The ingest layer assumes its
// input files are static for the process lifetime; serving a stale entry
// after an underlying file changed is a documented scope limit, not a bug.
//
// Statistics are always collected; Prometheus metrics are optional via
// functional options.
package cache

import (
	"context"
	"sync"
)

// LoadFunc performs the single physical load for a key.
type LoadFunc[V any] func(ctx context.Context) (V, error)

// flight is the stored handle for one key: a completion signal plus the
// eventual result. Storing the handle (not a flag-and-slot pair) is what
// closes the race between "check" and "store".
type flight[V any] struct {
	done chan struct{}
	val  V
	err  error
}

// Flight is a keyed de-duplication cache. The zero value is not usable;
// construct with New.
type Flight[V any] struct {
	mu      sync.Mutex
	flights map[string]*flight[V]
	stats   *Statistics
	metrics *flightMetrics
}

// New creates an empty Flight cache. Options may attach Prometheus metrics.
func New[V any](opts ...Option) *Flight[V] {
	o := applyOptions(opts)

	var metrics *flightMetrics
	if o.registerer != nil && o.name != "" {
		metrics = newFlightMetrics(o.registerer, o.name)
	}

	return &Flight[V]{
		flights: make(map[string]*flight[V]),
		stats:   NewStatistics(),
		metrics: metrics,
	}
}

// Do returns the result of the single load for key. The first caller for a
// key starts the load; every caller (first or not) blocks until that load
// completes or its own context is cancelled. Cancellation of a waiter never
// cancels the shared load, so the entry stays usable for later callers.
//
// Load results are cached including errors: a key resolves exactly once per
// process lifetime.
func (f *Flight[V]) Do(ctx context.Context, key string, load LoadFunc[V]) (V, error) {
	f.mu.Lock()
	fl, ok := f.flights[key]
	if ok {
		f.mu.Unlock()
		f.stats.Hit()
		if f.metrics != nil {
			f.metrics.hits.Inc()
		}
		return fl.wait(ctx)
	}

	fl = &flight[V]{done: make(chan struct{})}
	f.flights[key] = fl
	f.mu.Unlock()

	f.stats.Miss()
	if f.metrics != nil {
		f.metrics.misses.Inc()
		f.metrics.loads.Inc()
		f.metrics.size.Inc()
	}

	// The load runs detached from the initiating caller's cancellation:
	// every waiter shares this one execution, so the first caller hanging
	// up must not poison the entry for the rest.
	go func() {
		defer close(fl.done)
		fl.val, fl.err = load(context.WithoutCancel(ctx))
	}()

	return fl.wait(ctx)
}

// wait blocks until the flight completes or ctx is cancelled.
func (fl *flight[V]) wait(ctx context.Context) (V, error) {
	select {
	case <-fl.done:
		return fl.val, fl.err
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}

// Size returns the number of keys with an in-flight or completed load.
func (f *Flight[V]) Size() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.flights)
}

// Keys returns every cached key, in map order.
func (f *Flight[V]) Keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := make([]string, 0, len(f.flights))
	for k := range f.flights {
		keys = append(keys, k)
	}
	return keys
}

// Stats returns the cache's statistics collector.
func (f *Flight[V]) Stats() *Statistics {
	return f.stats
}
