package cache

import "sync/atomic"

// Statistics tracks cache activity with atomic counters. Always collected;
// cheap enough that observability is not optional.
type Statistics struct {
	hits   atomic.Int64
	misses atomic.Int64
}

// NewStatistics returns a zeroed collector.
func NewStatistics() *Statistics {
	return &Statistics{}
}

// Hit records a request served from an existing flight.
func (s *Statistics) Hit() { s.hits.Add(1) }

// Miss records a request that started a new load.
func (s *Statistics) Miss() { s.misses.Add(1) }

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Hits   int64
	Misses int64
}

// Loads returns the number of physical loads started. Every miss starts
// exactly one load, so the two are the same number.
func (s Snapshot) Loads() int64 { return s.Misses }

// Snapshot copies the current counter values.
func (s *Statistics) Snapshot() Snapshot {
	return Snapshot{
		Hits:   s.hits.Load(),
		Misses: s.misses.Load(),
	}
}
