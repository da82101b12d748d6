// Package catalog is the static registry of session export files: which
// logical dataset lives at which path, which session it belongs to, which
// schema category its rows map into, and which columns it is expected to
// carry. Descriptors are pure data, registered once at init and never
// mutated.
package catalog

import (
	"fmt"
	"sort"
	"sync"
)

// Category identifies which typed collection a dataset's rows feed.
type Category string

const (
	CategoryResults      Category = "results"
	CategoryClassResults Category = "class_results"
	CategoryWeather      Category = "weather"
	CategoryLapSegments  Category = "lap_segments"
	CategoryLapTimings   Category = "lap_timings"
	CategoryBestLaps     Category = "best_laps"
	CategoryTelemetry    Category = "telemetry"
)

// Session identifiers for the two scopes a race weekend export covers.
const (
	SessionRace       = "race"
	SessionQualifying = "qualifying"
)

// Scope declares which session(s) a dataset belongs to.
type Scope string

const (
	ScopeRace       Scope = "race"
	ScopeQualifying Scope = "qualifying"
	ScopeBoth       Scope = "both"
)

// Matches reports whether a descriptor with this scope feeds the given
// session.
func (s Scope) Matches(session string) bool {
	return s == ScopeBoth || string(s) == session
}

// Descriptor declares one physical input file and how it maps into the
// output schema. Paths are slash-separated and relative to the configured
// data root.
type Descriptor struct {
	ID       string
	Scope    Scope
	Path     string
	Category Category
	// Columns lists the column names this dataset is expected to carry.
	// The ingest layer logs (but tolerates) headers that are missing any
	// of them; source files disagree on naming often enough that this is
	// advisory, not enforced.
	Columns []string
}

var (
	mu       sync.RWMutex
	registry = map[string]Descriptor{}
)

// Register adds a descriptor to the catalog. It panics on a duplicate id;
// registration happens only from init funcs, so a duplicate is a
// programming error caught at startup.
func Register(d Descriptor) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := registry[d.ID]; exists {
		panic(fmt.Sprintf("catalog: duplicate dataset id %q", d.ID))
	}
	registry[d.ID] = d
}

// Descriptors returns every registered descriptor, ordered by id.
func Descriptors() []Descriptor {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Descriptor, 0, len(registry))
	for _, d := range registry {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ForSession returns every descriptor whose scope matches the session,
// ordered by id.
func ForSession(session string) []Descriptor {
	var out []Descriptor
	for _, d := range Descriptors() {
		if d.Scope.Matches(session) {
			out = append(out, d)
		}
	}
	return out
}

// Telemetry returns the telemetry-frame descriptor for the session, if one
// is registered. Telemetry is served only by the streaming reader and is
// excluded from bulk schema assembly.
func Telemetry(session string) (Descriptor, bool) {
	for _, d := range ForSession(session) {
		if d.Category == CategoryTelemetry {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Sessions returns the known session identifiers.
func Sessions() []string {
	return []string{SessionRace, SessionQualifying}
}

// ValidSession reports whether session is a known session identifier.
func ValidSession(session string) bool {
	return session == SessionRace || session == SessionQualifying
}
