// Package session assembles the typed schema for one session from every
// catalog dataset scoped to it. File parses and whole-session assemblies
// are both de-duplicated: at most one physical read per path and one
// assembly per session for the process lifetime.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/openpaddock/racefeed/internal/cache"
	"github.com/openpaddock/racefeed/internal/catalog"
	"github.com/openpaddock/racefeed/internal/csv"
	"github.com/openpaddock/racefeed/internal/schema"
)

// datasetConcurrency bounds how many dataset files one assembly reads at a
// time. The files are small except telemetry, which never goes through here.
const datasetConcurrency = 4

// Service owns the file and session caches. Construct one per process and
// share it; tests construct a fresh one per test to get a cold cache.
type Service struct {
	root    string
	files   *cache.Flight[[][]string]
	schemas *cache.Flight[*schema.SessionSchema]
}

// NewService creates a Service rooted at the configured data directory.
// Cache options (e.g. Prometheus metrics) apply to the file cache; the
// session cache gets its own metric series.
func NewService(root string, fileCacheOpts []cache.Option, schemaCacheOpts []cache.Option) *Service {
	return &Service{
		root:    root,
		files:   cache.New[[][]string](fileCacheOpts...),
		schemas: cache.New[*schema.SessionSchema](schemaCacheOpts...),
	}
}

// resolve turns a slash-separated catalog path into an absolute path under
// the data root.
func (s *Service) resolve(path string) string {
	return filepath.Join(s.root, filepath.FromSlash(path))
}

// LoadRows returns the tokenized rows for one dataset, at most one physical
// read per path. A missing file is non-fatal: it resolves to zero rows and
// a warning, and the empty result is cached like any other.
func (s *Service) LoadRows(ctx context.Context, d catalog.Descriptor) ([][]string, error) {
	path := s.resolve(d.Path)
	return s.files.Do(ctx, path, func(ctx context.Context) ([][]string, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				slog.Warn("dataset file missing, treating as empty",
					"dataset", d.ID, "path", path)
				return [][]string{}, nil
			}
			return nil, fmt.Errorf("reading dataset %s: %w", d.ID, err)
		}

		rows := csv.Tokenize(string(data))
		s.checkExpectedColumns(d, rows)
		slog.Debug("dataset parsed", "dataset", d.ID, "rows", len(rows))
		return rows, nil
	})
}

// checkExpectedColumns logs any declared column the header does not carry.
// Advisory only: fallback chains usually cover the gap.
func (s *Service) checkExpectedColumns(d catalog.Descriptor, rows [][]string) {
	if len(rows) == 0 {
		return
	}
	hm := csv.BuildHeaderMap(rows[0])
	for _, col := range d.Columns {
		if _, ok := hm[csv.NormalizeHeader(col)]; !ok {
			slog.Debug("expected column absent from header",
				"dataset", d.ID, "column", col)
		}
	}
}

// LoadSchema assembles (or returns the cached) aggregate schema for one
// session. Dataset loads run concurrently and each one sits in its own
// failure boundary: a missing file or a panicking mapper leaves that
// dataset's collection empty and the rest of the assembly intact. The
// aggregate is best effort, never all-or-nothing.
func (s *Service) LoadSchema(ctx context.Context, session string) (*schema.SessionSchema, error) {
	return s.schemas.Do(ctx, session, func(ctx context.Context) (*schema.SessionSchema, error) {
		out := schema.NewSessionSchema(session)
		var mu sync.Mutex

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(datasetConcurrency)

		for _, d := range catalog.ForSession(session) {
			d := d
			if d.Category == catalog.CategoryTelemetry {
				// Telemetry is never bulk-materialized; the streaming
				// reader is its only consumer.
				continue
			}
			g.Go(func() error {
				s.buildDataset(gctx, d, session, out, &mu)
				return nil
			})
		}

		// Every goroutine returns nil; Wait is purely the join point.
		_ = g.Wait()
		return out, nil
	})
}

// buildDataset loads, maps, and merges one dataset. All failures stop here.
func (s *Service) buildDataset(ctx context.Context, d catalog.Descriptor, session string, out *schema.SessionSchema, mu *sync.Mutex) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("dataset mapper failed, collection left empty",
				"dataset", d.ID, "panic", r)
		}
	}()

	rows, err := s.LoadRows(ctx, d)
	if err != nil {
		slog.Warn("dataset load failed, collection left empty",
			"dataset", d.ID, "error", err)
		return
	}

	mu.Lock()
	defer mu.Unlock()
	switch d.Category {
	case catalog.CategoryResults:
		out.ResultRows = append(out.ResultRows, schema.MapResults(rows, session)...)
	case catalog.CategoryClassResults:
		out.ClassResultRows = append(out.ClassResultRows, schema.MapClassResults(rows, session)...)
	case catalog.CategoryWeather:
		out.WeatherSamples = append(out.WeatherSamples, schema.MapWeather(rows, session)...)
	case catalog.CategoryLapSegments:
		out.LapSegmentRows = append(out.LapSegmentRows, schema.MapLapSegments(rows, session)...)
	case catalog.CategoryLapTimings:
		out.LapTimingRows = append(out.LapTimingRows, schema.MapLapTimings(rows, session)...)
	case catalog.CategoryBestLaps:
		out.BestLapRows = append(out.BestLapRows, schema.MapBestLaps(rows, session)...)
	default:
		slog.Warn("dataset has unmapped category", "dataset", d.ID, "category", d.Category)
	}
}

// FileCacheStats exposes the file cache statistics, mainly for tests and
// diagnostics.
func (s *Service) FileCacheStats() cache.Snapshot {
	return s.files.Stats().Snapshot()
}
