// Package playback composes the session-level snapshot a client needs
// before continuous frame streaming begins: the finishing results, class
// results, the latest weather sample, and one sample telemetry frame.
package playback

import (
	"context"
	"log/slog"

	"github.com/openpaddock/racefeed/internal/schema"
	"github.com/openpaddock/racefeed/internal/session"
	"github.com/openpaddock/racefeed/internal/stream"
)

// Bootstrap is the snapshot delivered to a consumer before streaming.
// Collections are always non-nil; the weather and sample-frame fields are
// nil when the underlying data is absent.
type Bootstrap struct {
	Session       string                  `json:"session"`
	ResultRows    []schema.ResultRow      `json:"resultRows"`
	ClassResults  []schema.ClassResultRow `json:"classResultRows"`
	LatestWeather *schema.WeatherSample   `json:"latestWeather"`
	SampleFrame   *schema.TelemetryFrame  `json:"sampleTelemetryFrame"`
}

// Service builds bootstrap snapshots from the session assembler and the
// streaming telemetry reader.
type Service struct {
	sessions  *session.Service
	telemetry *stream.Reader
}

// NewService wires the bootstrap service to its two data sources.
func NewService(sessions *session.Service, telemetry *stream.Reader) *Service {
	return &Service{sessions: sessions, telemetry: telemetry}
}

// Bootstrap returns the snapshot for one session. It never fails: if the
// schema assembly or the telemetry stream errors out, the affected fields
// degrade to empty collections or nil and the caller still receives a
// well-formed object.
func (s *Service) Bootstrap(ctx context.Context, sess string) Bootstrap {
	out := Bootstrap{
		Session:      sess,
		ResultRows:   []schema.ResultRow{},
		ClassResults: []schema.ClassResultRow{},
	}

	sch, err := s.sessions.LoadSchema(ctx, sess)
	if err != nil {
		slog.Warn("bootstrap: schema load failed, serving empty snapshot",
			"session", sess, "error", err)
	} else {
		out.ResultRows = sch.ResultRows
		out.ClassResults = sch.ClassResultRows
		if n := len(sch.WeatherSamples); n > 0 {
			latest := sch.WeatherSamples[n-1]
			out.LatestWeather = &latest
		}
	}

	// One sample frame via the streaming path; the aggregate schema never
	// carries telemetry.
	seq := s.telemetry.Frames(ctx, sess, 1)
	defer seq.Close()
	if frame, ok := seq.Next(); ok {
		out.SampleFrame = &frame
	} else if err := seq.Err(); err != nil {
		slog.Warn("bootstrap: telemetry sample unavailable",
			"session", sess, "error", err)
	}

	return out
}
