// Package stream serves the high-frequency telemetry file as a lazy,
// forward-only, cancelable sequence of frames. Telemetry exports run to
// multiple gigabytes, so the file is read line by line into a bounded
// buffer and is never materialized as a whole; a consumer that stops
// iterating releases the underlying file handle promptly.
package stream

import (
	"bufio"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/openpaddock/racefeed/internal/catalog"
	"github.com/openpaddock/racefeed/internal/csv"
	"github.com/openpaddock/racefeed/internal/schema"
)

const (
	// DefaultBufferFrames is the channel capacity between the file reader
	// and the consumer when the config does not say otherwise.
	DefaultBufferFrames = 64

	// DefaultMaxLineBytes bounds a single telemetry line. Lines beyond
	// this indicate a corrupt file and terminate the stream with an error.
	DefaultMaxLineBytes = 1 << 20
)

// Reader opens telemetry streams for sessions. It holds no per-stream
// state; one Reader serves any number of concurrent consumers.
type Reader struct {
	root         string
	bufferFrames int
	maxLineBytes int
	frames       prometheus.Counter
	dropped      prometheus.Counter
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithBuffer sets the frame channel capacity.
func WithBuffer(n int) ReaderOption {
	return func(r *Reader) {
		if n > 0 {
			r.bufferFrames = n
		}
	}
}

// WithMaxLineBytes sets the scanner's maximum line length.
func WithMaxLineBytes(n int) ReaderOption {
	return func(r *Reader) {
		if n > 0 {
			r.maxLineBytes = n
		}
	}
}

// WithReaderMetrics registers frame counters with reg.
func WithReaderMetrics(reg prometheus.Registerer) ReaderOption {
	return func(r *Reader) {
		r.frames = promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "racefeed",
			Subsystem: "stream",
			Name:      "frames_total",
			Help:      "Telemetry frames yielded to consumers.",
		})
		r.dropped = promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "racefeed",
			Subsystem: "stream",
			Name:      "dropped_rows_total",
			Help:      "Telemetry rows dropped for lacking a parseable position.",
		})
	}
}

// NewReader creates a Reader rooted at the configured data directory.
func NewReader(root string, opts ...ReaderOption) *Reader {
	r := &Reader{
		root:         root,
		bufferFrames: DefaultBufferFrames,
		maxLineBytes: DefaultMaxLineBytes,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Frames opens the session's telemetry file and returns a FrameSeq yielding
// frames in file order. limit > 0 stops the sequence after that many frames
// and closes the file; limit <= 0 streams to EOF.
//
// A missing file (or a session with no telemetry dataset) yields an empty
// sequence and a warning, not an error. Rows whose latitude or longitude
// does not parse are dropped silently. I/O failures mid-stream surface via
// FrameSeq.Err after the sequence ends.
//
// Frames are yielded in file order with no re-sorting; source files are
// assumed pre-sorted by time.
func (r *Reader) Frames(ctx context.Context, session string, limit int) *FrameSeq {
	seq := &FrameSeq{
		ch:   make(chan schema.TelemetryFrame, r.bufferFrames),
		stop: make(chan struct{}),
	}

	d, ok := catalog.Telemetry(session)
	if !ok {
		slog.Warn("session has no telemetry dataset", "session", session)
		close(seq.ch)
		return seq
	}

	path := r.resolve(d.Path)
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Warn("telemetry file missing, stream yields nothing",
				"dataset", d.ID, "path", path)
			close(seq.ch)
			return seq
		}
		seq.err = err
		close(seq.ch)
		return seq
	}

	streamID := uuid.NewString()
	slog.Debug("telemetry stream opened",
		"stream_id", streamID, "session", session, "limit", limit)

	go r.pump(ctx, file, session, streamID, limit, seq)
	return seq
}

// pump reads the file line by line and feeds the sequence until EOF, the
// limit, consumer Close, or context cancellation, whichever comes first.
func (r *Reader) pump(ctx context.Context, file *os.File, session, streamID string, limit int, seq *FrameSeq) {
	defer func() {
		file.Close()
		close(seq.ch)
		slog.Debug("telemetry stream closed", "stream_id", streamID)
	}()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), r.maxLineBytes)

	var (
		delim   rune
		hm      csv.HeaderMap
		yielded int
		first   = true
	)

	for scanner.Scan() {
		line := scanner.Text()
		if first {
			line = csv.StripBOM(line)
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		if first {
			// First non-blank line is the header; the delimiter is
			// re-detected from it alone.
			first = false
			delim = csv.DetectDelimiter(line)
			hm = csv.BuildHeaderMap(csv.SplitLine(line, delim))
			continue
		}

		frame, ok := schema.MapTelemetryRow(csv.SplitLine(line, delim), hm, session)
		if !ok {
			if r.dropped != nil {
				r.dropped.Inc()
			}
			continue
		}

		select {
		case seq.ch <- frame:
		case <-seq.stop:
			return
		case <-ctx.Done():
			seq.setErr(ctx.Err())
			return
		}

		if r.frames != nil {
			r.frames.Inc()
		}
		yielded++
		if limit > 0 && yielded >= limit {
			return
		}
	}

	if err := scanner.Err(); err != nil {
		seq.setErr(err)
	}
}

func (r *Reader) resolve(path string) string {
	return filepath.Join(r.root, filepath.FromSlash(path))
}

// FrameSeq is a forward-only, non-restartable frame sequence. Call Next
// until it returns false, then check Err; call Close to abandon the
// sequence early and release the file handle.
type FrameSeq struct {
	ch   chan schema.TelemetryFrame
	stop chan struct{}

	mu   sync.Mutex
	err  error
	once sync.Once
}

// Next returns the next frame. ok is false once the sequence is exhausted,
// failed, or closed.
func (s *FrameSeq) Next() (frame schema.TelemetryFrame, ok bool) {
	frame, ok = <-s.ch
	return frame, ok
}

// Err reports the terminal I/O error, if any. Only meaningful after Next
// has returned false. Parse-level problems never surface here.
func (s *FrameSeq) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close abandons the sequence. The producer notices promptly and releases
// the file handle; Close is idempotent and safe to call concurrently with
// Next.
func (s *FrameSeq) Close() error {
	s.once.Do(func() {
		close(s.stop)
		// Drain so a producer blocked on a full buffer can observe stop.
		go func() {
			for range s.ch {
			}
		}()
	})
	return nil
}

func (s *FrameSeq) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		s.err = err
	}
}
