package stream

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openpaddock/racefeed/internal/catalog"
	"github.com/openpaddock/racefeed/internal/schema"
)

const telemetryHeader = "VEHICLE_NUMBER,TIME_UTC_SECONDS,LAT,LON,SPEED_KPH,RPM,GEAR\n"

// writeTelemetry writes the race telemetry fixture with n well-formed rows.
func writeTelemetry(t *testing.T, root string, rows []string) {
	t.Helper()
	path := filepath.Join(root, "race", "telemetry.csv")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	content := telemetryHeader + strings.Join(rows, "")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func telemetryRows(n int) []string {
	rows := make([]string, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, fmt.Sprintf("44,%d,52.%04d,-1.%04d,%d,11500,6\n", 1700000000+i, i, i, 200+i))
	}
	return rows
}

// collect drains a sequence into a slice.
func collect(t *testing.T, seq *FrameSeq) []schema.TelemetryFrame {
	t.Helper()
	var out []schema.TelemetryFrame
	for {
		frame, ok := seq.Next()
		if !ok {
			return out
		}
		out = append(out, frame)
	}
}

func TestFramesFileOrder(t *testing.T) {
	root := t.TempDir()
	writeTelemetry(t, root, telemetryRows(10))

	r := NewReader(root)
	seq := r.Frames(context.Background(), catalog.SessionRace, 0)
	defer seq.Close()

	frames := collect(t, seq)
	require.NoError(t, seq.Err())
	require.Len(t, frames, 10)
	for i, frame := range frames {
		require.NotNil(t, frame.TimestampSec)
		assert.Equal(t, int64(1700000000+i), *frame.TimestampSec, "frames arrive in file order")
	}
}

func TestFramesLimit(t *testing.T) {
	root := t.TempDir()
	writeTelemetry(t, root, telemetryRows(100))

	r := NewReader(root)
	seq := r.Frames(context.Background(), catalog.SessionRace, 5)
	defer seq.Close()

	frames := collect(t, seq)
	require.NoError(t, seq.Err())
	assert.Len(t, frames, 5, "limit stops emission, rest of file unread")
}

func TestFramesDropRule(t *testing.T) {
	root := t.TempDir()
	writeTelemetry(t, root, []string{
		"44,1700000000,52.07,-1.01,287.4,11500,6\n",
		"44,1700000001,,-1.01,287.4,11500,6\n",      // no latitude: dropped
		"44,1700000002,52.07,west,287.4,11500,6\n",  // bad longitude: dropped
		"44,1700000003,52.07,-1.01,fast,11500,6\n",  // bad speed: kept, nil field
		"44,1700000004,52.07,-1.01,288.0,11500,6\n",
	})

	r := NewReader(root)
	seq := r.Frames(context.Background(), catalog.SessionRace, 0)
	defer seq.Close()

	frames := collect(t, seq)
	require.NoError(t, seq.Err())
	require.Len(t, frames, 3, "unpositioned rows dropped, others kept")

	assert.Nil(t, frames[1].SpeedKph, "malformed non-position field is nil, row kept")
	require.NotNil(t, frames[1].TimestampSec)
	assert.Equal(t, int64(1700000003), *frames[1].TimestampSec)
}

func TestFramesSemicolonDelimiter(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "race", "telemetry.csv")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	content := "NUMBER;TIME_UTC_SECONDS;LAT;LON;SPEED_KPH\n" +
		"44;1700000000;52.07;-1.01;287.4\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	r := NewReader(root)
	seq := r.Frames(context.Background(), catalog.SessionRace, 0)
	defer seq.Close()

	frames := collect(t, seq)
	require.Len(t, frames, 1)
	assert.Equal(t, "44", frames[0].CarNumber, "delimiter re-detected from header")
}

func TestFramesMissingFile(t *testing.T) {
	r := NewReader(t.TempDir())
	seq := r.Frames(context.Background(), catalog.SessionRace, 0)
	defer seq.Close()

	frames := collect(t, seq)
	assert.Empty(t, frames)
	assert.NoError(t, seq.Err(), "missing file is not a stream error")
}

func TestFramesEarlyClose(t *testing.T) {
	root := t.TempDir()
	// Far more rows than the buffer holds, so the producer must block
	writeTelemetry(t, root, telemetryRows(10000))

	r := NewReader(root, WithBuffer(4))
	seq := r.Frames(context.Background(), catalog.SessionRace, 0)

	// Consume a few frames, then abandon the stream
	for i := 0; i < 3; i++ {
		_, ok := seq.Next()
		require.True(t, ok)
	}
	require.NoError(t, seq.Close())

	// The producer drains and shuts down; the channel closes promptly
	deadline := time.After(2 * time.Second)
	for {
		select {
		case <-deadline:
			t.Fatal("sequence did not terminate after Close")
		default:
		}
		if _, ok := seq.Next(); !ok {
			return
		}
	}
}

func TestFramesContextCancellation(t *testing.T) {
	root := t.TempDir()
	writeTelemetry(t, root, telemetryRows(10000))

	ctx, cancel := context.WithCancel(context.Background())
	r := NewReader(root, WithBuffer(4))
	seq := r.Frames(ctx, catalog.SessionRace, 0)
	defer seq.Close()

	_, ok := seq.Next()
	require.True(t, ok)
	cancel()

	// Remaining buffered frames may still arrive; the sequence then ends
	for {
		if _, ok := seq.Next(); !ok {
			break
		}
	}
	assert.ErrorIs(t, seq.Err(), context.Canceled)
}
