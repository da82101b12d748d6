// Package schema defines the typed records produced from session exports
// and the row mappers that translate raw tokenized rows into them.
//
// Every numeric, duration, or timestamp field is a pointer: nil means the
// source cell was missing or unparseable. Mappers never drop a record over
// a bad cell. The one exception is the telemetry frame, which is useless
// without a position and is dropped when latitude or longitude fails to
// parse.
package schema

// ResultRow is one line of a session's finishing classification.
type ResultRow struct {
	Session     string   `json:"session"`
	Position    *float64 `json:"position"`
	CarNumber   string   `json:"carNumber"`
	Driver      string   `json:"driver"`
	Team        string   `json:"team"`
	Class       string   `json:"class"`
	Status      string   `json:"status"`
	Laps        *float64 `json:"laps"`
	TotalTimeMs *int64   `json:"totalTimeMs"`
	GapFirstMs  *int64   `json:"gapFirstMs"`
	BestLapMs   *int64   `json:"bestLapMs"`
}

// ClassResultRow is one line of a per-class classification table.
type ClassResultRow struct {
	Session     string   `json:"session"`
	Class       string   `json:"class"`
	Position    *float64 `json:"position"`
	CarNumber   string   `json:"carNumber"`
	Driver      string   `json:"driver"`
	Laps        *float64 `json:"laps"`
	TotalTimeMs *int64   `json:"totalTimeMs"`
}

// WeatherSample is one row of the weather station export.
type WeatherSample struct {
	Session       string   `json:"session"`
	TimestampSec  *int64   `json:"timestampSec"`
	AirTempC      *float64 `json:"airTempC"`
	TrackTempC    *float64 `json:"trackTempC"`
	Humidity      *float64 `json:"humidity"`
	PressureMbar  *float64 `json:"pressureMbar"`
	WindSpeedKph  *float64 `json:"windSpeedKph"`
	WindDirection *float64 `json:"windDirection"`
	Rain          *float64 `json:"rain"`
}

// LapSegmentRow is one sector of one lap. Each source row expands into
// three of these, one per segment S1/S2/S3.
type LapSegmentRow struct {
	Session   string   `json:"session"`
	CarNumber string   `json:"carNumber"`
	LapNumber *float64 `json:"lapNumber"`
	Segment   string   `json:"segment"`
	ElapsedMs *int64   `json:"elapsedMs"`
}

// LapTimingRow is one completed lap from the lap chart.
type LapTimingRow struct {
	Session     string   `json:"session"`
	CarNumber   string   `json:"carNumber"`
	Driver      string   `json:"driver"`
	LapNumber   *float64 `json:"lapNumber"`
	LapTimeMs   *int64   `json:"lapTimeMs"`
	Sector1Ms   *int64   `json:"sector1Ms"`
	Sector2Ms   *int64   `json:"sector2Ms"`
	Sector3Ms   *int64   `json:"sector3Ms"`
	CrossingSec *int64   `json:"crossingSec"`
}

// BestLapRow is one line of the best-laps table.
type BestLapRow struct {
	Session     string   `json:"session"`
	CarNumber   string   `json:"carNumber"`
	Driver      string   `json:"driver"`
	Class       string   `json:"class"`
	BestLapMs   *int64   `json:"bestLapMs"`
	LapNumber   *float64 `json:"lapNumber"`
	AvgSpeedKph *float64 `json:"avgSpeedKph"`
}

// TelemetryFrame is one high-frequency vehicle sample. Lat and Lon are
// non-pointer: a frame only exists if both parsed.
type TelemetryFrame struct {
	Session      string   `json:"session"`
	CarNumber    string   `json:"carNumber"`
	TimestampSec *int64   `json:"timestampSec"`
	Lat          float64  `json:"lat"`
	Lon          float64  `json:"lon"`
	SpeedKph     *float64 `json:"speedKph"`
	RPM          *float64 `json:"rpm"`
	Gear         *float64 `json:"gear"`
	Throttle     *float64 `json:"throttle"`
	Brake        *float64 `json:"brake"`
	ElapsedMs    *int64   `json:"elapsedMs"`
}

// SessionSchema aggregates every bulk dataset of one session. TelemetryFrames
// stays empty here; telemetry is only ever served by the streaming reader.
type SessionSchema struct {
	Session         string           `json:"session"`
	ResultRows      []ResultRow      `json:"resultRows"`
	ClassResultRows []ClassResultRow `json:"classResultRows"`
	WeatherSamples  []WeatherSample  `json:"weatherSamples"`
	LapSegmentRows  []LapSegmentRow  `json:"lapSegmentRows"`
	LapTimingRows   []LapTimingRow   `json:"lapTimingRows"`
	BestLapRows     []BestLapRow     `json:"bestLapRows"`
	TelemetryFrames []TelemetryFrame `json:"telemetryFrames"`
}

// NewSessionSchema returns an empty schema with non-nil collections so
// consumers and JSON encoding see arrays, not nulls.
func NewSessionSchema(session string) *SessionSchema {
	return &SessionSchema{
		Session:         session,
		ResultRows:      []ResultRow{},
		ClassResultRows: []ClassResultRow{},
		WeatherSamples:  []WeatherSample{},
		LapSegmentRows:  []LapSegmentRow{},
		LapTimingRows:   []LapTimingRow{},
		BestLapRows:     []BestLapRow{},
		TelemetryFrames: []TelemetryFrame{},
	}
}
