package schema

import (
	"github.com/openpaddock/racefeed/internal/csv"
	"github.com/openpaddock/racefeed/internal/parse"
)

// Column-name fallback chains. Source files disagree on naming, so each
// logical field resolves through an ordered candidate list: the first key
// present with a non-empty cell wins. New synonyms are added here, not in
// the mappers.
var (
	carNumberKeys = []string{"VEHICLE_NUMBER", "NUMBER", "CAR"}
	driverKeys    = []string{"DRIVER_NAME", "DRIVER", "NAME"}
	teamKeys      = []string{"TEAM", "TEAM_NAME", "ENTRANT"}
	classKeys     = []string{"CLASS", "CATEGORY", "GROUP"}
	statusKeys    = []string{"STATUS", "CLASSIFIED", "RESULT"}
	positionKeys  = []string{"POSITION", "POS", "RANK"}
	lapsKeys      = []string{"LAPS", "LAP_COUNT", "TOTAL_LAPS"}
	totalTimeKeys = []string{"TOTAL_TIME", "TIME", "RACE_TIME"}
	gapFirstKeys  = []string{"GAP_FIRST", "GAP", "DIFF"}
	bestLapKeys   = []string{"BEST_LAP_TIME", "BEST_LAP", "FASTEST_LAP"}
	lapNumberKeys = []string{"LAP_NUMBER", "LAP"}
	lapTimeKeys   = []string{"LAP_TIME", "TIME"}
	crossingKeys  = []string{"HOUR", "TIME_OF_DAY", "CROSSING_TIME"}
	avgSpeedKeys  = []string{"AVG_SPEED", "AVERAGE_SPEED", "KPH"}
	timestampKeys = []string{"TIME_UTC_SECONDS", "TIME_UTC", "TIMESTAMP"}

	latKeys      = []string{"LAT", "LATITUDE"}
	lonKeys      = []string{"LON", "LONG", "LONGITUDE"}
	speedKeys    = []string{"SPEED_KPH", "SPEED"}
	rpmKeys      = []string{"RPM", "ENGINE_RPM"}
	gearKeys     = []string{"GEAR"}
	throttleKeys = []string{"THROTTLE", "THROTTLE_PCT"}
	brakeKeys    = []string{"BRAKE", "BRAKE_PCT"}
	elapsedKeys  = []string{"ELAPSED_TIME", "ELAPSED", "SESSION_TIME"}
)

// lapSegments names the three fixed segments and the candidate column pair
// carrying each segment's elapsed time.
var lapSegments = []struct {
	id   string
	keys []string
}{
	{"S1", []string{"S1", "SECTOR_1"}},
	{"S2", []string{"S2", "SECTOR_2"}},
	{"S3", []string{"S3", "SECTOR_3"}},
}

// firstCell resolves an ordered fallback chain against one row: the first
// candidate key that is present and non-empty wins, otherwise "".
func firstCell(row []string, hm csv.HeaderMap, keys []string) string {
	for _, k := range keys {
		if v := csv.Cell(row, hm, k); v != "" {
			return v
		}
	}
	return ""
}

func numberOf(row []string, hm csv.HeaderMap, keys []string) *float64 {
	return parse.Number(firstCell(row, hm, keys))
}

func durationOf(row []string, hm csv.HeaderMap, keys []string) *int64 {
	return parse.DurationMs(firstCell(row, hm, keys))
}

func timestampOf(row []string, hm csv.HeaderMap, keys []string) *int64 {
	return parse.TimestampSeconds(firstCell(row, hm, keys))
}

// MapResults maps a finishing-results table. rows[0] is the header.
func MapResults(rows [][]string, session string) []ResultRow {
	if len(rows) < 2 {
		return nil
	}
	hm := csv.BuildHeaderMap(rows[0])
	out := make([]ResultRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		out = append(out, ResultRow{
			Session:     session,
			Position:    numberOf(row, hm, positionKeys),
			CarNumber:   firstCell(row, hm, carNumberKeys),
			Driver:      firstCell(row, hm, driverKeys),
			Team:        firstCell(row, hm, teamKeys),
			Class:       firstCell(row, hm, classKeys),
			Status:      firstCell(row, hm, statusKeys),
			Laps:        numberOf(row, hm, lapsKeys),
			TotalTimeMs: durationOf(row, hm, totalTimeKeys),
			GapFirstMs:  durationOf(row, hm, gapFirstKeys),
			BestLapMs:   durationOf(row, hm, bestLapKeys),
		})
	}
	return out
}

// MapClassResults maps a per-class classification table.
func MapClassResults(rows [][]string, session string) []ClassResultRow {
	if len(rows) < 2 {
		return nil
	}
	hm := csv.BuildHeaderMap(rows[0])
	out := make([]ClassResultRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		out = append(out, ClassResultRow{
			Session:     session,
			Class:       firstCell(row, hm, classKeys),
			Position:    numberOf(row, hm, positionKeys),
			CarNumber:   firstCell(row, hm, carNumberKeys),
			Driver:      firstCell(row, hm, driverKeys),
			Laps:        numberOf(row, hm, lapsKeys),
			TotalTimeMs: durationOf(row, hm, totalTimeKeys),
		})
	}
	return out
}

// MapWeather maps the weather station export.
func MapWeather(rows [][]string, session string) []WeatherSample {
	if len(rows) < 2 {
		return nil
	}
	hm := csv.BuildHeaderMap(rows[0])
	out := make([]WeatherSample, 0, len(rows)-1)
	for _, row := range rows[1:] {
		out = append(out, WeatherSample{
			Session:       session,
			TimestampSec:  timestampOf(row, hm, timestampKeys),
			AirTempC:      numberOf(row, hm, []string{"AIR_TEMP", "AMBIENT_TEMP"}),
			TrackTempC:    numberOf(row, hm, []string{"TRACK_TEMP", "ROAD_TEMP"}),
			Humidity:      numberOf(row, hm, []string{"HUMIDITY"}),
			PressureMbar:  numberOf(row, hm, []string{"PRESSURE"}),
			WindSpeedKph:  numberOf(row, hm, []string{"WIND_SPEED"}),
			WindDirection: numberOf(row, hm, []string{"WIND_DIRECTION", "WIND_DIR"}),
			Rain:          numberOf(row, hm, []string{"RAIN"}),
		})
	}
	return out
}

// MapLapSegments maps a sector-split table. Each data row expands into
// exactly three records, one per fixed segment S1/S2/S3.
func MapLapSegments(rows [][]string, session string) []LapSegmentRow {
	if len(rows) < 2 {
		return nil
	}
	hm := csv.BuildHeaderMap(rows[0])
	out := make([]LapSegmentRow, 0, (len(rows)-1)*len(lapSegments))
	for _, row := range rows[1:] {
		car := firstCell(row, hm, carNumberKeys)
		lap := numberOf(row, hm, lapNumberKeys)
		for _, seg := range lapSegments {
			out = append(out, LapSegmentRow{
				Session:   session,
				CarNumber: car,
				LapNumber: lap,
				Segment:   seg.id,
				ElapsedMs: durationOf(row, hm, seg.keys),
			})
		}
	}
	return out
}

// MapLapTimings maps a lap chart.
func MapLapTimings(rows [][]string, session string) []LapTimingRow {
	if len(rows) < 2 {
		return nil
	}
	hm := csv.BuildHeaderMap(rows[0])
	out := make([]LapTimingRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		out = append(out, LapTimingRow{
			Session:     session,
			CarNumber:   firstCell(row, hm, carNumberKeys),
			Driver:      firstCell(row, hm, driverKeys),
			LapNumber:   numberOf(row, hm, lapNumberKeys),
			LapTimeMs:   durationOf(row, hm, lapTimeKeys),
			Sector1Ms:   durationOf(row, hm, []string{"S1", "SECTOR_1"}),
			Sector2Ms:   durationOf(row, hm, []string{"S2", "SECTOR_2"}),
			Sector3Ms:   durationOf(row, hm, []string{"S3", "SECTOR_3"}),
			CrossingSec: timestampOf(row, hm, crossingKeys),
		})
	}
	return out
}

// MapBestLaps maps the best-laps table.
func MapBestLaps(rows [][]string, session string) []BestLapRow {
	if len(rows) < 2 {
		return nil
	}
	hm := csv.BuildHeaderMap(rows[0])
	out := make([]BestLapRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		out = append(out, BestLapRow{
			Session:     session,
			CarNumber:   firstCell(row, hm, carNumberKeys),
			Driver:      firstCell(row, hm, driverKeys),
			Class:       firstCell(row, hm, classKeys),
			BestLapMs:   durationOf(row, hm, bestLapKeys),
			LapNumber:   numberOf(row, hm, lapNumberKeys),
			AvgSpeedKph: numberOf(row, hm, avgSpeedKeys),
		})
	}
	return out
}

// MapTelemetryRow maps one already-tokenized telemetry row. It returns
// ok=false when latitude or longitude fails to parse; a frame without a
// position is meaningless to every consumer, so such rows are dropped
// rather than emitted with nil fields. Any other malformed cell is kept
// as nil.
func MapTelemetryRow(row []string, hm csv.HeaderMap, session string) (TelemetryFrame, bool) {
	lat := numberOf(row, hm, latKeys)
	lon := numberOf(row, hm, lonKeys)
	if lat == nil || lon == nil {
		return TelemetryFrame{}, false
	}
	return TelemetryFrame{
		Session:      session,
		CarNumber:    firstCell(row, hm, carNumberKeys),
		TimestampSec: timestampOf(row, hm, timestampKeys),
		Lat:          *lat,
		Lon:          *lon,
		SpeedKph:     numberOf(row, hm, speedKeys),
		RPM:          numberOf(row, hm, rpmKeys),
		Gear:         numberOf(row, hm, gearKeys),
		Throttle:     numberOf(row, hm, throttleKeys),
		Brake:        numberOf(row, hm, brakeKeys),
		ElapsedMs:    durationOf(row, hm, elapsedKeys),
	}, true
}
