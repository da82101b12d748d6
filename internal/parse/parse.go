// Package parse converts raw string cells from session exports into typed
// values. All three parsers are pure and total: malformed input resolves to
// nil, never to an error or a panic. Nullability is load-bearing for the
// row mappers: a record with a nil field is still a record.
package parse

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// timestampLayouts are tried in order when a timestamp cell is not a plain
// epoch-seconds integer. Ordered from most to least specific, the same way
// exporters are seen to write them.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006 15:04:05",
}

// Number parses a numeric cell. Empty cells and the "-" / "NA" placeholder
// markers resolve to nil. Unit suffixes and thousands separators are
// tolerated by stripping every character outside [0-9.+-] before parsing:
// "1,234" parses as 1234 and "12.5kph" as 12.5.
func Number(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" || strings.EqualFold(s, "na") {
		return nil
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '+', r == '-':
			b.WriteRune(r)
		}
	}

	f, err := strconv.ParseFloat(b.String(), 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return nil
	}
	return &f
}

// DurationMs parses a lap/sector/gap time into integer milliseconds.
//
// Accepted forms are colon-separated positional segments with seconds
// rightmost: "83.456", "1:23.456", "1'23.456" (apostrophe as minute
// separator), "1:02:03" and "+0.250" (leading plus on gap columns).
// Empty cells, "-", and lap-count gap markers such as "1 LAP" resolve
// to nil, as does any segment that is not a number.
func DurationMs(s string) *int64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" || strings.Contains(strings.ToLower(s), "lap") {
		return nil
	}

	s = strings.ReplaceAll(s, "'", ":")
	s = strings.TrimPrefix(s, "+")

	segments := strings.Split(s, ":")
	var seconds float64
	for _, seg := range segments {
		v, err := strconv.ParseFloat(strings.TrimSpace(seg), 64)
		if err != nil {
			return nil
		}
		seconds = seconds*60 + v
	}

	ms := int64(math.Round(seconds * 1000))
	return &ms
}

// TimestampSeconds parses a timestamp cell into epoch seconds. A cell that
// is entirely digits is taken directly as an epoch-seconds count; anything
// else is tried against the calendar layouts above and converted to epoch
// seconds, rounded to the nearest second. Empty or unrecognized input
// resolves to nil.
func TimestampSeconds(s string) *int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	if isAllDigits(s) {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil
		}
		return &v
	}

	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		sec := int64(math.Round(float64(t.UnixMilli()) / 1000))
		return &sec
	}
	return nil
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
