package parse

import (
	"testing"
	"time"
)

func TestNumber(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *float64
	}{
		{"empty", "", nil},
		{"dash placeholder", "-", nil},
		{"NA upper", "NA", nil},
		{"na lower", "na", nil},
		{"plain integer", "42", f(42)},
		{"decimal", "12.5", f(12.5)},
		{"thousands separator", "1,234", f(1234)},
		{"unit suffix", "12.5kph", f(12.5)},
		{"leading plus", "+3.5", f(3.5)},
		{"negative", "-7.25", f(-7.25)},
		{"surrounding whitespace", "  98.6  ", f(98.6)},
		{"letters only", "abc", nil},
		{"sign only", "+", nil},
		{"multiple dots", "1.2.3", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Number(tt.input)
			if !eqF(got, tt.want) {
				t.Errorf("Number(%q) = %v, want %v", tt.input, deref(got), deref(tt.want))
			}
		})
	}
}

func TestDurationMs(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *int64
	}{
		{"empty", "", nil},
		{"dash placeholder", "-", nil},
		{"lap gap marker", "1 LAP", nil},
		{"laps gap marker lowercase", "2 laps", nil},
		{"seconds only", "83.456", i(83456)},
		{"minutes and seconds", "1:23.456", i(83456)},
		{"apostrophe minute separator", "1'23.456", i(83456)},
		{"leading plus gap", "+0.250", i(250)},
		{"hours minutes seconds", "1:02:03", i(3723000)},
		{"zero", "0", i(0)},
		{"bad segment", "1:xx.456", nil},
		{"empty segment", "1:", nil},
		{"garbage", "n/a", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DurationMs(tt.input)
			if !eqI(got, tt.want) {
				t.Errorf("DurationMs(%q) = %v, want %v", tt.input, deref(got), deref(tt.want))
			}
		})
	}
}

func TestTimestampSeconds(t *testing.T) {
	iso := time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC)

	tests := []struct {
		name  string
		input string
		want  *int64
	}{
		{"empty", "", nil},
		{"epoch seconds digits", "1700000000", i(1700000000)},
		{"rfc3339", "2023-11-14T22:13:20Z", i(iso.Unix())},
		{"date time no zone", "2023-11-14 22:13:20", i(iso.Unix())},
		{"date only", "2023-11-14", i(time.Date(2023, 11, 14, 0, 0, 0, 0, time.UTC).Unix())},
		{"sub-second rounds", "2023-11-14T22:13:20.600Z", i(iso.Unix() + 1)},
		{"not a date", "not-a-date", nil},
		{"digits with overflow", "99999999999999999999", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TimestampSeconds(tt.input)
			if !eqI(got, tt.want) {
				t.Errorf("TimestampSeconds(%q) = %v, want %v", tt.input, deref(got), deref(tt.want))
			}
		})
	}
}

// TestParsersNeverPanic runs every parser across hostile inputs; totality is
// part of the contract.
func TestParsersNeverPanic(t *testing.T) {
	inputs := []string{
		"", " ", "-", "--", "+", ":", "'", "1:2:3:4:5", "\x00\xff",
		"NaN", "Inf", "-Inf", "1e309", "لا", "ليس رقما", "🏁", "..", "+-+-",
	}
	for _, in := range inputs {
		Number(in)
		DurationMs(in)
		TimestampSeconds(in)
	}
}

func f(v float64) *float64 { return &v }
func i(v int64) *int64     { return &v }

func eqF(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func eqI(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func deref(v any) any {
	switch p := v.(type) {
	case *float64:
		if p == nil {
			return nil
		}
		return *p
	case *int64:
		if p == nil {
			return nil
		}
		return *p
	}
	return v
}
