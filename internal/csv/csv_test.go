package csv

import (
	"reflect"
	"testing"
)

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		name string
		line string
		want rune
	}{
		{"semicolons only", "POS;NUMBER;DRIVER", ';'},
		{"commas only", "POS,NUMBER,DRIVER", ','},
		{"both prefers comma", "POS,NUMBER;DRIVER", ','},
		{"neither defaults to comma", "POSITION", ','},
		{"empty line", "", ','},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectDelimiter(tt.line); got != tt.want {
				t.Errorf("DetectDelimiter(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want [][]string
	}{
		{
			name: "comma separated with trimming",
			text: "POS, NUMBER ,DRIVER\n1, 44 , Hamilton\n",
			want: [][]string{
				{"POS", "NUMBER", "DRIVER"},
				{"1", "44", "Hamilton"},
			},
		},
		{
			name: "semicolon separated",
			text: "POS;NUMBER\n1;44",
			want: [][]string{
				{"POS", "NUMBER"},
				{"1", "44"},
			},
		},
		{
			name: "blank lines dropped",
			text: "A,B\n\n  \n1,2\n\n",
			want: [][]string{
				{"A", "B"},
				{"1", "2"},
			},
		},
		{
			name: "windows line endings",
			text: "A,B\r\n1,2\r\n",
			want: [][]string{
				{"A", "B"},
				{"1", "2"},
			},
		},
		{
			name: "leading BOM stripped",
			text: "\ufeffA,B\n1,2",
			want: [][]string{
				{"A", "B"},
				{"1", "2"},
			},
		},
		{
			name: "short data row preserved",
			text: "A,B,C\n1,2",
			want: [][]string{
				{"A", "B", "C"},
				{"1", "2"},
			},
		},
		{
			name: "empty file",
			text: "",
			want: nil,
		},
		{
			name: "whitespace only",
			text: "  \n \n",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"already canonical", "GAP_FIRST", "GAP_FIRST"},
		{"spaces", "Gap First", "GAP_FIRST"},
		{"dash and punctuation", "gap-first!", "GAP_FIRST"},
		{"mixed separators", "Best  Lap - Time", "BEST_LAP_TIME"},
		{"leading and trailing junk", "  _Speed (kph)_ ", "SPEED_KPH"},
		{"digits kept", "S1", "S1"},
		{"empty", "", ""},
		{"only punctuation", "--!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeHeader(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeHeader(%q) = %q, want %q", tt.input, got, tt.want)
			}
			// Idempotence holds for every input
			if again := NormalizeHeader(got); again != got {
				t.Errorf("NormalizeHeader not idempotent: %q -> %q -> %q", tt.input, got, again)
			}
		})
	}
}

func TestNormalizeHeaderEquivalence(t *testing.T) {
	// Synonym spellings seen across exporters must collide
	variants := []string{"Gap First", "GAP_FIRST", "gap-first!"}
	want := NormalizeHeader(variants[0])
	for _, v := range variants[1:] {
		if got := NormalizeHeader(v); got != want {
			t.Errorf("NormalizeHeader(%q) = %q, want %q", v, got, want)
		}
	}
}

func TestBuildHeaderMap(t *testing.T) {
	hm := BuildHeaderMap([]string{"Pos", "Vehicle Number", "DRIVER_NAME"})

	if got := hm["POS"]; got != 0 {
		t.Errorf("POS index = %d, want 0", got)
	}
	if got := hm["VEHICLE_NUMBER"]; got != 1 {
		t.Errorf("VEHICLE_NUMBER index = %d, want 1", got)
	}

	// Duplicate normalized names: last wins, no panic
	dup := BuildHeaderMap([]string{"Time", "TIME", "time!"})
	if got := dup["TIME"]; got != 2 {
		t.Errorf("duplicate header index = %d, want 2 (last wins)", got)
	}
}

func TestCell(t *testing.T) {
	hm := BuildHeaderMap([]string{"POS", "NUMBER", "DRIVER"})
	row := []string{"1", " 44 "}

	tests := []struct {
		name string
		key  string
		want string
	}{
		{"present", "POS", "1"},
		{"trimmed", "NUMBER", "44"},
		{"un-normalized key", "number", "44"},
		{"index beyond short row", "DRIVER", ""},
		{"unknown key", "TEAM", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Cell(row, hm, tt.key); got != tt.want {
				t.Errorf("Cell(row, hm, %q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}
