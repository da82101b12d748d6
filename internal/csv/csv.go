// Package csv provides delimiter detection, tokenization, and header
// normalization for the delimited session exports this service ingests.
//
// Source files are not standardized: some timing systems export
// semicolon-separated text, others comma-separated, and column names vary
// between exporters ("VEHICLE_NUMBER" vs "NUMBER" vs "CAR"). This package
// reduces a raw file to trimmed string rows and a canonical header lookup;
// it never rejects a file, no matter how malformed.
package csv

import (
	"strings"
	"unicode"
)

// utf8BOM is the byte order mark Windows timing exports frequently prepend.
const utf8BOM = "\ufeff"

// StripBOM removes a leading UTF-8 byte order mark, if present.
func StripBOM(s string) string {
	return strings.TrimPrefix(s, utf8BOM)
}

// DetectDelimiter inspects a single line (normally the header) and returns
// the field delimiter: semicolon if the line contains a semicolon and no
// comma, comma otherwise.
func DetectDelimiter(line string) rune {
	if strings.ContainsRune(line, ';') && !strings.ContainsRune(line, ',') {
		return ';'
	}
	return ','
}

// Tokenize splits raw file text into rows of trimmed cells. The delimiter is
// detected from the first line only. Blank lines are dropped. An empty or
// header-only file yields zero data rows; Tokenize never fails.
//
// Rows are not guaranteed rectangular: a malformed source row may carry
// fewer cells than the header. Downstream lookups go through Cell, which
// tolerates short rows.
func Tokenize(text string) [][]string {
	text = StripBOM(text)
	if strings.TrimSpace(text) == "" {
		return nil
	}

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	var delim rune
	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if len(rows) == 0 {
			delim = DetectDelimiter(line)
		}
		rows = append(rows, SplitLine(line, delim))
	}
	return rows
}

// SplitLine splits one line on delim and trims every cell.
func SplitLine(line string, delim rune) []string {
	parts := strings.Split(line, string(delim))
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// NormalizeHeader canonicalizes a column name so that lookups survive the
// naming drift between exporters: the name is uppercased, every run of
// non-alphanumeric characters (whitespace, underscores, dashes, stray
// punctuation) collapses to a single underscore, and leading/trailing
// separators are dropped.
//
// "Gap First", "GAP_FIRST" and "gap-first!" all normalize to "GAP_FIRST".
// The function is idempotent.
func NormalizeHeader(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	pendingSep := false
	for _, r := range strings.ToUpper(name) {
		if unicode.IsUpper(r) || unicode.IsDigit(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}

// HeaderMap maps a normalized column name to its zero-based column index
// within one file's header row.
type HeaderMap map[string]int

// BuildHeaderMap indexes a header row by normalized column name. Duplicate
// normalized names overwrite earlier ones; last wins.
func BuildHeaderMap(header []string) HeaderMap {
	hm := make(HeaderMap, len(header))
	for i, h := range header {
		hm[NormalizeHeader(h)] = i
	}
	return hm
}

// Cell returns the trimmed cell of row addressed by key (normalized before
// lookup). A missing key or a row too short for the resolved index yields
// the empty string, never a panic.
func Cell(row []string, hm HeaderMap, key string) string {
	idx, ok := hm[NormalizeHeader(key)]
	if !ok || idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
