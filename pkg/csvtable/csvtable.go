// Package csvtable encodes and decodes the flat comma-separated tables the
// ticket store persists to disk.
//
// Writing is strict: every value is wrapped in double quotes and interior
// quotes are doubled. Reading is permissive: each line is tokenized
// field-by-field, missing trailing columns decode to the empty string and no
// line is ever rejected. Newlines inside a value are not supported because a
// raw line break is the record boundary.
package csvtable

import (
	"regexp"
	"strings"
)

// Record maps a column name to its textual value.
type Record map[string]string

// Table is an ordered header plus its rows.
type Table struct {
	Header  []string
	Records []Record
}

var fieldPattern = regexp.MustCompile(`("([^"]|"")*"|[^,]+)`)

// Quote wraps a value in double quotes, doubling interior quotes.
func Quote(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

// Unquote reverses Quote for a single token. Tokens that were never quoted
// are returned unchanged.
func Unquote(token string) string {
	token = strings.TrimPrefix(token, `"`)
	token = strings.TrimSuffix(token, `"`)
	return strings.ReplaceAll(token, `""`, `"`)
}

// EncodeHeader renders the header line without a trailing newline.
func EncodeHeader(header []string) string {
	return strings.Join(header, ",")
}

// EncodeRow renders one record in header order without a trailing newline.
// Columns absent from the record are written as empty quoted values.
func EncodeRow(header []string, record Record) string {
	cols := make([]string, len(header))
	for i, name := range header {
		cols[i] = Quote(record[name])
	}
	return strings.Join(cols, ",")
}

// Encode renders the whole table, one line per record, newline terminated.
func Encode(t Table) string {
	var b strings.Builder
	b.WriteString(EncodeHeader(t.Header))
	b.WriteByte('\n')
	for _, rec := range t.Records {
		b.WriteString(EncodeRow(t.Header, rec))
		b.WriteByte('\n')
	}
	return b.String()
}

// DecodeHeader splits a header line into column names, dropping any quotes.
func DecodeHeader(line string) []string {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return nil
	}
	parts := strings.Split(line, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(strings.ReplaceAll(p, `"`, ""))
	}
	return parts
}

// DecodeRow tokenizes one line against the header. Missing columns become
// empty strings and surplus tokens are ignored.
func DecodeRow(header []string, line string) Record {
	line = strings.TrimRight(line, "\r\n")
	tokens := fieldPattern.FindAllString(line, -1)
	rec := make(Record, len(header))
	for i, name := range header {
		if i < len(tokens) {
			rec[name] = Unquote(tokens[i])
			continue
		}
		rec[name] = ""
	}
	return rec
}

// Decode parses text produced by Encode (or anything close to it). Blank
// lines carry no record and are skipped. Empty input yields an empty table.
func Decode(text string) Table {
	text = strings.TrimRight(text, "\r\n")
	if strings.TrimSpace(text) == "" {
		return Table{}
	}
	lines := strings.Split(text, "\n")
	t := Table{Header: DecodeHeader(lines[0])}
	for _, line := range lines[1:] {
		if strings.TrimSpace(strings.TrimSuffix(line, "\r")) == "" {
			continue
		}
		t.Records = append(t.Records, DecodeRow(t.Header, line))
	}
	return t
}
