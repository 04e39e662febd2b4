// Focomapa - Wildfire Hotspot Monitoring and Map Visualization
// Copyright 2026 Rafael T. (rafaeltp)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/focomapa/focomapa

// Package delimited parses delimiter-separated text payloads into
// header-keyed records. INPE's fire detection CSVs use ";" as the
// delimiter; the parser takes the first line as the header and drops
// rows whose field count does not match it.
package delimited

import (
	"errors"
	"strings"

	"github.com/focomapa/focomapa/internal/metrics"
)

// DefaultDelimiter is the field separator used by INPE CSV payloads.
const DefaultDelimiter = ";"

// ErrEmptyPayload is returned when the input text contains no lines at all.
var ErrEmptyPayload = errors.New("empty payload: no data to parse")

// Record maps header field names to the row's string values.
// Values are never coerced; numeric interpretation is the caller's concern.
type Record map[string]string

// Table is the result of parsing a delimited payload.
type Table struct {
	// Fields holds the header line's field names in order.
	Fields []string
	// Records holds one entry per well-formed data row.
	Records []Record
	// Dropped counts data rows discarded for field-count mismatch.
	Dropped int
}

// Parse splits text into lines on "\n", takes the first line as the
// header, and converts every remaining non-empty line into a Record.
// Rows whose field count differs from the header's are dropped and
// counted in Table.Dropped. An input with no lines yields ErrEmptyPayload.
//
// An empty delimiter falls back to DefaultDelimiter.
func Parse(text, delimiter string) (*Table, error) {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}

	lines := splitLines(text)
	if len(lines) == 0 {
		return nil, ErrEmptyPayload
	}

	fields := strings.Split(lines[0], delimiter)

	table := &Table{
		Fields:  fields,
		Records: make([]Record, 0, len(lines)-1),
	}

	for _, line := range lines[1:] {
		values := strings.Split(line, delimiter)
		if len(values) != len(fields) {
			table.Dropped++
			continue
		}

		record := make(Record, len(fields))
		for i, name := range fields {
			record[name] = values[i]
		}
		table.Records = append(table.Records, record)
	}

	metrics.RecordParsedRows(len(table.Records), table.Dropped)

	return table, nil
}

// Marshal renders the table back into delimited text: the header line
// followed by one line per record, fields in header order, each line
// terminated with "\n".
func (t *Table) Marshal(delimiter string) string {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}

	var b strings.Builder
	b.WriteString(strings.Join(t.Fields, delimiter))
	b.WriteString("\n")

	values := make([]string, len(t.Fields))
	for _, record := range t.Records {
		for i, name := range t.Fields {
			values[i] = record[name]
		}
		b.WriteString(strings.Join(values, delimiter))
		b.WriteString("\n")
	}

	return b.String()
}

// splitLines splits on "\n", trims "\r" line endings, and discards
// blank lines. Returns nil for input with no content.
func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return nil
	}
	return lines
}
