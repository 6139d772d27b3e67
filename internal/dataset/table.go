// Package dataset resolves personalization records from a small CSV file
// keyed by an integer identifier.
//
// The first row is a header when it names the "stt", "ten" and "code"
// columns (any case); "mess" is optional. Without a header the columns are
// read positionally as id, name, code, message.
package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jask/greetcard/internal/card"
)

var (
	// ErrNoRows means the dataset has fewer than two non-empty rows.
	ErrNoRows = errors.New("dataset has no rows")
	// ErrNotFound means no row matches the identifier.
	ErrNotFound = errors.New("no matching row")
)

// Column names recognised in a header row.
const (
	colID      = "stt"
	colName    = "ten"
	colCode    = "code"
	colMessage = "mess"
)

type columns struct {
	id, name, code, message int
}

var positional = columns{id: 0, name: 1, code: 2, message: 3}

// Table is a parsed dataset.
type Table struct {
	rows      [][]string
	cols      columns
	hasHeader bool
}

// Parse reads a dataset. Quoted fields may contain commas; blank rows are
// dropped.
func Parse(r io.Reader) (*Table, error) {
	csvr := csv.NewReader(bufio.NewReader(r))
	csvr.FieldsPerRecord = -1
	csvr.LazyQuotes = true
	csvr.TrimLeadingSpace = true

	var rows [][]string
	for {
		rec, err := csvr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Quoted fields may span lines, so the offset is the stable position.
			return nil, fmt.Errorf("read dataset at byte %d: %w", csvr.InputOffset(), err)
		}
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}
		if blank(rec) {
			continue
		}
		rows = append(rows, rec)
	}
	if len(rows) <= 1 {
		return nil, ErrNoRows
	}

	t := &Table{rows: rows, cols: positional}
	if cols, ok := detectHeader(rows[0]); ok {
		t.cols = cols
		t.hasHeader = true
		t.rows = rows[1:]
	}
	return t, nil
}

// HasHeader reports whether the first row was a header.
func (t *Table) HasHeader() bool { return t.hasHeader }

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.rows) }

// Lookup returns the record of the first row whose identifier equals id.
// Both sides are compared as integers; non-numeric values never match.
func (t *Table) Lookup(id string) (card.Record, bool) {
	want, ok := parseLeadingInt(id)
	if !ok {
		return card.Record{}, false
	}
	for _, row := range t.rows {
		if len(row) < 2 {
			continue
		}
		got, ok := parseLeadingInt(field(row, t.cols.id))
		if !ok || got != want {
			continue
		}
		return card.NewRecord(field(row, t.cols.name), field(row, t.cols.code), field(row, t.cols.message)), true
	}
	return card.Record{}, false
}

func detectHeader(row []string) (columns, bool) {
	cols := columns{id: -1, name: -1, code: -1, message: -1}
	for i, h := range row {
		switch strings.ToLower(h) {
		case colID:
			cols.id = setOnce(cols.id, i)
		case colName:
			cols.name = setOnce(cols.name, i)
		case colCode:
			cols.code = setOnce(cols.code, i)
		case colMessage:
			cols.message = setOnce(cols.message, i)
		}
	}
	if cols.id < 0 || cols.name < 0 || cols.code < 0 {
		return columns{}, false
	}
	return cols, true
}

// setOnce keeps the first occurrence of a repeated header name.
func setOnce(cur, i int) int {
	if cur >= 0 {
		return cur
	}
	return i
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func blank(rec []string) bool {
	for _, f := range rec {
		if f != "" {
			return false
		}
	}
	return true
}

// parseLeadingInt reads an optionally signed run of leading digits, so
// "12abc" is 12 and "abc" is not a number.
func parseLeadingInt(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
