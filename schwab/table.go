package schwab

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
)

// row is a CSV record indexed by column name.
type row struct {
	line   int
	fields map[string]string
}

// get returns the trimmed value of a column, "" if absent.
func (r row) get(column string) string { return strings.TrimSpace(r.fields[column]) }

// isBlank reports whether all the fields are empty.
func (r row) isBlank() bool {
	for _, v := range r.fields {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// readTable reads a CSV export whose header contains all the required columns.
//
// Lines before the header are skipped: some exports start with a title line.
func readTable(r io.Reader, required ...string) ([]row, error) {
	cr := csv.NewReader(skipBOM(r))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var header []string
	var rows []row
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cannot read CSV: %w", err)
		}
		line, _ := cr.FieldPos(0)

		if header == nil {
			if hasColumns(record, required) {
				header = cleanHeader(record)
			}
			continue
		}

		fields := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(record) {
				fields[name] = record[i]
			}
		}
		rows = append(rows, row{line: line, fields: fields})
	}
	if header == nil {
		return nil, fmt.Errorf("%w: no header with columns %s", ErrUnrecognizedRow, strings.Join(required, ", "))
	}
	return rows, nil
}

// skipBOM drops the UTF-8 byte order mark Schwab exports start with.
func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if c, _, err := br.ReadRune(); err == nil && c != '\ufeff' {
		br.UnreadRune()
	}
	return br
}

func cleanHeader(record []string) []string {
	header := make([]string, len(record))
	for i, name := range record {
		header[i] = strings.TrimSpace(name)
	}
	return header
}

func hasColumns(record, required []string) bool {
	header := cleanHeader(record)
	for _, name := range required {
		if !slices.Contains(header, name) {
			return false
		}
	}
	return true
}
