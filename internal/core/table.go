package core

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// ErrEmptyTable is returned when an upload contains no header or no data rows.
var ErrEmptyTable = errors.New("empty file: no data rows found")

// Table is a parsed CSV snapshot: a header row and the data rows beneath it.
// Rows always have exactly len(Header) cells, so stages downstream can index
// columns without bounds checks. Pipeline stages treat tables as read-only
// and return new ones.
type Table struct {
	Header []string
	Rows   [][]string
}

// ParseTable reads CSV bytes into a Table.
//
// Spreadsheet exports are messy, so parsing is forgiving: invalid UTF-8 is
// replaced, fully empty records are skipped, header cells are cleaned of
// export artifacts, and ragged rows are padded or truncated to the header
// width. The first non-empty record becomes the header.
func ParseTable(data []byte) (*Table, error) {
	data = sanitizeUTF8(data)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid csv: %w", err)
	}

	var header []string
	var rows [][]string
	for _, record := range records {
		if isEmptyRow(record) {
			continue
		}
		if header == nil {
			header = make([]string, len(record))
			for i, cell := range record {
				header[i] = CleanCell(cell)
			}
			continue
		}
		rows = append(rows, normalizeRow(record, len(header)))
	}

	if len(header) == 0 || len(rows) == 0 {
		return nil, ErrEmptyTable
	}
	return &Table{Header: header, Rows: rows}, nil
}

// normalizeRow pads or truncates a record to the header width.
func normalizeRow(record []string, width int) []string {
	row := make([]string, width)
	for i := 0; i < width && i < len(record); i++ {
		row[i] = record[i]
	}
	return row
}

// ColumnIndex returns the position of the named column in the header.
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, h := range t.Header {
		if h == name {
			return i, true
		}
	}
	return 0, false
}

// Head returns a deep copy of the table limited to the first n rows.
func (t *Table) Head(n int) *Table {
	if n < 0 {
		n = 0
	}
	if n > len(t.Rows) {
		n = len(t.Rows)
	}

	head := &Table{
		Header: append([]string(nil), t.Header...),
		Rows:   make([][]string, n),
	}
	for i := 0; i < n; i++ {
		head.Rows[i] = append([]string(nil), t.Rows[i]...)
	}
	return head
}

// WriteCSV writes the table as RFC 4180 CSV, header first.
func (t *Table) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Header); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// CSV returns the table serialized as CSV bytes.
func (t *Table) CSV() []byte {
	var buf bytes.Buffer
	// Writing to a bytes.Buffer cannot fail.
	_ = t.WriteCSV(&buf)
	return buf.Bytes()
}

// CleanCell strips common spreadsheet-export artifacts from a cell value:
// surrounding whitespace, Excel formula wrappers like ="...", and stray
// surrounding quotes.
func CleanCell(value string) string {
	value = strings.TrimSpace(value)

	if len(value) >= 3 && strings.HasPrefix(value, `="`) && strings.HasSuffix(value, `"`) {
		value = value[2 : len(value)-1]
	} else if strings.HasPrefix(value, "=") {
		value = value[1:]
	}

	value = strings.Trim(value, `"'`)
	return strings.TrimSpace(value)
}

// sanitizeUTF8 replaces invalid UTF-8 sequences so the csv reader never
// chokes on exports from legacy encodings.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('�')
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}

	return buf.Bytes()
}

// isEmptyRow reports whether every cell in a record is blank.
func isEmptyRow(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
