package records

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrNoHeader is returned when a CSV source has no header line.
	ErrNoHeader = errors.New("records: csv has no header")
	// ErrRowTooWide is returned when a data row has more cells than the header.
	ErrRowTooWide = errors.New("records: csv row wider than header")
)

const utf8BOM = "\ufeff"

// DecodeCSV reads a header line followed by data rows. Short rows are
// padded to the header width; rows wider than the header are rejected so a
// later save cannot drop their extra cells.
func DecodeCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("records: read csv header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	t := NewTable(header...)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("records: read csv row %d: %w", len(t.Rows)+1, err)
		}
		if len(row) == 1 && row[0] == "" {
			continue
		}
		if len(row) > len(header) {
			return nil, fmt.Errorf("records: read csv row %d: %d fields, header has %d: %w",
				len(t.Rows)+1, len(row), len(header), ErrRowTooWide)
		}
		t.Rows = append(t.Rows, row)
	}
	t.Normalize()
	return t, nil
}

// EncodeCSV writes the header and every row, without an index column.
func EncodeCSV(w io.Writer, t *Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Columns); err != nil {
		return fmt.Errorf("records: write csv header: %w", err)
	}
	for i := range t.Rows {
		row := make([]string, len(t.Columns))
		for j, col := range t.Columns {
			row[j] = t.Value(i, col)
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("records: write csv row %d: %w", i+1, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("records: flush csv: %w", err)
	}
	return nil
}

// MarshalCSV renders t into memory so a failed encode never reaches storage.
func MarshalCSV(t *Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeCSV(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
