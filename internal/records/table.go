package records

import (
	"slices"
)

// Table is a whole dataset held as ordered string columns. Cells the
// source left blank read back as "".
type Table struct {
	Columns []string
	Rows    [][]string
}

// NewTable creates an empty table with the given header.
func NewTable(columns ...string) *Table {
	return &Table{Columns: slices.Clone(columns)}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Index returns the position of col, or -1.
func (t *Table) Index(col string) int {
	if t == nil {
		return -1
	}
	return slices.Index(t.Columns, col)
}

// Value reads one cell; missing columns and short rows yield "".
func (t *Table) Value(row int, col string) string {
	idx := t.Index(col)
	if idx < 0 || row < 0 || row >= t.Len() {
		return ""
	}
	cells := t.Rows[row]
	if idx >= len(cells) {
		return ""
	}
	return cells[idx]
}

// Set writes one cell, adding the column when the table lacks it.
func (t *Table) Set(row int, col, value string) {
	if row < 0 || row >= t.Len() {
		return
	}
	idx := t.ensureColumn(col)
	t.padRow(row)
	t.Rows[row][idx] = value
}

// Record detaches a copy of one row.
func (t *Table) Record(row int) Record {
	rec := Record{values: map[string]string{}}
	if row < 0 || row >= t.Len() {
		return rec
	}
	for _, col := range t.Columns {
		rec.Set(col, t.Value(row, col))
	}
	return rec
}

// Append adds rec as a new row. Columns the table lacks are appended to the
// header in rec's order and existing rows get blank cells for them.
func (t *Table) Append(rec Record) {
	for _, col := range rec.columns {
		t.ensureColumn(col)
	}
	row := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		row[i] = rec.Get(col)
	}
	t.Rows = append(t.Rows, row)
}

// RemoveWhere drops every row matching drop and returns how many went.
func (t *Table) RemoveWhere(drop func(row int) bool) int {
	kept := t.Rows[:0:0]
	removed := 0
	for i, cells := range t.Rows {
		if drop(i) {
			removed++
			continue
		}
		kept = append(kept, cells)
	}
	t.Rows = kept
	return removed
}

// Clone deep-copies the table.
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	out := &Table{Columns: slices.Clone(t.Columns), Rows: make([][]string, len(t.Rows))}
	for i, cells := range t.Rows {
		out.Rows[i] = slices.Clone(cells)
	}
	return out
}

// Normalize pads every row to the header width.
func (t *Table) Normalize() {
	for i := range t.Rows {
		t.padRow(i)
	}
}

func (t *Table) ensureColumn(col string) int {
	if idx := t.Index(col); idx >= 0 {
		return idx
	}
	t.Columns = append(t.Columns, col)
	return len(t.Columns) - 1
}

func (t *Table) padRow(row int) {
	if missing := len(t.Columns) - len(t.Rows[row]); missing > 0 {
		t.Rows[row] = append(t.Rows[row], make([]string, missing)...)
	}
}

// Record is a single row detached from its table, keeping column order.
type Record struct {
	columns []string
	values  map[string]string
}

// Get returns the value for col, or "".
func (r Record) Get(col string) string {
	return r.values[col]
}

// Set assigns col, remembering first-seen column order.
func (r *Record) Set(col, value string) {
	if r.values == nil {
		r.values = map[string]string{}
	}
	if _, ok := r.values[col]; !ok {
		r.columns = append(r.columns, col)
	}
	r.values[col] = value
}

// Columns lists the record's columns in order.
func (r Record) Columns() []string {
	return slices.Clone(r.columns)
}
