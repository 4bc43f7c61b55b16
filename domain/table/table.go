package table

import (
	"strconv"
	"strings"
)

// ValueKind discriminates the closed scalar type a cell may hold.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindText
	KindNumber
	KindBool
)

// Value is one cell value: text, number, boolean, or null. Values are
// immutable; normalization and reconciliation always produce new ones.
type Value struct {
	kind ValueKind
	str  string
	num  float64
	b    bool
}

// Null is the absent cell value.
var Null = Value{kind: KindNull}

// Text wraps a string cell.
func Text(s string) Value { return Value{kind: KindText, str: s} }

// Number wraps a numeric cell.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Bool wraps a boolean cell.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Kind returns the value's discriminator.
func (v Value) Kind() ValueKind { return v.kind }

// IsNull reports whether the value is absent.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsEmpty reports whether the value is null or blank text.
func (v Value) IsEmpty() bool {
	return v.kind == KindNull || (v.kind == KindText && strings.TrimSpace(v.str) == "")
}

// String renders the value for display and comparison. Numbers use the
// shortest representation that round-trips; null renders empty.
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

// Float returns the numeric payload and whether the value is a number.
func (v Value) Float() (float64, bool) {
	if v.kind == KindNumber {
		return v.num, true
	}
	return 0, false
}

// Record is an ordered mapping from column name (case preserved) to a
// cell value. Any row may omit columns from its table's universe.
type Record struct {
	keys []string
	vals map[string]Value
}

// NewRecord creates an empty record.
func NewRecord() *Record {
	return &Record{vals: make(map[string]Value)}
}

// Set stores a value, preserving first-insertion order for new columns.
func (r *Record) Set(column string, v Value) {
	if _, ok := r.vals[column]; !ok {
		r.keys = append(r.keys, column)
	}
	r.vals[column] = v
}

// Get returns the value for column and whether the column is present.
func (r *Record) Get(column string) (Value, bool) {
	v, ok := r.vals[column]
	return v, ok
}

// Value returns the value for column, Null when absent.
func (r *Record) Value(column string) Value {
	return r.vals[column]
}

// Columns returns the record's column names in insertion order.
func (r *Record) Columns() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of populated columns.
func (r *Record) Len() int { return len(r.keys) }

// Clone returns an independent copy of the record.
func (r *Record) Clone() *Record {
	c := &Record{
		keys: make([]string, len(r.keys)),
		vals: make(map[string]Value, len(r.vals)),
	}
	copy(c.keys, r.keys)
	for k, v := range r.vals {
		c.vals[k] = v
	}
	return c
}

// Table is one ingested spreadsheet: a name (unique key), an ordered
// column universe, and its rows. The owning store holds the canonical
// copy; the engine borrows read access and hands back patched copies.
type Table struct {
	Name    string
	Columns []string
	Rows    []*Record
}

// NewTable creates a table with the given name and column universe.
func NewTable(name string, columns []string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Name: name, Columns: cols}
}

// RowCount returns the number of data rows.
func (t *Table) RowCount() int { return len(t.Rows) }

// Append adds a row, growing the column universe for any new columns
// the record carries (the manual-entry table gains field kinds over time).
func (t *Table) Append(rec *Record) {
	known := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		known[c] = true
	}
	for _, c := range rec.Columns() {
		if !known[c] {
			t.Columns = append(t.Columns, c)
		}
	}
	t.Rows = append(t.Rows, rec)
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	c := NewTable(t.Name, t.Columns)
	c.Rows = make([]*Record, len(t.Rows))
	for i, row := range t.Rows {
		c.Rows[i] = row.Clone()
	}
	return c
}
