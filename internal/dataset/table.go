// Package dataset holds the in-memory tabular model that flows through the
// pipeline: an ordered list of column names and an ordered list of rows, each
// row aligned to the columns.
//
// A Table is built with a fixed schema at extraction time and may be widened
// later with AddColumn. Columns are never reordered or removed, and row order
// is always insertion order.
package dataset

import (
	"fmt"
	"strings"
)

// Table is an ordered, column-aligned collection of rows.
//
// The zero value is not usable; construct with New.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]any
}

// New returns an empty Table with the given column names. Names must be
// non-empty and unique.
func New(columns []string) (*Table, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("dataset: at least one column is required")
	}
	idx := make(map[string]int, len(columns))
	cols := make([]string, len(columns))
	for i, c := range columns {
		name := strings.TrimSpace(c)
		if name == "" {
			return nil, fmt.Errorf("dataset: column %d has an empty name", i)
		}
		if _, dup := idx[name]; dup {
			return nil, fmt.Errorf("dataset: duplicate column %q", name)
		}
		idx[name] = i
		cols[i] = name
	}
	return &Table{columns: cols, index: idx}, nil
}

// MustNew is like New but panics on error. Intended for tests and fixed
// schemas known at compile time.
func MustNew(columns ...string) *Table {
	t, err := New(columns)
	if err != nil {
		panic(err)
	}
	return t
}

// Append adds one row. The number of values must match the column count.
func (t *Table) Append(values ...any) error {
	if len(values) != len(t.columns) {
		return fmt.Errorf("dataset: row has %d values, table has %d columns", len(values), len(t.columns))
	}
	row := make([]any, len(values))
	copy(row, values)
	t.rows = append(t.rows, row)
	return nil
}

// AddColumn appends a new column to the right of the existing ones. values
// must hold exactly one value per existing row, in row order.
func (t *Table) AddColumn(name string, values []any) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("dataset: column name must not be empty")
	}
	if _, dup := t.index[name]; dup {
		return fmt.Errorf("dataset: duplicate column %q", name)
	}
	if len(values) != len(t.rows) {
		return fmt.Errorf("dataset: column %q has %d values, table has %d rows", name, len(values), len(t.rows))
	}
	t.index[name] = len(t.columns)
	t.columns = append(t.columns, name)
	for i := range t.rows {
		t.rows[i] = append(t.rows[i], values[i])
	}
	return nil
}

// Columns returns a copy of the column names in order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Index returns the position of column name, or -1 when absent.
func (t *Table) Index(name string) int {
	if i, ok := t.index[name]; ok {
		return i
	}
	return -1
}

// Row returns a copy of row i.
func (t *Table) Row(i int) []any {
	out := make([]any, len(t.rows[i]))
	copy(out, t.rows[i])
	return out
}

// Value returns the value of column col in row i.
func (t *Table) Value(i int, col string) (any, error) {
	j := t.Index(col)
	if j < 0 {
		return nil, fmt.Errorf("dataset: unknown column %q", col)
	}
	if i < 0 || i >= len(t.rows) {
		return nil, fmt.Errorf("dataset: row %d out of range [0,%d)", i, len(t.rows))
	}
	return t.rows[i][j], nil
}

// Float returns the value of column col in row i as a float64. It fails when
// the stored value is not numeric.
func (t *Table) Float(i int, col string) (float64, error) {
	v, err := t.Value(i, col)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("dataset: column %q row %d holds %T, not a number", col, i, v)
	}
}

// Clone returns a deep copy of the table structure. Values themselves are
// copied by assignment.
func (t *Table) Clone() *Table {
	c := &Table{
		columns: t.Columns(),
		index:   make(map[string]int, len(t.index)),
		rows:    make([][]any, len(t.rows)),
	}
	for k, v := range t.index {
		c.index[k] = v
	}
	for i := range t.rows {
		c.rows[i] = t.Row(i)
	}
	return c
}
