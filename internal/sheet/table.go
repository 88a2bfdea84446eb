// Package sheet holds the tabular model used by the report pipelines, plus
// reading and writing of xlsx workbooks.
package sheet

import (
	"sort"
	"strings"
)

// Cell is a single value; nil means blank/null.
type Cell = *string

// Row is one record, aligned with Table.Columns.
type Row []Cell

// Table is a header plus rows.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Str returns a cell holding s.
func Str(s string) Cell { return &s }

// New returns an empty table with the given columns.
func New(columns ...string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// Index returns the position of col, or -1.
func (t *Table) Index(col string) int {
	for i, c := range t.Columns {
		if c == col {
			return i
		}
	}
	return -1
}

// Has reports whether col exists.
func (t *Table) Has(col string) bool { return t.Index(col) >= 0 }

// Missing returns the columns of required that the table lacks, in order.
func (t *Table) Missing(required ...string) []string {
	var missing []string
	for _, c := range required {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

// Get returns the cell of row r in column col, nil if either is absent.
func (t *Table) Get(r Row, col string) Cell {
	i := t.Index(col)
	if i < 0 || i >= len(r) {
		return nil
	}
	return r[i]
}

// Text returns the cell as a string, "" for blanks.
func (t *Table) Text(r Row, col string) string {
	if c := t.Get(r, col); c != nil {
		return *c
	}
	return ""
}

// Append adds a row, padding or truncating it to the column count.
func (t *Table) Append(r Row) {
	row := make(Row, len(t.Columns))
	copy(row, r)
	t.Rows = append(t.Rows, row)
}

// Clone returns a deep copy of the table structure. Cell values are shared
// since they are never modified in place.
func (t *Table) Clone() *Table {
	out := New(t.Columns...)
	out.Rows = make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		out.Rows[i] = append(Row(nil), r...)
	}
	return out
}

// Filter returns a new table with the rows for which keep returns true.
func (t *Table) Filter(keep func(Row) bool) *Table {
	out := New(t.Columns...)
	for _, r := range t.Rows {
		if keep(r) {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

// DropNull removes rows with a nil value in any of cols.
func (t *Table) DropNull(cols ...string) *Table {
	return t.Filter(func(r Row) bool {
		for _, c := range cols {
			if t.Get(r, c) == nil {
				return false
			}
		}
		return true
	})
}

// Select projects the table onto cols, skipping columns that do not exist.
func (t *Table) Select(cols ...string) *Table {
	var keep []string
	var idx []int
	for _, c := range cols {
		if i := t.Index(c); i >= 0 {
			keep = append(keep, c)
			idx = append(idx, i)
		}
	}
	out := New(keep...)
	out.Rows = make([]Row, len(t.Rows))
	for ri, r := range t.Rows {
		row := make(Row, len(idx))
		for j, i := range idx {
			if i < len(r) {
				row[j] = r[i]
			}
		}
		out.Rows[ri] = row
	}
	return out
}

// AddColumn appends a column whose values are computed from each row. If the
// column already exists its values are replaced. Rows are copied, so tables
// derived from the same source are unaffected.
func (t *Table) AddColumn(name string, value func(Row) Cell) {
	i := t.Index(name)
	if i < 0 {
		t.Columns = append(t.Columns, name)
		i = len(t.Columns) - 1
	}
	for ri, r := range t.Rows {
		row := make(Row, len(t.Columns))
		copy(row, r)
		row[i] = value(r)
		t.Rows[ri] = row
	}
}

// Map rewrites every value of col. Rows are copied as in AddColumn.
func (t *Table) Map(col string, fn func(Cell) Cell) {
	i := t.Index(col)
	if i < 0 {
		return
	}
	for ri, r := range t.Rows {
		row := make(Row, len(t.Columns))
		copy(row, r)
		row[i] = fn(row[i])
		t.Rows[ri] = row
	}
}

// SortBy stable-sorts rows using less.
func (t *Table) SortBy(less func(a, b Row) bool) {
	sort.SliceStable(t.Rows, func(i, j int) bool {
		return less(t.Rows[i], t.Rows[j])
	})
}

// Distinct returns the sorted distinct non-blank values of col.
func (t *Table) Distinct(col string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range t.Rows {
		v := t.Get(r, col)
		if v == nil {
			continue
		}
		if _, ok := seen[*v]; ok {
			continue
		}
		seen[*v] = struct{}{}
		out = append(out, *v)
	}
	sort.Strings(out)
	return out
}

// Group is the subset of rows sharing one value of the grouping column.
type Group struct {
	Key   string
	Table *Table
}

// GroupBy splits the table by the values of col, ordered by key. Rows with a
// blank key are left out.
func (t *Table) GroupBy(col string) []Group {
	byKey := make(map[string]*Table)
	for _, r := range t.Rows {
		v := t.Get(r, col)
		if v == nil {
			continue
		}
		g, ok := byKey[*v]
		if !ok {
			g = New(t.Columns...)
			byKey[*v] = g
		}
		g.Rows = append(g.Rows, r)
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	groups := make([]Group, len(keys))
	for i, k := range keys {
		groups[i] = Group{Key: k, Table: byKey[k]}
	}
	return groups
}

// Normalize trims and lowercases a cell for comparisons; blanks become "".
func Normalize(c Cell) string {
	if c == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(*c))
}
