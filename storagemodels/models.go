/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

// Row is one record in storage representation: column names in the entity's
// column order, each paired with its storage value.
type Row struct {
	Table   string
	Columns []string
	Values  []any
}

// NewRow creates an empty Row for table with room for n columns.
func NewRow(table string, n int) *Row {
	return &Row{
		Table:   table,
		Columns: make([]string, 0, n),
		Values:  make([]any, 0, n),
	}
}

// Set appends column, or replaces its value when already present.
func (r *Row) Set(column string, value any) {
	for i, c := range r.Columns {
		if c == column {
			r.Values[i] = value
			return
		}
	}
	r.Columns = append(r.Columns, column)
	r.Values = append(r.Values, value)
}

// Get returns the value stored under column.
func (r *Row) Get(column string) (any, bool) {
	for i, c := range r.Columns {
		if c == column {
			return r.Values[i], true
		}
	}
	return nil, false
}

// Len returns the number of columns.
func (r *Row) Len() int {
	return len(r.Columns)
}

// Map returns the row as a column to value map.
func (r *Row) Map() map[string]any {
	m := make(map[string]any, len(r.Columns))
	for i, c := range r.Columns {
		m[c] = r.Values[i]
	}
	return m
}

// RowFromMap builds a Row for table taking the columns listed in order from m.
// Columns missing from m are skipped.
func RowFromMap(table string, order []string, m map[string]any) *Row {
	r := NewRow(table, len(order))
	for _, c := range order {
		if v, ok := m[c]; ok {
			r.Set(c, v)
		}
	}
	return r
}
