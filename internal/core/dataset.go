package core

import (
	"fmt"
	"strings"
)

// Dataset is an immutable set of rows and column descriptors.
// It is created wholesale on load and replaced wholesale on switch; nothing
// in this package mutates a Dataset after construction.
//
// The first column is the row identifier and is never filterable.
type Dataset struct {
	columns []ColumnDescriptor
	rows    []Row
	index   map[string]int // column key -> position in columns
}

// NewDataset builds a Dataset from a header and raw records.
//
// Header names and cells are trimmed. Records shorter than the header are
// padded with empty cells; surplus cells are dropped. Column kinds are
// inferred from the loaded values with InferKind.
//
// Returns an error for an empty header or duplicate (or blank) column keys.
func NewDataset(header []string, records [][]string) (*Dataset, error) {
	if len(header) == 0 {
		return nil, fmt.Errorf("dataset has no columns")
	}

	index := make(map[string]int, len(header))
	keys := make([]string, len(header))
	for i, h := range header {
		key := strings.TrimSpace(h)
		if key == "" {
			return nil, fmt.Errorf("column %d has an empty header", i+1)
		}
		if _, dup := index[key]; dup {
			return nil, fmt.Errorf("duplicate column %q", key)
		}
		index[key] = i
		keys[i] = key
	}

	rows := make([]Row, len(records))
	columnValues := make([][]string, len(keys))
	for r, rec := range records {
		row := make(Row, len(keys))
		for i, key := range keys {
			var v string
			if i < len(rec) {
				v = strings.TrimSpace(rec[i])
			}
			row[key] = v
			if v != "" && len(columnValues[i]) < InferenceSampleSize {
				columnValues[i] = append(columnValues[i], v)
			}
		}
		rows[r] = row
	}

	columns := make([]ColumnDescriptor, len(keys))
	for i, key := range keys {
		columns[i] = ColumnDescriptor{
			Key:   key,
			Label: FormatLabel(key),
			Kind:  InferKind(columnValues[i]),
		}
	}

	return &Dataset{columns: columns, rows: rows, index: index}, nil
}

// EmptyDataset returns a Dataset with no columns and no rows.
// It stands in when a Data Source could not produce a Dataset.
func EmptyDataset() *Dataset {
	return &Dataset{index: map[string]int{}}
}

// Columns returns the column descriptors in header order.
func (d *Dataset) Columns() []ColumnDescriptor {
	if d == nil {
		return nil
	}
	out := make([]ColumnDescriptor, len(d.columns))
	copy(out, d.columns)
	return out
}

// FilterableColumns returns every column except the row identifier.
func (d *Dataset) FilterableColumns() []ColumnDescriptor {
	if d == nil || len(d.columns) < 2 {
		return nil
	}
	out := make([]ColumnDescriptor, len(d.columns)-1)
	copy(out, d.columns[1:])
	return out
}

// Column returns the descriptor for key.
func (d *Dataset) Column(key string) (ColumnDescriptor, bool) {
	if d == nil {
		return ColumnDescriptor{}, false
	}
	i, ok := d.index[key]
	if !ok {
		return ColumnDescriptor{}, false
	}
	return d.columns[i], true
}

// IsFilterable reports whether key names a filterable column.
func (d *Dataset) IsFilterable(key string) bool {
	if d == nil {
		return false
	}
	i, ok := d.index[key]
	return ok && i > 0
}

// Rows returns the rows in load order.
// The slice is a copy; the Row maps are shared and must not be modified.
func (d *Dataset) Rows() []Row {
	if d == nil {
		return nil
	}
	out := make([]Row, len(d.rows))
	copy(out, d.rows)
	return out
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.rows)
}

// IsEmpty reports whether the dataset has no columns.
func (d *Dataset) IsEmpty() bool {
	return d == nil || len(d.columns) == 0
}

// IDColumn returns the row identifier column, if any.
func (d *Dataset) IDColumn() (ColumnDescriptor, bool) {
	if d == nil || len(d.columns) == 0 {
		return ColumnDescriptor{}, false
	}
	return d.columns[0], true
}
