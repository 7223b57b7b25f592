package core

import (
	"reflect"
	"testing"
)

// peopleDataset is the three-row dataset used throughout the engine tests.
func peopleDataset(t *testing.T) *Dataset {
	t.Helper()
	ds, err := NewDataset(
		[]string{"id", "name", "age"},
		[][]string{
			{"1", "Alice", "30"},
			{"2", "Bob", "25"},
			{"3", "Carol", "30"},
		},
	)
	if err != nil {
		t.Fatalf("NewDataset() error = %v", err)
	}
	return ds
}

// salesDataset has three filterable columns with overlapping values.
func salesDataset(t *testing.T) *Dataset {
	t.Helper()
	ds, err := NewDataset(
		[]string{"order_id", "region", "product", "quantity"},
		[][]string{
			{"o1", "EU", "Widget", "10"},
			{"o2", "EU", "Gadget", "5"},
			{"o3", "US", "Widget", "7"},
			{"o4", "US", "Gizmo", "5"},
			{"o5", "APAC", "Gadget", "12"},
			{"o6", "APAC", "", "3"},
		},
	)
	if err != nil {
		t.Fatalf("NewDataset() error = %v", err)
	}
	return ds
}

func TestNewDataset_Columns(t *testing.T) {
	ds := peopleDataset(t)

	want := []ColumnDescriptor{
		{Key: "id", Label: "Id", Kind: KindNumber},
		{Key: "name", Label: "Name", Kind: KindText},
		{Key: "age", Label: "Age", Kind: KindNumber},
	}
	if got := ds.Columns(); !reflect.DeepEqual(got, want) {
		t.Errorf("Columns() = %v, want %v", got, want)
	}

	filterable := ds.FilterableColumns()
	if len(filterable) != 2 || filterable[0].Key != "name" || filterable[1].Key != "age" {
		t.Errorf("FilterableColumns() = %v, want [name age]", filterable)
	}

	if ds.IsFilterable("id") {
		t.Error("IsFilterable(id) = true, want false")
	}
	if !ds.IsFilterable("age") {
		t.Error("IsFilterable(age) = false, want true")
	}
	if ds.IsFilterable("missing") {
		t.Error("IsFilterable(missing) = true, want false")
	}

	id, ok := ds.IDColumn()
	if !ok || id.Key != "id" {
		t.Errorf("IDColumn() = %v, %v, want id, true", id, ok)
	}
}

func TestNewDataset_NormalisesRecords(t *testing.T) {
	ds, err := NewDataset(
		[]string{" id ", "city", "zip"},
		[][]string{
			{"1", "  Oslo  "},
			{"2", "Bergen", "5003", "surplus"},
		},
	)
	if err != nil {
		t.Fatalf("NewDataset() error = %v", err)
	}

	rows := ds.Rows()
	if len(rows) != 2 {
		t.Fatalf("Rows() len = %d, want 2", len(rows))
	}

	want0 := Row{"id": "1", "city": "Oslo", "zip": ""}
	if !reflect.DeepEqual(rows[0], want0) {
		t.Errorf("rows[0] = %v, want %v", rows[0], want0)
	}
	want1 := Row{"id": "2", "city": "Bergen", "zip": "5003"}
	if !reflect.DeepEqual(rows[1], want1) {
		t.Errorf("rows[1] = %v, want %v", rows[1], want1)
	}
}

func TestNewDataset_Errors(t *testing.T) {
	tests := []struct {
		name   string
		header []string
	}{
		{name: "empty header", header: nil},
		{name: "blank column", header: []string{"id", "  "}},
		{name: "duplicate column", header: []string{"id", "name", "name"}},
		{name: "duplicate after trim", header: []string{"id", "name", " name "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewDataset(tt.header, nil); err == nil {
				t.Errorf("NewDataset(%q) error = nil, want error", tt.header)
			}
		})
	}
}

func TestNewDataset_InfersFromFirstHundredNonEmpty(t *testing.T) {
	var records [][]string
	for i := 0; i < 50; i++ {
		records = append(records, []string{"r", ""}) // empty cells are not sampled
	}
	for i := 0; i < 100; i++ {
		records = append(records, []string{"r", "42"})
	}
	for i := 0; i < 200; i++ {
		records = append(records, []string{"r", "text"})
	}

	ds, err := NewDataset([]string{"id", "value"}, records)
	if err != nil {
		t.Fatalf("NewDataset() error = %v", err)
	}
	col, _ := ds.Column("value")
	if col.Kind != KindNumber {
		t.Errorf("value Kind = %v, want %v", col.Kind, KindNumber)
	}
}

func TestEmptyDataset(t *testing.T) {
	ds := EmptyDataset()

	if !ds.IsEmpty() {
		t.Error("IsEmpty() = false, want true")
	}
	if ds.Len() != 0 {
		t.Errorf("Len() = %d, want 0", ds.Len())
	}
	if cols := ds.FilterableColumns(); len(cols) != 0 {
		t.Errorf("FilterableColumns() = %v, want none", cols)
	}
	if _, ok := ds.IDColumn(); ok {
		t.Error("IDColumn() ok = true, want false")
	}
}

func TestDataset_NilSafe(t *testing.T) {
	var ds *Dataset

	if !ds.IsEmpty() {
		t.Error("nil IsEmpty() = false, want true")
	}
	if ds.Len() != 0 || ds.Rows() != nil || ds.Columns() != nil {
		t.Error("nil dataset should report no rows or columns")
	}
	if ds.IsFilterable("x") {
		t.Error("nil IsFilterable() = true, want false")
	}
}

func TestDataset_RowsIsCopy(t *testing.T) {
	ds := peopleDataset(t)

	rows := ds.Rows()
	rows[0] = Row{"id": "99"}

	if got := ds.Rows()[0]["id"]; got != "1" {
		t.Errorf("Rows()[0][id] = %q after caller modified its slice, want 1", got)
	}
}
