package core

import (
	"reflect"
	"testing"
)

func TestVisibleRows(t *testing.T) {
	ds := salesDataset(t)

	tests := []struct {
		name  string
		state FilterState
		want  []string
	}{
		{name: "empty state shows everything", state: EmptyState(ds), want: []string{"o1", "o2", "o3", "o4", "o5", "o6"}},
		{name: "nil state shows everything", state: nil, want: []string{"o1", "o2", "o3", "o4", "o5", "o6"}},
		{name: "or within column", state: FilterState{"region": {"EU", "APAC"}}, want: []string{"o1", "o2", "o5", "o6"}},
		{name: "and across columns", state: FilterState{"region": {"EU", "APAC"}, "quantity": {"5", "3"}}, want: []string{"o2", "o6"}},
		{name: "no self-exclusion", state: FilterState{"product": {"Gizmo"}}, want: []string{"o4"}},
		{name: "unmatched value", state: FilterState{"region": {"Mars"}}, want: []string{}},
		{name: "empty cell matches nothing selected", state: FilterState{"product": {"Widget", "Gadget", "Gizmo"}}, want: []string{"o1", "o2", "o3", "o4", "o5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := VisibleRows(ds, tt.state)
			got := make([]string, len(rows))
			for i, r := range rows {
				got[i] = r["order_id"]
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("VisibleRows() = %v, want %v", got, tt.want)
			}
			if n := CountVisible(ds, tt.state); n != len(tt.want) {
				t.Errorf("CountVisible() = %d, want %d", n, len(tt.want))
			}
		})
	}
}

func TestVisibleRows_EmptyDataset(t *testing.T) {
	if rows := VisibleRows(EmptyDataset(), FilterState{}); len(rows) != 0 {
		t.Errorf("VisibleRows(empty) = %v, want none", rows)
	}
	if rows := VisibleRows(nil, nil); rows != nil {
		t.Errorf("VisibleRows(nil) = %v, want nil", rows)
	}
}

func TestSummarize(t *testing.T) {
	ds := salesDataset(t)
	rows := VisibleRows(ds, FilterState{"region": {"EU", "US"}})

	aggs := Summarize(ds, rows)

	if _, ok := aggs["region"]; ok {
		t.Error("Summarize() includes text column region")
	}
	if _, ok := aggs["order_id"]; ok {
		t.Error("Summarize() includes id column")
	}

	q, ok := aggs["quantity"]
	if !ok {
		t.Fatal("Summarize() missing quantity")
	}
	if q.Count != 4 {
		t.Errorf("Count = %d, want 4", q.Count)
	}

	checks := []struct {
		name string
		got  *float64
		want float64
	}{
		{"Sum", q.Sum, 27},      // 10 + 5 + 7 + 5
		{"Mean", q.Mean, 6.75},  // 27 / 4
		{"Median", q.Median, 6}, // (5 + 7) / 2
		{"Min", q.Min, 5},
		{"Max", q.Max, 10},
	}
	for _, c := range checks {
		if c.got == nil {
			t.Errorf("%s = nil, want %v", c.name, c.want)
			continue
		}
		if *c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, *c.got, c.want)
		}
	}
}

func TestSummarize_NoRows(t *testing.T) {
	ds := salesDataset(t)
	aggs := Summarize(ds, nil)

	q := aggs["quantity"]
	if q == nil {
		t.Fatal("Summarize() missing quantity")
	}
	if q.Count != 0 || q.Sum != nil || q.Mean != nil {
		t.Errorf("quantity = %+v, want zero count and nil stats", q)
	}
}
