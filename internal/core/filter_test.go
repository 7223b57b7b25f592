package core

import (
	"errors"
	"reflect"
	"testing"
)

func mustApply(t *testing.T, ds *Dataset, state FilterState, key string, values ...string) FilterState {
	t.Helper()
	next, err := ApplyFilter(ds, state, key, values)
	if err != nil {
		t.Fatalf("ApplyFilter(%s, %v) error = %v", key, values, err)
	}
	return next
}

func rowIDs(rows []Row) []string {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r["id"]
	}
	return ids
}

func TestEmptyState(t *testing.T) {
	ds := peopleDataset(t)
	state := EmptyState(ds)

	want := FilterState{"name": {}, "age": {}}
	if !reflect.DeepEqual(state, want) {
		t.Errorf("EmptyState() = %v, want %v", state, want)
	}
	if state.Active() != 0 {
		t.Errorf("Active() = %d, want 0", state.Active())
	}
}

func TestApplyFilter_PeopleScenario(t *testing.T) {
	ds := peopleDataset(t)

	state := mustApply(t, ds, EmptyState(ds), "age", "30")
	if got := rowIDs(VisibleRows(ds, state)); !reflect.DeepEqual(got, []string{"1", "3"}) {
		t.Errorf("VisibleRows() after age=30 = %v, want [1 3]", got)
	}

	state = mustApply(t, ds, state, "name", "Bob")
	want := FilterState{"name": {"Bob"}, "age": {}}
	if !reflect.DeepEqual(state, want) {
		t.Errorf("state after name=Bob = %v, want %v", state, want)
	}
	if got := rowIDs(VisibleRows(ds, state)); !reflect.DeepEqual(got, []string{"2"}) {
		t.Errorf("VisibleRows() after name=Bob = %v, want [2]", got)
	}
}

func TestApplyFilter_KeepsReachableValues(t *testing.T) {
	ds := salesDataset(t)

	state := mustApply(t, ds, EmptyState(ds), "product", "Widget", "Gadget")
	state = mustApply(t, ds, state, "region", "EU")

	// Both products exist in EU, so product keeps its selection in order.
	if got := state["product"]; !reflect.DeepEqual(got, []string{"Widget", "Gadget"}) {
		t.Errorf("product = %v, want [Widget Gadget]", got)
	}

	state = mustApply(t, ds, state, "region", "US")
	// Only Widget exists in US.
	if got := state["product"]; !reflect.DeepEqual(got, []string{"Widget"}) {
		t.Errorf("product = %v, want [Widget]", got)
	}
}

func TestApplyFilter_EditedColumnKeptVerbatim(t *testing.T) {
	ds := peopleDataset(t)

	state := mustApply(t, ds, EmptyState(ds), "age", "30")
	state = mustApply(t, ds, state, "name", "Zed", "Alice")

	if got := state["name"]; !reflect.DeepEqual(got, []string{"Zed", "Alice"}) {
		t.Errorf("name = %v, want phantom value kept: [Zed Alice]", got)
	}
	if got := state["age"]; !reflect.DeepEqual(got, []string{"30"}) {
		t.Errorf("age = %v, want [30]", got)
	}
	if got := rowIDs(VisibleRows(ds, state)); !reflect.DeepEqual(got, []string{"1"}) {
		t.Errorf("VisibleRows() = %v, want [1]", got)
	}
}

func TestApplyFilter_PhantomOnlyPrunesOthers(t *testing.T) {
	ds := peopleDataset(t)

	state := mustApply(t, ds, EmptyState(ds), "age", "30")
	state = mustApply(t, ds, state, "name", "Zed")

	want := FilterState{"name": {"Zed"}, "age": {}}
	if !reflect.DeepEqual(state, want) {
		t.Errorf("state = %v, want %v", state, want)
	}
	if rows := VisibleRows(ds, state); len(rows) != 0 {
		t.Errorf("VisibleRows() = %v, want none", rows)
	}
}

func TestApplyFilter_ClearingSelection(t *testing.T) {
	ds := peopleDataset(t)

	state := mustApply(t, ds, EmptyState(ds), "age", "30")
	state = mustApply(t, ds, state, "age")

	if state.Active() != 0 {
		t.Errorf("Active() = %d, want 0", state.Active())
	}
	if got := len(VisibleRows(ds, state)); got != 3 {
		t.Errorf("VisibleRows() len = %d, want 3", got)
	}
}

func TestApplyFilter_UnknownKey(t *testing.T) {
	ds := peopleDataset(t)
	state := mustApply(t, ds, EmptyState(ds), "age", "30")
	before := state.Clone()

	for _, key := range []string{"colour", "id", ""} {
		got, err := ApplyFilter(ds, state, key, []string{"x"})
		if !errors.Is(err, ErrUnknownFilter) {
			t.Errorf("ApplyFilter(%q) error = %v, want ErrUnknownFilter", key, err)
		}
		if got != nil {
			t.Errorf("ApplyFilter(%q) state = %v, want nil", key, got)
		}
	}
	if !state.Equal(before) {
		t.Errorf("input state changed to %v, want %v", state, before)
	}
}

func TestApplyFilter_DoesNotMutateInput(t *testing.T) {
	ds := salesDataset(t)
	state := mustApply(t, ds, EmptyState(ds), "product", "Widget", "Gizmo")
	before := state.Clone()
	values := []string{"EU"}

	next := mustApply(t, ds, state, "region", values...)
	values[0] = "changed"

	if !state.Equal(before) {
		t.Errorf("input state = %v, want %v", state, before)
	}
	if got := next["region"]; !reflect.DeepEqual(got, []string{"EU"}) {
		t.Errorf("region = %v, want [EU] independent of caller slice", got)
	}
}

func TestApplyFilter_Idempotent(t *testing.T) {
	ds := salesDataset(t)
	state := mustApply(t, ds, EmptyState(ds), "product", "Gadget")
	state = mustApply(t, ds, state, "quantity", "5", "12")

	once := mustApply(t, ds, state, "region", "EU", "APAC")
	twice := mustApply(t, ds, once, "region", "EU", "APAC")

	if !once.Equal(twice) {
		t.Errorf("second apply = %v, want %v", twice, once)
	}
}

func TestApplyFilter_EveryKeptValueIsReachable(t *testing.T) {
	ds := salesDataset(t)

	steps := []struct {
		key    string
		values []string
	}{
		{"quantity", []string{"5", "10", "12"}},
		{"product", []string{"Gadget", "Widget"}},
		{"region", []string{"EU"}},
		{"quantity", []string{"5"}},
		{"region", []string{"US", "APAC"}},
		{"product", []string{"Gizmo"}},
	}

	state := EmptyState(ds)
	for _, step := range steps {
		state = mustApply(t, ds, state, step.key, step.values...)

		for _, col := range ds.FilterableColumns() {
			if col.Key == step.key {
				continue
			}
			opts, err := ComputeOptions(ds, state, col.Key)
			if err != nil {
				t.Fatalf("ComputeOptions(%s) error = %v", col.Key, err)
			}
			for _, v := range state[col.Key] {
				if !contains(opts, v) {
					t.Errorf("after %s=%v: %s keeps %q, not in options %v",
						step.key, step.values, col.Key, v, opts)
				}
			}
		}
	}
}

func TestApplyFilter_EmptyDataset(t *testing.T) {
	ds := EmptyDataset()
	_, err := ApplyFilter(ds, EmptyState(ds), "anything", []string{"x"})
	if !errors.Is(err, ErrUnknownFilter) {
		t.Errorf("ApplyFilter() error = %v, want ErrUnknownFilter", err)
	}
}

func TestApplyFilter_HeaderOnlyDataset(t *testing.T) {
	ds, err := NewDataset([]string{"id", "v", "w"}, nil)
	if err != nil {
		t.Fatalf("NewDataset() error = %v", err)
	}

	for key, opts := range ComputeFacets(ds, EmptyState(ds)) {
		if len(opts) != 0 {
			t.Errorf("ComputeFacets()[%s] = %v, want empty", key, opts)
		}
	}

	state := mustApply(t, ds, EmptyState(ds), "w", "q")
	state = mustApply(t, ds, state, "v", "x")

	want := FilterState{"v": {"x"}, "w": {}}
	if !reflect.DeepEqual(state, want) {
		t.Errorf("state = %v, want %v", state, want)
	}
	if rows := VisibleRows(ds, state); len(rows) != 0 {
		t.Errorf("VisibleRows() = %v, want none", rows)
	}
}

func TestApplyFilter_OrderIndependentRows(t *testing.T) {
	ds := salesDataset(t)

	type edit struct {
		key    string
		values []string
	}
	tests := []struct {
		name  string
		start FilterState
		a, b  edit
		want  []string
	}{
		{
			name:  "single values",
			start: EmptyState(ds),
			a:     edit{"region", []string{"EU"}},
			b:     edit{"product", []string{"Widget"}},
			want:  []string{"o1"},
		},
		{
			name:  "multiple values",
			start: EmptyState(ds),
			a:     edit{"region", []string{"US", "APAC"}},
			b:     edit{"product", []string{"Gadget", "Gizmo"}},
			want:  []string{"o4", "o5"},
		},
		{
			name:  "existing selection",
			start: mustApply(t, ds, EmptyState(ds), "quantity", "5"),
			a:     edit{"region", []string{"EU"}},
			b:     edit{"product", []string{"Gadget"}},
			want:  []string{"o2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ab := mustApply(t, ds, tt.start, tt.a.key, tt.a.values...)
			ab = mustApply(t, ds, ab, tt.b.key, tt.b.values...)

			ba := mustApply(t, ds, tt.start, tt.b.key, tt.b.values...)
			ba = mustApply(t, ds, ba, tt.a.key, tt.a.values...)

			gotAB := rowIDs(VisibleRows(ds, ab))
			gotBA := rowIDs(VisibleRows(ds, ba))
			if !reflect.DeepEqual(gotAB, gotBA) {
				t.Errorf("VisibleRows() = %v applying %s first, %v applying %s first",
					gotAB, tt.a.key, gotBA, tt.b.key)
			}
			if !reflect.DeepEqual(gotAB, tt.want) {
				t.Errorf("VisibleRows() = %v, want %v", gotAB, tt.want)
			}
		})
	}
}

func TestApplyFilter_DropsDuplicateValues(t *testing.T) {
	ds := peopleDataset(t)

	state := mustApply(t, ds, EmptyState(ds), "name", "Carol", "Alice", "Carol", "Zed", "Alice")
	if got := state["name"]; !reflect.DeepEqual(got, []string{"Carol", "Alice", "Zed"}) {
		t.Errorf("name = %v, want [Carol Alice Zed]", got)
	}
	if got := rowIDs(VisibleRows(ds, state)); !reflect.DeepEqual(got, []string{"1", "3"}) {
		t.Errorf("VisibleRows() = %v, want [1 3]", got)
	}
}

func TestClearAll(t *testing.T) {
	ds := salesDataset(t)
	state := mustApply(t, ds, EmptyState(ds), "region", "EU")
	state = mustApply(t, ds, state, "product", "Widget")

	cleared := ClearAll(ds)
	if cleared.Active() != 0 {
		t.Errorf("Active() = %d, want 0", cleared.Active())
	}
	if !cleared.Equal(EmptyState(ds)) {
		t.Errorf("ClearAll() = %v, want %v", cleared, EmptyState(ds))
	}
	if got := len(VisibleRows(ds, cleared)); got != ds.Len() {
		t.Errorf("VisibleRows() len = %d, want %d", got, ds.Len())
	}
}

func TestFilterState_Equal(t *testing.T) {
	tests := []struct {
		name string
		a, b FilterState
		want bool
	}{
		{name: "both empty", a: FilterState{}, b: FilterState{}, want: true},
		{name: "missing equals empty", a: FilterState{"x": {}}, b: FilterState{}, want: true},
		{name: "missing vs selected", a: FilterState{}, b: FilterState{"x": {"1"}}, want: false},
		{name: "same values", a: FilterState{"x": {"1", "2"}}, b: FilterState{"x": {"1", "2"}}, want: true},
		{name: "order matters", a: FilterState{"x": {"1", "2"}}, b: FilterState{"x": {"2", "1"}}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
			if got := tt.b.Equal(tt.a); got != tt.want {
				t.Errorf("reverse Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterState_Clone(t *testing.T) {
	orig := FilterState{"x": {"1"}}
	clone := orig.Clone()
	clone["x"][0] = "2"

	if orig["x"][0] != "1" {
		t.Errorf("orig[x] = %v after modifying clone, want [1]", orig["x"])
	}
}
