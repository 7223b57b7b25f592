package core

import "fmt"

// EmptyState returns a FilterState with every filterable column of ds mapped
// to an empty selection.
func EmptyState(ds *Dataset) FilterState {
	cols := ds.FilterableColumns()
	state := make(FilterState, len(cols))
	for _, col := range cols {
		state[col.Key] = []string{}
	}
	return state
}

// ClearAll is EmptyState under the name the presentation layer uses.
func ClearAll(ds *Dataset) FilterState {
	return EmptyState(ds)
}

// ApplyFilter sets key's selection to values and reconciles every other
// column. The input state is not modified.
//
// The protocol, in order:
//  1. key's selection becomes values with duplicates dropped, even if empty
//     or containing values absent from ds.
//  2. For each other filterable column c, in column order, the options of c
//     are computed from that tentative state (c's own selection excluded,
//     every other column at its selection before this call).
//  3. c keeps only the previously selected values that are still options,
//     in their previous order.
//
// Every value kept in step 3 has a witness row live under the whole
// tentative state. That row's value in each other column is kept too, so the
// witness survives reconciliation and the result needs no second pass.
//
// Returns ErrUnknownFilter if key is not a filterable column of ds.
func ApplyFilter(ds *Dataset, state FilterState, key string, values []string) (FilterState, error) {
	if !ds.IsFilterable(key) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFilter, key)
	}

	values = uniqueValues(values)

	cols := ds.FilterableColumns()
	tentative := make(FilterState, len(cols))
	for _, col := range cols {
		tentative[col.Key] = state[col.Key]
	}
	tentative[key] = values

	next := make(FilterState, len(cols))
	for _, col := range cols {
		if col.Key == key {
			next[key] = values
			continue
		}
		prev := tentative[col.Key]
		if len(prev) == 0 {
			next[col.Key] = []string{}
			continue
		}
		next[col.Key] = retainReachable(prev, columnOptions(ds, tentative, col))
	}
	return next, nil
}

// retainReachable keeps the values of selected that appear in options,
// preserving their order.
func retainReachable(selected, options []string) []string {
	valid := make(map[string]struct{}, len(options))
	for _, o := range options {
		valid[o] = struct{}{}
	}
	kept := make([]string, 0, len(selected))
	for _, v := range selected {
		if _, ok := valid[v]; ok {
			kept = append(kept, v)
		}
	}
	return kept
}

// uniqueValues returns a copy of values keeping the first occurrence of each.
func uniqueValues(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func cloneValues(values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	return out
}

// Selection returns the selected values for key, or nil.
func (s FilterState) Selection(key string) []string {
	return s[key]
}

// Active returns the number of columns with a non-empty selection.
func (s FilterState) Active() int {
	n := 0
	for _, v := range s {
		if len(v) > 0 {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of s.
func (s FilterState) Clone() FilterState {
	out := make(FilterState, len(s))
	for k, v := range s {
		out[k] = cloneValues(v)
	}
	return out
}

// Equal reports whether s and other constrain the same columns to the same
// values in the same order. A missing key equals an empty selection.
func (s FilterState) Equal(other FilterState) bool {
	for k, v := range s {
		if !equalValues(v, other[k]) {
			return false
		}
	}
	for k, v := range other {
		if _, ok := s[k]; !ok && len(v) > 0 {
			return false
		}
	}
	return true
}

func equalValues(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
