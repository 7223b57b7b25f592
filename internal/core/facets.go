package core

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// collationTag is the locale used to order Text facets.
var collationTag = language.English

// isLive reports whether row satisfies every non-empty selection in state,
// skipping the column named by exclude (pass "" to apply all).
// AND across columns, OR within one column's selection.
func isLive(row Row, state FilterState, exclude string) bool {
	for key, selected := range state {
		if key == exclude || len(selected) == 0 {
			continue
		}
		if !contains(selected, row[key]) {
			return false
		}
	}
	return true
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

// ComputeOptions returns the distinct values column can still take given every
// other column's selection in state. The column's own selection never narrows
// its own options.
//
// Empty cells are excluded. Number columns are ordered ascending by value,
// Text columns by English collation.
//
// Returns ErrUnknownColumn if column is not filterable in ds.
func ComputeOptions(ds *Dataset, state FilterState, column string) ([]string, error) {
	if !ds.IsFilterable(column) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
	desc, _ := ds.Column(column)
	return columnOptions(ds, state, desc), nil
}

// columnOptions is ComputeOptions for a known column.
func columnOptions(ds *Dataset, state FilterState, desc ColumnDescriptor) []string {
	seen := make(map[string]struct{})
	values := []string{}
	for _, row := range ds.rows {
		v := row[desc.Key]
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		if !isLive(row, state, desc.Key) {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	sortValues(values, desc.Kind)
	return values
}

// ComputeFacets returns the options for every filterable column of ds.
func ComputeFacets(ds *Dataset, state FilterState) FacetOptions {
	cols := ds.FilterableColumns()
	facets := make(FacetOptions, len(cols))
	for _, col := range cols {
		facets[col.Key] = toOptions(columnOptions(ds, state, col))
	}
	return facets
}

// toOptions pairs each value with its display label.
func toOptions(values []string) []Option {
	opts := make([]Option, len(values))
	for i, v := range values {
		opts[i] = Option{Value: v, Label: v}
	}
	return opts
}

// SearchOptions narrows opts to those whose label contains term,
// ignoring case. An empty term returns opts unchanged.
func SearchOptions(opts []Option, term string) []Option {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return opts
	}
	out := make([]Option, 0, len(opts))
	for _, o := range opts {
		if strings.Contains(strings.ToLower(o.Label), term) {
			out = append(out, o)
		}
	}
	return out
}

// sortValues orders facet values in place.
//
// Number: ascending numeric value; cells that do not parse sort after every
// number, among themselves by collation.
// Text: English collation, ties broken by byte order so the result never
// depends on input order.
func sortValues(values []string, kind Kind) {
	c := collate.New(collationTag)
	textLess := func(a, b string) bool {
		if r := c.CompareString(a, b); r != 0 {
			return r < 0
		}
		return a < b
	}

	if kind != KindNumber {
		sort.SliceStable(values, func(i, j int) bool {
			return textLess(values[i], values[j])
		})
		return
	}

	sort.SliceStable(values, func(i, j int) bool {
		a, aok := parseNumber(values[i])
		b, bok := parseNumber(values[j])
		switch {
		case aok && bok:
			if a != b {
				return a < b
			}
			return values[i] < values[j] // "1.0" vs "1"
		case aok:
			return true
		case bok:
			return false
		default:
			return textLess(values[i], values[j])
		}
	})
}
