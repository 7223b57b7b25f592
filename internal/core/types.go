package core

import "fmt"

// Kind is the inferred value type of a column.
type Kind int

const (
	KindText Kind = iota
	KindNumber
)

// String returns the lowercase name used in JSON and templates.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	default:
		return "text"
	}
}

// MarshalText encodes the kind as "number" or "text".
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes "number" or "text".
func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "number":
		*k = KindNumber
	case "text":
		*k = KindText
	default:
		return fmt.Errorf("unknown column kind %q", text)
	}
	return nil
}

// Row maps column key to cell value. Rows are immutable once loaded.
type Row map[string]string

// ColumnDescriptor describes one column of a Dataset.
type ColumnDescriptor struct {
	Key   string `json:"key"`   // Header name as it appears in the source
	Label string `json:"label"` // Display name: "Order Date"
	Kind  Kind   `json:"kind"`  // Inferred once at load time
}

// FilterState maps a filterable column key to its selected values.
// A missing key or an empty selection means "no constraint on this column".
type FilterState map[string][]string

// Option is a single selectable facet value.
// Label mirrors Value today; it exists so display formatting can diverge later.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FacetOptions maps each filterable column key to its selectable options.
// Always derived from a Dataset and FilterState, never stored as authority.
type FacetOptions map[string][]Option

// ColumnAggregation holds summary statistics for one numeric column.
type ColumnAggregation struct {
	Column string   `json:"column"`
	Count  int      `json:"count"` // Numeric cells that contributed
	Sum    *float64 `json:"sum,omitempty"`
	Mean   *float64 `json:"mean,omitempty"`
	Median *float64 `json:"median,omitempty"`
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
}

// Aggregations maps column keys to their aggregation results.
type Aggregations map[string]*ColumnAggregation
