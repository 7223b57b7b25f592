// Package source loads Datasets from their backing stores.
//
// A Source produces a fully constructed core.Dataset or an error; it never
// returns a partial Dataset. The Loader wraps every failure in
// core.ErrSourceUnavailable so callers can fall back to core.EmptyDataset.
package source

import (
	"context"

	"github.com/JonMunkholm/facetview/internal/core"
)

// Source is a named, loadable dataset.
type Source interface {
	// ID is the stable identifier used in URLs and configuration.
	ID() string
	// Label is the human-readable name shown in the dataset switcher.
	Label() string
	// Kind names the backing store: "csv", "xlsx" or "pg".
	Kind() string
	// Load reads the whole dataset.
	Load(ctx context.Context) (*core.Dataset, error)
}

// Info describes a Source for listings.
type Info struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Kind  string `json:"kind"`
}

// Describe returns the listing entry for s.
func Describe(s Source) Info {
	return Info{ID: s.ID(), Label: s.Label(), Kind: s.Kind()}
}

// DefaultLabel is the label used when none is configured.
//
//	"large"       -> "Large Dataset"
//	"q3_sales"    -> "Q3 Sales Dataset"
func DefaultLabel(id string) string {
	return core.FormatLabel(id) + " Dataset"
}
