// Package core provides the faceted cross-filtering engine.
//
// The package holds every rule about datasets, filters and facets, and knows
// nothing about files, databases or HTTP. Web handlers, the CLI and tests use
// it unchanged.
//
// # Concepts
//
//   - Dataset: an immutable table loaded once from a Data Source. The first
//     column identifies rows; every other column is filterable.
//   - FilterState: the selected values per filterable column. A row is live
//     when, for every column with a non-empty selection, its value is one of
//     the selected values.
//   - Facet options: for each column, the distinct values found in rows that
//     are live under every other column's selection. A column's own selection
//     never narrows its own options.
//
// # Transitions
//
// Filter state changes only through [ApplyFilter], [ClearAll] and
// [EmptyState], which are pure functions returning a new FilterState:
//
//	state := core.EmptyState(ds)
//	state, err := core.ApplyFilter(ds, state, "region", []string{"EU"})
//	opts, err := core.ComputeOptions(ds, state, "product")
//	rows := core.VisibleRows(ds, state)
//
// [ApplyFilter] reconciles the other columns: a selected value that is no
// longer reachable is dropped. The edited column keeps exactly what was
// submitted, including values absent from the dataset.
//
// # Sessions
//
// A [Session] wraps one caller's dataset and state in an immutable
// [Snapshot] and swaps it atomically on every transition. [SessionStore]
// keeps sessions by ID and evicts idle ones.
//
// # Error Handling
//
// [ErrConfiguration] errors (unknown filter or column) are caller bugs and are
// always returned. [ErrSourceUnavailable] means a dataset could not be loaded;
// the session then holds [EmptyDataset]. [MapError] turns either into a
// user-facing message with a support code:
//
//   - CFG001-CFG003: Configuration errors (unknown filter, column, dataset)
//   - SRC001-SRC004: Source errors (unavailable, missing file, database, busy)
//   - REQ001-REQ004: Request errors (session, body, cancelled, timeout)
package core
