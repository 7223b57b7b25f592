package core

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// Snapshot is an immutable view of a session at one version.
// Callers may hold a Snapshot indefinitely; later transitions produce new
// Snapshots and never modify old ones. Derived views (facets, visible rows)
// computed from a Snapshot stay consistent with it.
type Snapshot struct {
	SessionID string
	DatasetID string
	Dataset   *Dataset
	State     FilterState
	Version   uint64
	LoadErr   error // Non-nil if the Data Source failed; Dataset is then empty
}

// Facets returns the options for every filterable column.
func (s Snapshot) Facets() FacetOptions {
	return ComputeFacets(s.Dataset, s.State)
}

// Options returns the options for a single column.
func (s Snapshot) Options(column string) ([]Option, error) {
	values, err := ComputeOptions(s.Dataset, s.State, column)
	if err != nil {
		return nil, err
	}
	return toOptions(values), nil
}

// VisibleRows returns the rows satisfying the snapshot's full filter state.
func (s Snapshot) VisibleRows() []Row {
	return VisibleRows(s.Dataset, s.State)
}

// Available reports whether a dataset was loaded successfully.
func (s Snapshot) Available() bool {
	return s.LoadErr == nil && !s.Dataset.IsEmpty()
}

// Session owns one logical caller's filter state.
// Each transition computes the next Snapshot from the current one using the
// pure functions of this package and swaps it in under the lock, so readers
// see either the old Snapshot or the new one.
type Session struct {
	id string

	mu       sync.RWMutex
	current  Snapshot
	lastSeen time.Time
}

// NewSession creates a session with no dataset.
func NewSession(id string) *Session {
	return &Session{
		id: id,
		current: Snapshot{
			SessionID: id,
			Dataset:   EmptyDataset(),
			State:     FilterState{},
		},
		lastSeen: time.Now(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Snapshot returns the current snapshot.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// ApplyFilter applies a filter change and returns the resulting snapshot.
// On ErrUnknownFilter the session is unchanged.
func (s *Session) ApplyFilter(key string, values []string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()

	state, err := ApplyFilter(s.current.Dataset, s.current.State, key, values)
	if err != nil {
		return s.current, err
	}
	s.commit(s.current.DatasetID, s.current.Dataset, state, s.current.LoadErr)
	return s.current, nil
}

// ClearAll empties every selection.
func (s *Session) ClearAll() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()

	s.commit(s.current.DatasetID, s.current.Dataset, ClearAll(s.current.Dataset), s.current.LoadErr)
	return s.current
}

// SwitchDataset replaces the dataset and resets every selection.
// The previous dataset and its selections are discarded, even when column
// keys coincide.
//
// ds must be fully loaded. If loadErr is non-nil (or ds is nil) the session
// holds an empty dataset and records the error wrapped in
// ErrSourceUnavailable.
func (s *Session) SwitchDataset(datasetID string, ds *Dataset, loadErr error) Snapshot {
	if ds == nil {
		ds = EmptyDataset()
		if loadErr == nil {
			loadErr = fmt.Errorf("%w: %s: no data", ErrSourceUnavailable, datasetID)
		}
	}
	if loadErr != nil {
		ds = EmptyDataset()
		if !errors.Is(loadErr, ErrSourceUnavailable) {
			loadErr = fmt.Errorf("%w: %w", ErrSourceUnavailable, loadErr)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()

	s.commit(datasetID, ds, EmptyState(ds), loadErr)
	return s.current
}

// commit installs the next snapshot. Caller holds s.mu.
func (s *Session) commit(datasetID string, ds *Dataset, state FilterState, loadErr error) {
	s.current = Snapshot{
		SessionID: s.id,
		DatasetID: datasetID,
		Dataset:   ds,
		State:     state,
		Version:   s.current.Version + 1,
		LoadErr:   loadErr,
	}
}

// Touch marks the session as used now.
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

// idleSince returns when the session was last used.
func (s *Session) idleSince() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSeen
}
