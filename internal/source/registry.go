package source

import (
	"fmt"
	"sync"

	"github.com/JonMunkholm/facetview/internal/core"
)

// Registry is an ordered set of sources keyed by ID.
type Registry struct {
	mu      sync.RWMutex
	sources map[string]Source
	order   []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sources: make(map[string]Source)}
}

// Register adds a source. Returns an error if the ID is empty or already
// registered.
func (r *Registry) Register(s Source) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := s.ID()
	if id == "" {
		return fmt.Errorf("source has an empty id")
	}
	if _, exists := r.sources[id]; exists {
		return fmt.Errorf("dataset already registered: %s", id)
	}

	r.sources[id] = s
	r.order = append(r.order, id)
	return nil
}

// Get returns the source for id, or core.ErrUnknownDataset.
func (r *Registry) Get(id string) (Source, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sources[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownDataset, id)
	}
	return s, nil
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sources[id]
	return ok
}

// All returns every source in registration order.
func (r *Registry) All() []Source {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Source, len(r.order))
	for i, id := range r.order {
		result[i] = r.sources[id]
	}
	return result
}

// IDs returns the registered IDs in registration order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

// Len returns the number of registered sources.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
