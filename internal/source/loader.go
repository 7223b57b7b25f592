package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/JonMunkholm/facetview/internal/core"
	"github.com/JonMunkholm/facetview/internal/logging"
)

// DefaultLoadTimeout bounds a single Source.Load call.
const DefaultLoadTimeout = 2 * time.Minute

// LoaderConfig configures a Loader.
type LoaderConfig struct {
	MaxConcurrent int           // Parallel loads (default: 4)
	MaxWait       time.Duration // Wait for a free slot (default: 30s)
	Timeout       time.Duration // Per-load timeout (default: 2m)
	Cache         bool          // Keep successfully loaded datasets in memory
}

// Loader resolves dataset IDs to Datasets through a Registry.
//
// Failures are never retried. Every failure other than an unknown ID is
// wrapped in core.ErrSourceUnavailable and returned together with
// core.EmptyDataset, so the caller always has a Dataset to show.
type Loader struct {
	registry *Registry
	limiter  *LoadLimiter
	timeout  time.Duration
	cache    bool

	mu     sync.RWMutex
	loaded map[string]*core.Dataset
}

// NewLoader creates a loader over registry.
func NewLoader(registry *Registry, cfg LoaderConfig) *Loader {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultLoadTimeout
	}
	return &Loader{
		registry: registry,
		limiter:  NewLoadLimiter(cfg.MaxConcurrent, cfg.MaxWait),
		timeout:  timeout,
		cache:    cfg.Cache,
		loaded:   make(map[string]*core.Dataset),
	}
}

// Registry returns the underlying registry.
func (l *Loader) Registry() *Registry {
	return l.registry
}

// Limiter returns the load limiter.
func (l *Loader) Limiter() *LoadLimiter {
	return l.limiter
}

// Load returns the dataset for id.
//
// Returns core.ErrUnknownDataset (with a nil Dataset) if id is not
// registered. Any other failure returns core.EmptyDataset and an error
// matching core.ErrSourceUnavailable.
func (l *Loader) Load(ctx context.Context, id string) (*core.Dataset, error) {
	src, err := l.registry.Get(id)
	if err != nil {
		return nil, err
	}

	if ds, ok := l.cached(id); ok {
		return ds, nil
	}

	log := logging.FromContext(ctx).With("dataset", id, "kind", src.Kind())

	if err := l.limiter.Acquire(ctx); err != nil {
		log.Warn("dataset load rejected", "error", err)
		return core.EmptyDataset(), unavailable(id, err)
	}
	defer l.limiter.Release()

	loadCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	start := time.Now()
	ds, err := src.Load(loadCtx)
	if err == nil && ds == nil {
		err = errors.New("source returned no dataset")
	}
	if err != nil {
		log.Error("dataset load failed",
			"error", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return core.EmptyDataset(), unavailable(id, err)
	}

	log.Info("dataset loaded",
		"rows", ds.Len(),
		"columns", len(ds.Columns()),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if l.cache {
		l.mu.Lock()
		l.loaded[id] = ds
		l.mu.Unlock()
	}
	return ds, nil
}

func (l *Loader) cached(id string) (*core.Dataset, bool) {
	if !l.cache {
		return nil, false
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	ds, ok := l.loaded[id]
	return ds, ok
}

// Invalidate drops the cached dataset for id so the next Load reads the
// source again.
func (l *Loader) Invalidate(id string) {
	l.mu.Lock()
	delete(l.loaded, id)
	l.mu.Unlock()
}

// Preload loads every registered dataset and logs failures. It returns the
// number of datasets loaded successfully.
func (l *Loader) Preload(ctx context.Context) int {
	ok := 0
	for _, id := range l.registry.IDs() {
		if _, err := l.Load(ctx, id); err != nil {
			slog.Warn("dataset preload failed", "dataset", id, "error", err)
			continue
		}
		ok++
	}
	return ok
}

// Drain waits for in-flight loads to finish.
func (l *Loader) Drain(ctx context.Context) error {
	return l.limiter.WaitForDrain(ctx)
}

func unavailable(id string, err error) error {
	return fmt.Errorf("%w: %s: %w", core.ErrSourceUnavailable, id, err)
}
