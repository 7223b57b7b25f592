package source

// limiter.go bounds how many datasets are read at once.
//
// Loading reads a whole file or table into memory, so parallel switches to
// large datasets are capped by a weighted semaphore. A load waits up to
// maxWait for a slot before failing with ErrTooManyLoads. Draining acquires
// every slot, so it returns once in-flight loads finish and admits no new
// ones while it waits.

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
)

// ErrTooManyLoads is returned when every load slot stays occupied for the
// whole wait timeout.
var ErrTooManyLoads = errors.New("too many concurrent loads, please try again later")

// DefaultMaxConcurrentLoads is the default limit for parallel loads.
const DefaultMaxConcurrentLoads = 4

// DefaultMaxWaitTime is how long to wait for a slot before rejecting.
const DefaultMaxWaitTime = 30 * time.Second

// LoadLimiter caps concurrent dataset loads and reports how many are running.
type LoadLimiter struct {
	sem     *semaphore.Weighted
	size    int64
	maxWait time.Duration
	active  atomic.Int64
}

// NewLoadLimiter creates a limiter allowing maxConcurrent loads at once.
// Non-positive arguments use the defaults.
func NewLoadLimiter(maxConcurrent int, maxWait time.Duration) *LoadLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentLoads
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}

	size := int64(maxConcurrent)
	return &LoadLimiter{
		sem:     semaphore.NewWeighted(size),
		size:    size,
		maxWait: maxWait,
	}
}

// Acquire waits for a load slot.
// Returns ctx.Err() if ctx ends first, ErrTooManyLoads if maxWait expires.
// The caller must call Release when the load completes.
func (l *LoadLimiter) Acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	if err := l.sem.Acquire(waitCtx, 1); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrTooManyLoads
	}
	l.active.Add(1)
	return nil
}

// TryAcquire takes a slot without blocking and reports whether it did.
func (l *LoadLimiter) TryAcquire() bool {
	if !l.sem.TryAcquire(1) {
		return false
	}
	l.active.Add(1)
	return true
}

// Release frees a slot taken by Acquire or TryAcquire.
func (l *LoadLimiter) Release() {
	l.active.Add(-1)
	l.sem.Release(1)
}

// ActiveCount returns the number of loads in progress.
func (l *LoadLimiter) ActiveCount() int {
	return int(l.active.Load())
}

func (l *LoadLimiter) MaxConcurrent() int {
	return int(l.size)
}

// Available returns the number of free slots.
func (l *LoadLimiter) Available() int {
	return int(l.size - l.active.Load())
}

// WaitForDrain blocks until no load is active or ctx ends. Loads arriving
// while it waits queue behind it.
func (l *LoadLimiter) WaitForDrain(ctx context.Context) error {
	if err := l.sem.Acquire(ctx, l.size); err != nil {
		return err
	}
	l.sem.Release(l.size)
	return nil
}

// LimiterStatus is a point-in-time view of a LoadLimiter.
type LimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

// Status returns the current limiter state for health checks.
func (l *LoadLimiter) Status() LimiterStatus {
	active := int(l.active.Load())
	return LimiterStatus{
		Active:        active,
		Available:     int(l.size) - active,
		MaxConcurrent: int(l.size),
	}
}
