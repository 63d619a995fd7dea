package core

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTooManyRuns is returned when every run slot stays occupied for the
// full wait window. Clients should retry after a short delay.
var ErrTooManyRuns = errors.New("too many concurrent allocation runs, please try again later")

const (
	// DefaultMaxConcurrentRuns caps how many allocation runs execute at once.
	DefaultMaxConcurrentRuns = 4

	// DefaultRunWait is how long a request waits for a free slot before
	// giving up.
	DefaultRunWait = 10 * time.Second
)

// RunLimiter bounds concurrent allocation runs with a semaphore. Runs are
// short but hold several tables in memory, so a burst of uploads must queue
// rather than exhaust the process. It also backs graceful shutdown:
// WaitForDrain blocks until in-flight runs finish.
type RunLimiter struct {
	semaphore chan struct{}
	maxWait   time.Duration

	mu     sync.RWMutex
	active int
}

// NewRunLimiter creates a limiter with the given concurrency cap and slot
// wait. Non-positive values fall back to the defaults.
func NewRunLimiter(maxConcurrent int, maxWait time.Duration) *RunLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentRuns
	}
	if maxWait <= 0 {
		maxWait = DefaultRunWait
	}
	return &RunLimiter{
		semaphore: make(chan struct{}, maxConcurrent),
		maxWait:   maxWait,
	}
}

// Acquire blocks until a run slot is free, the wait window elapses, or the
// context is canceled. On success the caller must Release.
func (rl *RunLimiter) Acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, rl.maxWait)
	defer cancel()

	select {
	case rl.semaphore <- struct{}{}:
		rl.mu.Lock()
		rl.active++
		rl.mu.Unlock()
		return nil
	case <-waitCtx.Done():
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrTooManyRuns
	}
}

// Release frees a run slot acquired with Acquire.
func (rl *RunLimiter) Release() {
	select {
	case <-rl.semaphore:
		rl.mu.Lock()
		if rl.active > 0 {
			rl.active--
		}
		rl.mu.Unlock()
	default:
		// Release without a matching Acquire; nothing to free.
	}
}

// ActiveCount returns the number of runs currently executing.
func (rl *RunLimiter) ActiveCount() int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()
	return rl.active
}

// Available returns the number of free run slots.
func (rl *RunLimiter) Available() int {
	return cap(rl.semaphore) - len(rl.semaphore)
}

// MaxConcurrent returns the concurrency cap.
func (rl *RunLimiter) MaxConcurrent() int {
	return cap(rl.semaphore)
}

// WaitForDrain blocks until no runs are executing or the context is
// canceled. Used during shutdown to let in-flight runs finish.
func (rl *RunLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		if rl.ActiveCount() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RunLimiterStatus is a point-in-time snapshot of the limiter.
type RunLimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

// Status returns the current limiter state.
func (rl *RunLimiter) Status() RunLimiterStatus {
	return RunLimiterStatus{
		Active:        rl.ActiveCount(),
		Available:     rl.Available(),
		MaxConcurrent: rl.MaxConcurrent(),
	}
}
