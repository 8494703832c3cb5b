package validator

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// DefaultConcurrency is the default number of simultaneous query tasks.
const DefaultConcurrency = 10

// ConcurrencySlot is a counting semaphore bounding the number of outstanding
// query tasks. The launcher acquires one slot before creating a query task;
// the poller releases it once that task reaches a terminal status. Slots are
// not tied to a goroutine's lifetime, so a weighted semaphore (rather than a
// bounded worker pool) is the right primitive: acquire and release happen on
// different goroutines entirely.
type ConcurrencySlot struct {
	sem      *semaphore.Weighted
	capacity int64
}

// NewConcurrencySlot builds a slot with the given capacity, defaulting to
// DefaultConcurrency when capacity <= 0.
func NewConcurrencySlot(capacity int) *ConcurrencySlot {
	if capacity <= 0 {
		capacity = DefaultConcurrency
	}
	return &ConcurrencySlot{sem: semaphore.NewWeighted(int64(capacity)), capacity: int64(capacity)}
}

// Acquire blocks until a slot is available or ctx is cancelled.
func (s *ConcurrencySlot) Acquire(ctx context.Context) error {
	return s.sem.Acquire(ctx, 1)
}

// Release frees one slot.
func (s *ConcurrencySlot) Release() {
	s.sem.Release(1)
}

// Drained reports whether every slot has been released, by attempting to
// acquire the entire capacity without blocking. Used by tests to check the
// "fully released" invariant after a run completes.
func (s *ConcurrencySlot) Drained() bool {
	if !s.sem.TryAcquire(s.capacity) {
		return false
	}
	s.sem.Release(s.capacity)
	return true
}
