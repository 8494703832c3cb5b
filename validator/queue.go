package validator

import (
	"context"
	"sync"
	"sync/atomic"
)

// joinQueue is an unbounded FIFO paired with a join counter, modeling the
// run queue and poll queue the scheduler is built on. Put enqueues one unit
// of real work and bumps the counter; Done marks one unit of that work fully
// processed. Join blocks until the counter returns to zero - the "drain
// complete" signal the orchestrator waits on to know a search has finished.
// Unlike a channel, Put never blocks: the poller needs to re-enqueue
// in-flight task ids onto the very queue it is draining, which would
// deadlock against an unbuffered handoff.
//
// A sentinel can be pushed with PutSentinel to signal shutdown without
// counting toward the join.
type joinQueue[T any] struct {
	mu    sync.Mutex
	cond  *sync.Cond
	items []T

	wg          sync.WaitGroup
	outstanding atomic.Int64
}

func newJoinQueue[T any](ctx context.Context) *joinQueue[T] {
	q := &joinQueue[T]{}
	q.cond = sync.NewCond(&q.mu)

	// Wake any blocked Get when the run is cancelled.
	go func() {
		<-ctx.Done()
		q.mu.Lock()
		q.cond.Broadcast()
		q.mu.Unlock()
	}()

	return q
}

// Put enqueues item as one unit of work that must eventually be matched with
// a Done call.
func (q *joinQueue[T]) Put(item T) {
	q.outstanding.Add(1)
	q.wg.Add(1)
	q.push(item)
}

// PutSentinel enqueues item without counting it toward the join.
func (q *joinQueue[T]) PutSentinel(item T) {
	q.push(item)
}

func (q *joinQueue[T]) push(item T) {
	q.mu.Lock()
	q.items = append(q.items, item)
	q.cond.Signal()
	q.mu.Unlock()
}

// Get blocks until an item is available or ctx is cancelled, in which case
// ok is false.
func (q *joinQueue[T]) Get(ctx context.Context) (item T, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 {
		if ctx.Err() != nil {
			var zero T
			return zero, false
		}
		q.cond.Wait()
	}

	item = q.items[0]
	q.items = q.items[1:]
	return item, true
}

// TryGet returns immediately: the next item and true if one is queued, or
// the zero value and false if the queue is currently empty.
func (q *joinQueue[T]) TryGet() (item T, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		var zero T
		return zero, false
	}
	item = q.items[0]
	q.items = q.items[1:]
	return item, true
}

// Done marks one unit of work, previously added via Put, as fully processed.
func (q *joinQueue[T]) Done() {
	q.wg.Done()
	q.outstanding.Add(-1)
}

// Join waits for every Put'd item to be matched with a Done call, or for ctx
// to be cancelled.
func (q *joinQueue[T]) Join(ctx context.Context) error {
	waitGroupDone := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(waitGroupDone)
	}()

	select {
	case <-waitGroupDone:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ForceDrain marks every currently-outstanding item as done immediately,
// unblocking any pending Join. Used when a worker fails fatally and the
// remaining queue items can never be processed normally.
func (q *joinQueue[T]) ForceDrain() {
	n := q.outstanding.Swap(0)
	for i := int64(0); i < n; i++ {
		q.wg.Done()
	}
}
