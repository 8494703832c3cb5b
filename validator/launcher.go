package validator

import (
	"context"

	"github.com/spectacles-go/validate/looker"
)

// Launcher drains the run queue, creates the remote query and query task for
// each Query, and hands the resulting task id to the poller. It owns writes
// to the task registry.
type Launcher struct {
	Client   looker.Client
	RunQueue *joinQueue[*Query]
	PollQ    *joinQueue[string]
	Slot     *ConcurrencySlot
	Registry *TaskRegistry
}

// Run processes queries until a nil sentinel is received on the run queue or
// ctx is cancelled. On any error it marks every remaining run-queue item
// done before returning, so the orchestrator's Join can't deadlock waiting
// on work the launcher will never finish.
func (l *Launcher) Run(ctx context.Context) error {
	for {
		query, ok := l.RunQueue.Get(ctx)
		if !ok {
			return ctx.Err()
		}
		if query == nil {
			return nil
		}

		if err := l.launch(ctx, query); err != nil {
			l.RunQueue.Done() // the item we just failed to launch
			l.RunQueue.ForceDrain()
			return err
		}
	}
}

func (l *Launcher) launch(ctx context.Context, query *Query) error {
	if err := l.Slot.Acquire(ctx); err != nil {
		return err
	}

	if err := query.Create(ctx, l.Client); err != nil {
		l.Slot.Release()
		return err
	}

	taskID, err := l.Client.CreateQueryTask(ctx, query.QueryID)
	if err != nil {
		l.Slot.Release()
		return APIError("create-query-task", err)
	}

	l.Registry.Put(taskID, query)
	l.PollQ.Put(taskID)
	return nil
}
