package validator

import (
	"context"
	"time"

	"github.com/spectacles-go/validate/looker"
)

// QueryTaskLimit caps how many task ids are polled in a single batch, to
// bound the API payload size.
const QueryTaskLimit = 250

// PollInterval is the cadence of both the "nothing to poll" backoff and the
// steady-state delay between poll cycles.
const PollInterval = 500 * time.Millisecond

// Poller batches outstanding task ids, polls the remote API, and dispatches
// terminal results to the resolution policy. It owns reads from the task
// registry and every mutation of lookml References.
type Poller struct {
	Client            looker.Client
	RunQueue          *joinQueue[*Query]
	PollQ             *joinQueue[string]
	Slot              *ConcurrencySlot
	Registry          *TaskRegistry
	Mode              Mode
	RuntimeThreshold  float64

	profiled []ProfilerRow
}

// Profiled returns every ProfilerRow captured so far, in the order observed.
func (p *Poller) Profiled() []ProfilerRow {
	return p.profiled
}

// Run drains the poll queue in batches until ctx is cancelled. On any
// unexpected error it pushes a nil sentinel onto the run queue so the
// launcher exits (it does not wait for the launcher to consume it),
// force-drains both the run queue and the poll queue so the orchestrator's
// Join can't hang, and returns the error.
func (p *Poller) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		batch := p.drainBatch(ctx)
		if len(batch) == 0 {
			select {
			case <-time.After(PollInterval):
				continue
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := p.pollBatch(ctx, batch); err != nil {
			p.RunQueue.PutSentinel(nil)
			p.RunQueue.ForceDrain()
			p.PollQ.ForceDrain()
			return err
		}

		for range batch {
			p.PollQ.Done()
		}

		select {
		case <-time.After(PollInterval):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// drainBatch pulls up to QueryTaskLimit task ids off the poll queue without
// blocking.
func (p *Poller) drainBatch(ctx context.Context) []string {
	var batch []string
	for len(batch) < QueryTaskLimit {
		id, ok := p.PollQ.TryGet()
		if !ok {
			break
		}
		batch = append(batch, id)
	}
	return batch
}

func (p *Poller) pollBatch(ctx context.Context, taskIDs []string) error {
	raw, err := p.Client.GetQueryTaskMultiResults(ctx, taskIDs)
	if err != nil {
		return APIError("get-query-task-multi-results", err)
	}

	for _, taskID := range taskIDs {
		rawResult, ok := raw[taskID]
		if !ok {
			// Not yet reflected in this batch; leave it in flight for the
			// next poll cycle.
			p.PollQ.Put(taskID)
			continue
		}

		result, err := ParseQueryResult(taskID, rawResult)
		if err != nil {
			return err
		}

		if err := p.dispatch(result); err != nil {
			return err
		}
	}
	return nil
}

func (p *Poller) dispatch(result *QueryResult) error {
	switch result.Status {
	case looker.StatusComplete:
		query, ok := p.Registry.Pop(result.TaskID)
		if !ok {
			return nil
		}
		p.Slot.Release()
		query.Errored = ErrorFalse
		for _, d := range query.Dimensions {
			d.SetQueried(true)
		}
		p.recordProfile(query, result)
		p.RunQueue.Done()
		return nil

	case looker.StatusError:
		query, ok := p.Registry.Pop(result.TaskID)
		if !ok {
			return nil
		}
		p.Slot.Release()
		query.Errored = ErrorTrue
		p.recordProfile(query, result)

		children, err := Resolve(p.Mode, query, result)
		if err != nil {
			return err
		}
		for _, child := range children {
			p.RunQueue.Put(child)
		}
		p.RunQueue.Done()
		return nil

	default: // running, added, or any other non-terminal status
		p.PollQ.Put(result.TaskID)
		return nil
	}
}

func (p *Poller) recordProfile(query *Query, result *QueryResult) {
	if result.Runtime == nil || *result.Runtime < p.RuntimeThreshold {
		return
	}
	p.profiled = append(p.profiled, ProfilerRow{
		Reference: query.Reference(),
		Runtime:   *result.Runtime,
		Query:     query,
	})
}
