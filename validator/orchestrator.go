package validator

import (
	"context"
	"errors"
	"sort"

	"github.com/sourcegraph/conc/pool"
	"github.com/spectacles-go/validate/lookml"
	"github.com/spectacles-go/validate/looker"
)

// Config holds the tunables recognized when constructing an Orchestrator.
type Config struct {
	// Concurrency is the semaphore capacity bounding outstanding query
	// tasks. Defaults to DefaultConcurrency.
	Concurrency int
	// RuntimeThreshold is the profiler inclusion floor, in seconds.
	// Defaults to DefaultRuntimeThreshold.
	RuntimeThreshold float64
	// ChunkSize governs subdivision: the window size used once bisection
	// would otherwise produce halves larger than this. Defaults to
	// DefaultChunkSize.
	ChunkSize int
}

// DefaultRuntimeThreshold is the default profiler inclusion floor, in
// seconds.
const DefaultRuntimeThreshold = 5

// Orchestrator seeds the run queue with one Query per explore, drives the
// launcher/poller pipeline to completion, and handles interrupt-driven
// cancellation.
type Orchestrator struct {
	Client looker.Client
	Config Config
}

// NewOrchestrator builds an Orchestrator with defaults applied to any
// unset Config fields.
func NewOrchestrator(client looker.Client, cfg Config) *Orchestrator {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.RuntimeThreshold <= 0 {
		cfg.RuntimeThreshold = DefaultRuntimeThreshold
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	return &Orchestrator{Client: client, Config: cfg}
}

// Result is returned by Search on success.
type Result struct {
	Profile []ProfilerRow
}

// Search runs and validates the SQL for every dimension of every explore in
// project. mode selects fail-fast vs localize resolution. If ctx is
// cancelled mid-run, Search drains outstanding task ids, best-effort cancels
// each one, and returns an *InterruptedValidation error carrying the cancel
// count.
func (o *Orchestrator) Search(ctx context.Context, project *lookml.Project, mode Mode) (*Result, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	slot := NewConcurrencySlot(o.Config.Concurrency)
	registry := NewTaskRegistry()
	runQueue := newJoinQueue[*Query](runCtx)
	pollQ := newJoinQueue[string](runCtx)

	launcher := &Launcher{Client: o.Client, RunQueue: runQueue, PollQ: pollQ, Slot: slot, Registry: registry}
	poller := &Poller{
		Client:           o.Client,
		RunQueue:         runQueue,
		PollQ:            pollQ,
		Slot:             slot,
		Registry:         registry,
		Mode:             mode,
		RuntimeThreshold: o.Config.RuntimeThreshold,
	}

	launcherErr := make(chan error, 1)
	pollerErr := make(chan error, 1)
	go func() { launcherErr <- launcher.Run(runCtx) }()
	go func() { pollerErr <- poller.Run(runCtx) }()

	for _, explore := range project.Explores {
		if len(explore.Dimensions) == 0 {
			cancel()
			<-launcherErr
			<-pollerErr
			return nil, MissingDimensions(explore.Name())
		}
		query, err := NewQuery(explore, explore.Dimensions, o.Config.ChunkSize)
		if err != nil {
			cancel()
			<-launcherErr
			<-pollerErr
			return nil, err
		}
		runQueue.Put(query)
	}

	joinErr := make(chan error, 1)
	go func() {
		if err := runQueue.Join(runCtx); err != nil {
			joinErr <- err
			return
		}
		joinErr <- pollQ.Join(runCtx)
	}()

	select {
	case err := <-joinErr:
		if err != nil {
			cancel()
			<-launcherErr
			<-pollerErr
			return nil, err
		}
		// The pipeline drained normally; signal the workers to stop and
		// collect any error either one hit in its final iteration.
		cancel()
		lErr, pErr := <-launcherErr, <-pollerErr
		if err := firstNonCancel(lErr, pErr); err != nil {
			return nil, err
		}
		return &Result{Profile: sortedByRuntime(poller.Profiled())}, nil

	case <-ctx.Done():
		outstanding := registry.Outstanding()
		p := pool.New().WithMaxGoroutines(o.Config.Concurrency)
		for _, taskID := range outstanding {
			taskID := taskID
			p.Go(func() { _ = o.Client.CancelQueryTask(context.Background(), taskID) })
		}
		p.Wait()
		cancel()
		<-launcherErr
		<-pollerErr
		return nil, &InterruptedValidation{CancelCount: len(outstanding)}
	}
}

// CompileSQL creates a single remote query over all of an explore's
// dimensions and runs it synchronously to recover the generated SQL. This
// bypasses the task/poll pipeline entirely.
func (o *Orchestrator) CompileSQL(ctx context.Context, explore *lookml.Explore) (string, error) {
	if len(explore.Dimensions) == 0 {
		return "", MissingDimensions(explore.Name())
	}
	query, err := NewQuery(explore, explore.Dimensions, o.Config.ChunkSize)
	if err != nil {
		return "", err
	}
	if err := query.Create(ctx, o.Client); err != nil {
		return "", err
	}
	sql, err := o.Client.RunQuery(ctx, query.QueryID)
	if err != nil {
		return "", APIError("run-query", err)
	}
	return sql, nil
}

func firstNonCancel(errs ...error) error {
	for _, err := range errs {
		if err == nil || errors.Is(err, context.Canceled) {
			continue
		}
		return err
	}
	return nil
}

func sortedByRuntime(rows []ProfilerRow) []ProfilerRow {
	sorted := make([]ProfilerRow, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Runtime > sorted[j].Runtime })
	return sorted
}
