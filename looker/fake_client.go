package looker

import (
	"context"
	"fmt"
	"sync"
)

// FakeClient is an in-memory Client used by tests across the module. It
// lets tests script CreateQuery/CreateQueryTask responses and queue up
// canned results for GetQueryTaskMultiResults.
type FakeClient struct {
	mu sync.Mutex

	nextQueryID int
	nextTaskID  int

	// CreateQueryErr, if set, is returned by every CreateQuery call.
	CreateQueryErr error
	// CreateQueryTaskErr, if set, is returned by every CreateQueryTask call.
	CreateQueryTaskErr error

	// Results maps task id to the result that should be returned the next
	// time it is polled. PollResponder, if set, takes precedence.
	Results map[string]RawTaskResult
	// PollResponder, if set, is called instead of consulting Results.
	PollResponder func(taskIDs []string) (map[string]RawTaskResult, error)

	Cancelled []string

	CreateQueryCalls     []string // "model.explore" per call, in order
	CreateQueryTaskCalls []int

	// OnCreateQueryTask, if set, is invoked synchronously after a successful
	// CreateQueryTask call. Tests use it to observe progress (e.g. counting
	// down a WaitGroup) without a race on CreateQueryTaskCalls.
	OnCreateQueryTask func(taskID string, queryID int)
}

func NewFakeClient() *FakeClient {
	return &FakeClient{Results: map[string]RawTaskResult{}}
}

var _ Client = (*FakeClient)(nil)

func (f *FakeClient) CreateQuery(_ context.Context, model, explore string, _ []string, _ []string) (*CreateQueryResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CreateQueryCalls = append(f.CreateQueryCalls, model+"."+explore)
	if f.CreateQueryErr != nil {
		return nil, f.CreateQueryErr
	}
	f.nextQueryID++
	id := f.nextQueryID
	return &CreateQueryResponse{ID: id, ShareURL: fmt.Sprintf("https://looker.example/x/%d", id)}, nil
}

func (f *FakeClient) RunQuery(context.Context, int) (string, error) {
	return "SELECT 1", nil
}

func (f *FakeClient) CreateQueryTask(_ context.Context, queryID int) (string, error) {
	f.mu.Lock()
	f.CreateQueryTaskCalls = append(f.CreateQueryTaskCalls, queryID)
	if f.CreateQueryTaskErr != nil {
		f.mu.Unlock()
		return "", f.CreateQueryTaskErr
	}
	f.nextTaskID++
	taskID := fmt.Sprintf("task-%d", f.nextTaskID)
	hook := f.OnCreateQueryTask
	f.mu.Unlock()

	if hook != nil {
		hook(taskID, queryID)
	}
	return taskID, nil
}

func (f *FakeClient) GetQueryTaskMultiResults(_ context.Context, taskIDs []string) (map[string]RawTaskResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PollResponder != nil {
		return f.PollResponder(taskIDs)
	}
	out := make(map[string]RawTaskResult, len(taskIDs))
	for _, id := range taskIDs {
		if r, ok := f.Results[id]; ok {
			out[id] = r
		}
	}
	return out, nil
}

func (f *FakeClient) CancelQueryTask(_ context.Context, taskID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Cancelled = append(f.Cancelled, taskID)
	return nil
}
