package looker

import "context"

// Client is the remote analytics API surface the validator drives. It is
// treated as an external collaborator: this package owns only enough of its
// behavior (authentication, retries, wire format) to make the validator
// compile and testable against a fake; the full Looker API surface lives
// outside this module.
type Client interface {
	// CreateQuery registers a query over the given dimensions and returns its
	// id and share URL.
	CreateQuery(ctx context.Context, model, explore string, dimensions []string, fields []string) (*CreateQueryResponse, error)

	// RunQuery executes a query synchronously and returns its generated SQL.
	// Used only by the compile path, never by the scheduler.
	RunQuery(ctx context.Context, queryID int) (string, error)

	// CreateQueryTask starts an asynchronous execution of a previously
	// created query and returns its task id.
	CreateQueryTask(ctx context.Context, queryID int) (string, error)

	// GetQueryTaskMultiResults polls the status of a batch of task ids.
	GetQueryTaskMultiResults(ctx context.Context, taskIDs []string) (map[string]RawTaskResult, error)

	// CancelQueryTask asks the API to stop a running task. Best effort: the
	// server is not guaranteed to actually stop the query.
	CancelQueryTask(ctx context.Context, taskID string) error
}
