package validator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spectacles-go/validate/lookml"
	"github.com/spectacles-go/validate/looker"
)

func testProject(explores ...*lookml.Explore) *lookml.Project {
	return lookml.NewProject("test", explores...)
}

// TestSearchAllPass covers scenario 1: a single three-dimension explore whose
// one query comes back complete.
func TestSearchAllPass(t *testing.T) {
	explore := newTestExplore(t, 3)
	client := looker.NewFakeClient()
	client.Results["task-1"] = looker.RawTaskResult{Status: looker.StatusComplete}

	orch := NewOrchestrator(client, Config{})
	result, err := orch.Search(context.Background(), testProject(explore), ModeLocalize)
	require.NoError(t, err)
	assert.Empty(t, result.Profile)

	for _, d := range explore.Dimensions {
		assert.True(t, d.Queried())
		assert.Empty(t, d.Errors())
	}
}

// TestSearchFailFast covers scenario 2: a ten-dimension explore whose single
// query errors; in fail-fast mode the error attaches to the explore with no
// subdivision.
func TestSearchFailFast(t *testing.T) {
	explore := newTestExplore(t, 10)
	client := looker.NewFakeClient()
	client.Results["task-1"] = looker.RawTaskResult{
		Status: looker.StatusError,
		Data:   []byte(`{"errors": [{"message": "Syntax error", "sql_error_loc": {"line": 7}}]}`),
	}

	orch := NewOrchestrator(client, Config{})
	_, err := orch.Search(context.Background(), testProject(explore), ModeFailFast)
	require.NoError(t, err)

	require.Len(t, explore.Errors(), 1)
	assert.Equal(t, "Syntax error", explore.Errors()[0].Message)
	require.NotNil(t, explore.Errors()[0].LineNumber)
	assert.Equal(t, 7, *explore.Errors()[0].LineNumber)
	assert.Equal(t, "", explore.Errors()[0].Dimension)

	for _, d := range explore.Dimensions {
		assert.False(t, d.Queried())
	}
	// No subdivision: only the one top-level query task was ever created.
	assert.Len(t, client.CreateQueryTaskCalls, 1)
}

// TestSearchLocalize covers scenario 3: a four-dimension explore bisects down
// to the single offending dimension.
func TestSearchLocalize(t *testing.T) {
	explore := newTestExplore(t, 4)
	offending := explore.Dimensions[3]

	client := looker.NewFakeClient()
	// task-1: parent (4 dims) -> error, divides into [dim0,dim1] and [dim2,dim3]
	client.Results["task-1"] = looker.RawTaskResult{Status: looker.StatusError}
	// task-2: [dim0,dim1] -> complete
	client.Results["task-2"] = looker.RawTaskResult{Status: looker.StatusComplete}
	// task-3: [dim2,dim3] -> error, divides into [dim2] and [dim3]
	client.Results["task-3"] = looker.RawTaskResult{Status: looker.StatusError}
	// task-4: [dim2] -> complete
	client.Results["task-4"] = looker.RawTaskResult{Status: looker.StatusComplete}
	// task-5: [dim3] -> error, single dimension, attributed
	client.Results["task-5"] = looker.RawTaskResult{
		Status: looker.StatusError,
		Data:   []byte(`{"errors": [{"message": "Unknown column"}]}`),
	}

	orch := NewOrchestrator(client, Config{})
	_, err := orch.Search(context.Background(), testProject(explore), ModeLocalize)
	require.NoError(t, err)

	require.Len(t, offending.Errors(), 1)
	assert.Equal(t, "Unknown column", offending.Errors()[0].Message)
	assert.Equal(t, offending.Name(), offending.Errors()[0].Dimension)
	assert.True(t, offending.Queried())

	for _, d := range explore.Dimensions[:3] {
		assert.True(t, d.Queried())
		assert.Empty(t, d.Errors())
	}
	assert.Empty(t, explore.Errors())
}

// TestSearchChunksHugeExplore covers scenario 4: a 1500-dimension explore
// with chunk size 500 divides into exactly three fixed windows, not a binary
// bisection, because 750 > 500.
func TestSearchChunksHugeExplore(t *testing.T) {
	explore := newTestExplore(t, 1500)

	client := looker.NewFakeClient()
	client.Results["task-1"] = looker.RawTaskResult{Status: looker.StatusError}
	client.Results["task-2"] = looker.RawTaskResult{Status: looker.StatusComplete}
	client.Results["task-3"] = looker.RawTaskResult{Status: looker.StatusComplete}
	client.Results["task-4"] = looker.RawTaskResult{Status: looker.StatusComplete}

	orch := NewOrchestrator(client, Config{ChunkSize: 500})
	_, err := orch.Search(context.Background(), testProject(explore), ModeLocalize)
	require.NoError(t, err)

	assert.Len(t, client.CreateQueryTaskCalls, 4) // 1 parent + 3 chunked children
}

// TestSearchInterrupt covers scenario 5: cancelling mid-run after 20 tasks
// have launched yields InterruptedValidation with a matching cancel count.
func TestSearchInterrupt(t *testing.T) {
	const n = 20
	explores := make([]*lookml.Explore, n)
	for i := range explores {
		explores[i] = newTestExplore(t, 1)
	}

	client := looker.NewFakeClient()

	var wg sync.WaitGroup
	wg.Add(n)
	client.OnCreateQueryTask = func(string, int) { wg.Done() }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	orch := NewOrchestrator(client, Config{Concurrency: n})

	go func() {
		wg.Wait()
		// Give the launcher a moment to finish registering the 20th task
		// (registry.Put happens just after the hook fires) before the
		// interrupt snapshot is taken.
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := orch.Search(ctx, testProject(explores...), ModeLocalize)
	require.Error(t, err)

	var interrupted *InterruptedValidation
	require.ErrorAs(t, err, &interrupted)
	assert.Equal(t, n, interrupted.CancelCount)
	assert.Equal(t, "Attempted to cancel 20 running queries.", interrupted.Error())
	assert.Len(t, client.Cancelled, n)
}

// TestSearchMissingDimensionsFails exercises the explicit precondition that
// every seeded explore must have at least one dimension.
func TestSearchMissingDimensionsFails(t *testing.T) {
	explore := lookml.NewExplore("model", "empty-explore", nil)
	client := looker.NewFakeClient()

	orch := NewOrchestrator(client, Config{})
	_, err := orch.Search(context.Background(), testProject(explore), ModeLocalize)
	assert.Error(t, err)
}

func TestCompileSQL(t *testing.T) {
	explore := newTestExplore(t, 2)
	client := looker.NewFakeClient()

	orch := NewOrchestrator(client, Config{})
	sql, err := orch.CompileSQL(context.Background(), explore)
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1", sql)
}

func TestCompileSQLMissingDimensions(t *testing.T) {
	explore := lookml.NewExplore("model", "empty-explore", nil)
	client := looker.NewFakeClient()

	orch := NewOrchestrator(client, Config{})
	_, err := orch.CompileSQL(context.Background(), explore)
	assert.Error(t, err)
}
