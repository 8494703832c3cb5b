package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spectacles-go/validate/looker"
)

func TestParseQueryResultComplete(t *testing.T) {
	raw := looker.RawTaskResult{
		Status: looker.StatusComplete,
		Data:   []byte(`{"runtime": 1.5, "sql": "select 1"}`),
	}
	result, err := ParseQueryResult("task-1", raw)
	require.NoError(t, err)
	assert.Equal(t, looker.StatusComplete, result.Status)
	require.NotNil(t, result.Runtime)
	assert.Equal(t, 1.5, *result.Runtime)
	assert.Empty(t, result.Errors)
}

func TestParseQueryResultErrorObject(t *testing.T) {
	raw := looker.RawTaskResult{
		Status: looker.StatusError,
		Data:   []byte(`{"errors": [{"message": "Syntax error", "sql_error_loc": {"line": 7}}]}`),
	}
	result, err := ParseQueryResult("task-1", raw)
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Syntax error", result.Errors[0].Message)
	require.NotNil(t, result.Errors[0].LineNumber)
	assert.Equal(t, 7, *result.Errors[0].LineNumber)
}

func TestParseQueryResultErrorListShape(t *testing.T) {
	raw := looker.RawTaskResult{
		Status: looker.StatusError,
		Data:   []byte(`["Derived table expired"]`),
	}
	result, err := ParseQueryResult("task-1", raw)
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Derived table expired", result.Errors[0].Message)
}

func TestParseQueryResultUnexpectedStatus(t *testing.T) {
	raw := looker.RawTaskResult{Status: "bogus"}
	_, err := ParseQueryResult("task-1", raw)
	assert.Error(t, err)
}

func TestParseQueryResultUnexpectedDataShape(t *testing.T) {
	raw := looker.RawTaskResult{
		Status: looker.StatusError,
		Data:   []byte(`42`),
	}
	_, err := ParseQueryResult("task-1", raw)
	assert.Error(t, err)
}

func TestJoinMessageDropsEmptyDetails(t *testing.T) {
	assert.Equal(t, "msg", joinMessage("msg", ""))
	assert.Equal(t, "details", joinMessage("", "details"))
	assert.Equal(t, "msg details", joinMessage("msg", "details"))
}

func TestFilterBenignDropsExactNotices(t *testing.T) {
	reports := []ErrorReport{
		{Message: "Note: This query contains derived tables with conditional SQL for Development Mode. Query results in Production Mode might be different."},
		{Message: "Real syntax error"},
	}
	filtered := filterBenign(reports)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Real syntax error", filtered[0].Message)
}

func TestFilterBenignIsIdempotent(t *testing.T) {
	reports := []ErrorReport{
		{Message: "Note: This query contains derived tables with Development Mode filters. Query results in Production Mode might be different."},
		{Message: "Real syntax error"},
	}
	once := filterBenign(reports)
	twice := filterBenign(once)
	assert.Equal(t, once, twice)
}

func TestParseQueryResultAllBenignStillErrored(t *testing.T) {
	raw := looker.RawTaskResult{
		Status: looker.StatusError,
		Data: []byte(`{"errors": [{"message": "Note: This query contains derived tables with conditional SQL for Development Mode. Query results in Production Mode might be different."}]}`),
	}
	result, err := ParseQueryResult("task-1", raw)
	require.NoError(t, err)
	assert.Empty(t, result.Errors)
	assert.Equal(t, looker.StatusError, result.Status)
}
