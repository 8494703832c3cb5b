package validator

import (
	"encoding/json"
	"fmt"

	"github.com/spectacles-go/validate/lookml"
	"github.com/spectacles-go/validate/looker"
)

// ErrorReport is a single filtered, structured error extracted from a raw
// task result, ready to be attributed to a Reference.
type ErrorReport struct {
	Message    string
	LineNumber *int
	SQL        string
}

// QueryResult is the parsed, immutable outcome for one query task.
type QueryResult struct {
	TaskID  string
	Status  string
	Runtime *float64
	Errors  []ErrorReport
}

// benignMessages are development-mode notices the analytics API attaches to
// otherwise-successful-looking error payloads; they carry no SQL defect and
// must never be surfaced as a validation failure.
var benignMessages = map[string]bool{
	"Note: This query contains derived tables with conditional SQL for Development Mode. " +
		"Query results in Production Mode might be different.": true,
	"Note: This query contains derived tables with Development Mode filters. " +
		"Query results in Production Mode might be different.": true,
}

// ParseQueryResult turns a raw task result into a QueryResult, validating the
// status and, for errored tasks, extracting and filtering structured error
// detail. It returns an UnexpectedStatus or UnexpectedResultFormat error for
// shapes the validator doesn't understand.
func ParseQueryResult(taskID string, raw looker.RawTaskResult) (*QueryResult, error) {
	switch raw.Status {
	case looker.StatusComplete, looker.StatusError, looker.StatusRunning, looker.StatusAdded, looker.StatusExpired:
	default:
		return nil, UnexpectedStatus(raw.Status)
	}

	result := &QueryResult{TaskID: taskID, Status: raw.Status}

	if len(raw.Data) == 0 {
		return result, nil
	}

	reports, runtime, err := parseData(raw.Data)
	if err != nil {
		return nil, UnexpectedResultFormat(fmt.Sprintf("task %s: %s", taskID, err))
	}
	result.Runtime = runtime

	if raw.Status == looker.StatusError {
		result.Errors = filterBenign(reports)
	}
	return result, nil
}

// parseData handles the polymorphic Data field: a JSON object carrying
// runtime/errors/error detail, or a bare list whose first element is a plain
// message string.
func parseData(raw json.RawMessage) ([]ErrorReport, *float64, error) {
	var probe any
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, nil, fmt.Errorf("decoding data: %w", err)
	}

	switch v := probe.(type) {
	case map[string]any:
		var obj looker.RawObjectData
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, nil, fmt.Errorf("decoding object data: %w", err)
		}
		rawErrors := obj.Errors
		if rawErrors == nil && obj.Error != nil {
			rawErrors = []looker.RawError{*obj.Error}
		}
		var sql string
		if obj.SQL != nil {
			sql = *obj.SQL
		}
		reports := make([]ErrorReport, 0, len(rawErrors))
		for _, e := range rawErrors {
			reports = append(reports, ErrorReport{
				Message:    joinMessage(e.Message, e.MessageDetails),
				LineNumber: lineFromLoc(e.SQLErrorLoc),
				SQL:        sql,
			})
		}
		return reports, obj.Runtime, nil
	case []any:
		if len(v) == 0 {
			return nil, nil, nil
		}
		message, ok := v[0].(string)
		if !ok {
			return nil, nil, fmt.Errorf("expected first list element to be a string, got %T", v[0])
		}
		return []ErrorReport{{Message: message}}, nil, nil
	case nil:
		return nil, nil, nil
	default:
		return nil, nil, fmt.Errorf("expected data to be an object or a list, got %T", v)
	}
}

func joinMessage(message, details string) string {
	if details == "" {
		return message
	}
	if message == "" {
		return details
	}
	return message + " " + details
}

func lineFromLoc(loc *looker.RawErrorLoc) *int {
	if loc == nil {
		return nil
	}
	return loc.Line
}

// filterBenign drops development-mode notices from a report list. It is
// idempotent: filtering an already-filtered list returns it unchanged.
func filterBenign(reports []ErrorReport) []ErrorReport {
	out := make([]ErrorReport, 0, len(reports))
	for _, r := range reports {
		if benignMessages[r.Message] {
			continue
		}
		out = append(out, r)
	}
	return out
}

// ProfilerRow is captured for any terminal query whose runtime met or
// exceeded the configured threshold.
type ProfilerRow struct {
	Reference lookml.Reference
	Runtime   float64
	Query     *Query
}
