package looker

import "encoding/json"

// Status values reported by the analytics API for a query task. Any value
// outside this set is a fatal, unexpected status.
const (
	StatusComplete = "complete"
	StatusError    = "error"
	StatusRunning  = "running"
	StatusAdded    = "added"
	StatusExpired  = "expired"
)

// CreateQueryResponse is the subset of the "create query" response the
// validator cares about.
type CreateQueryResponse struct {
	ID       int    `json:"id"`
	ShareURL string `json:"share_url"`
}

// RawTaskResult is the envelope returned for a single task id by a
// multi-result poll. Data is left raw because its shape is polymorphic: an
// object when there's runtime/SQL/error detail, a bare list when the API
// failed before it could attach structured detail.
type RawTaskResult struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// RawErrorLoc locates an error within the generated SQL.
type RawErrorLoc struct {
	Line *int `json:"line,omitempty"`
}

// RawError is a single structured error entry reported inside Data.
type RawError struct {
	Message        string       `json:"message"`
	MessageDetails string       `json:"message_details,omitempty"`
	SQLErrorLoc    *RawErrorLoc `json:"sql_error_loc,omitempty"`
}

// RawObjectData is the shape of Data when it is a JSON object.
type RawObjectData struct {
	Runtime *float64   `json:"runtime,omitempty"`
	SQL     *string    `json:"sql,omitempty"`
	Errors  []RawError `json:"errors,omitempty"`
	Error   *RawError  `json:"error,omitempty"`
}
