package validator

import "fmt"

// ValidationError is a fatal, titled error surfaced to the user. It carries a
// short title and a longer detail paragraph, mirroring how the rest of the
// pipeline's user-facing failures are reported.
type ValidationError struct {
	Name   string
	Title  string
	Detail string
	Err    error // wrapped cause, if any
}

func (e *ValidationError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Title, e.Detail)
	}
	return e.Title
}

func (e *ValidationError) Unwrap() error { return e.Err }

// APIError wraps a failure returned by the remote analytics API client.
func APIError(name string, err error) error {
	return &ValidationError{
		Name:   name,
		Title:  "The analytics API returned an error.",
		Detail: err.Error(),
		Err:    err,
	}
}

// UnexpectedResultFormat is raised when a raw query task result can't be
// parsed into a QueryResult.
func UnexpectedResultFormat(detail string) error {
	return &ValidationError{
		Name:   "unexpected-result-format",
		Title:  "Encountered an unexpected query result format.",
		Detail: detail,
	}
}

// UnexpectedStatus is raised when a query task reports a status outside the
// known set.
func UnexpectedStatus(status string) error {
	return &ValidationError{
		Name:   "unexpected-query-result-status",
		Title:  "Encountered an unexpected query result status.",
		Detail: fmt.Sprintf("status %q was returned by the analytics API", status),
	}
}

// InvalidState is raised on a precondition violation, such as dividing a
// query that hasn't errored.
func InvalidState(detail string) error {
	return &ValidationError{
		Name:   "invalid-state",
		Title:  "Operation attempted in an invalid state.",
		Detail: detail,
	}
}

// MissingDimensions is raised when compiling an explore with no dimensions.
func MissingDimensions(explore string) error {
	return &ValidationError{
		Name:  "missing-dimensions",
		Title: "Explore is missing dimensions.",
		Detail: fmt.Sprintf(
			"explore %q has no dimensions, so this query won't have fields and will error; "+
				"this often happens when dimensions weren't included when the project was built",
			explore,
		),
	}
}

// InterruptedValidation is raised once cancellation cleanup has completed
// after the caller's context was cancelled mid-run.
type InterruptedValidation struct {
	CancelCount int
}

// Title is the one-line, user-facing summary for this error.
func (e *InterruptedValidation) Title() string {
	return "SQL validation was manually interrupted."
}

func (e *InterruptedValidation) Error() string {
	if e.CancelCount == 0 {
		return "No queries were running at the time so nothing was cancelled."
	}
	plural := "queries"
	if e.CancelCount == 1 {
		plural = "query"
	}
	return fmt.Sprintf("Attempted to cancel %d running %s.", e.CancelCount, plural)
}
