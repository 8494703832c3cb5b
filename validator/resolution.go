package validator

import "github.com/spectacles-go/validate/lookml"

// Mode selects how an errored multi-dimension query is resolved.
type Mode int

const (
	// ModeLocalize recursively bisects an errored query to pinpoint the
	// failing dimension.
	ModeLocalize Mode = iota
	// ModeFailFast reports errors at explore granularity and skips
	// subdivision entirely.
	ModeFailFast
)

// Resolve applies the resolution policy for a terminal "error" result on q.
// In fail-fast mode, or once localization has bisected down to a single
// dimension, every filtered error report is attributed directly to a
// Reference. Otherwise the query is divided and its children are queued for
// their own execution; Resolve reports them back to the caller instead of
// enqueuing them directly so the poller can own the run-queue bookkeeping.
func Resolve(mode Mode, q *Query, result *QueryResult) (children []*Query, err error) {
	if mode == ModeFailFast {
		attribute(q.Explore, q, result.Errors)
		return nil, nil
	}

	if len(q.Dimensions) > 1 {
		children, err = q.Divide()
		if err != nil {
			return nil, err
		}
		return children, nil
	}

	attribute(q.Dimensions[0], q, result.Errors)
	return nil, nil
}

// attribute binds every filtered error report to ref, marking it queried
// even when all reports filtered out as benign.
func attribute(ref lookml.Reference, q *Query, reports []ErrorReport) {
	ref.SetQueried(true)
	for _, r := range reports {
		ref.AddError(lookml.SqlError{
			Model:      ref.ModelName(),
			Explore:    ref.ExploreName(),
			Dimension:  dimensionName(ref),
			SQL:        r.SQL,
			Message:    r.Message,
			LineNumber: r.LineNumber,
			LookMLURL:  ref.URL(),
			ExploreURL: q.ExploreURL,
		})
	}
}

// dimensionName returns the dimension name for a Dimension reference, or ""
// for an Explore reference (attribution at explore granularity never names
// a dimension).
func dimensionName(ref lookml.Reference) string {
	if ref.Kind() == "dimension" {
		return ref.Name()
	}
	return ""
}
