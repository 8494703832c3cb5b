package lookml

// SqlError is a data error reported by the analytics API for a single query,
// attributed back to the model/explore/dimension that produced the failing
// SQL. SqlError is immutable once constructed; it is never an exception, only
// a value that accumulates on a Reference.
type SqlError struct {
	Model      string
	Explore    string
	Dimension  string // empty when attributed at explore granularity
	SQL        string
	Message    string
	LineNumber *int
	LookMLURL  string
	ExploreURL string
}
