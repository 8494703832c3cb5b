package validator

import (
	"context"
	"fmt"

	"github.com/spectacles-go/validate/lookml"
	"github.com/spectacles-go/validate/looker"
)

// ErrorState is a tri-state flag: unknown means no terminal result has been
// observed yet, which is distinct from false ("ran clean").
type ErrorState int

const (
	ErrorUnknown ErrorState = iota
	ErrorFalse
	ErrorTrue
)

// DefaultChunkSize is the subdivision window used when a Query isn't given
// an explicit one.
const DefaultChunkSize = 500

// Query is a bundle of dimensions from one explore, sent as a single remote
// query. It is assigned a remote query id and share URL once created, and
// tracks whether its terminal result errored.
type Query struct {
	Explore    *lookml.Explore
	Dimensions []*lookml.Dimension // ordered, immutable once constructed
	ChunkSize  int

	QueryID    int
	ExploreURL string
	Errored    ErrorState
}

// NewQuery builds a Query over dimensions, validating the invariants that
// every dimension shares the explore's (model, explore) pair and that the
// tuple is non-empty.
func NewQuery(explore *lookml.Explore, dimensions []*lookml.Dimension, chunkSize int) (*Query, error) {
	if len(dimensions) == 0 {
		return nil, InvalidState("a query must cover at least one dimension")
	}
	for _, d := range dimensions {
		if d.ModelName() != explore.ModelName() || d.ExploreName() != explore.Name() {
			return nil, InvalidState(fmt.Sprintf(
				"dimension %s.%s.%s does not belong to explore %s.%s",
				d.ModelName(), d.ExploreName(), d.Name(), explore.ModelName(), explore.Name(),
			))
		}
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	dims := make([]*lookml.Dimension, len(dimensions))
	copy(dims, dimensions)
	return &Query{Explore: explore, Dimensions: dims, ChunkSize: chunkSize}, nil
}

// Reference returns the finest-grained lookml.Reference this query currently
// identifies: the single dimension once localization has bisected down to
// one, otherwise the explore as a whole.
func (q *Query) Reference() lookml.Reference {
	if len(q.Dimensions) == 1 {
		return q.Dimensions[0]
	}
	return q.Explore
}

// dimensionNames returns the field list sent to the analytics API.
func (q *Query) dimensionNames() []string {
	names := make([]string, len(q.Dimensions))
	for i, d := range q.Dimensions {
		names[i] = d.Name()
	}
	return names
}

// Create issues a remote "create query" request for this query's dimensions
// and stores the resulting query id and share URL.
func (q *Query) Create(ctx context.Context, client looker.Client) error {
	resp, err := client.CreateQuery(ctx, q.Explore.ModelName(), q.Explore.Name(), q.dimensionNames(), []string{"id", "share_url"})
	if err != nil {
		return APIError("create-query", err)
	}
	q.QueryID = resp.ID
	q.ExploreURL = resp.ShareURL
	return nil
}

// Divide splits an errored multi-dimension query into children to localize
// the failure. If the query is small enough, it bisects at the midpoint
// (binary search); once the explore is large enough that a half would still
// exceed ChunkSize, it instead yields consecutive fixed-size windows so a
// single huge explore can't fan out into an unbounded number of queries.
//
// Precondition: Errored == ErrorTrue and len(Dimensions) > 1.
func (q *Query) Divide() ([]*Query, error) {
	if q.Errored != ErrorTrue {
		return nil, InvalidState("cannot divide a query that has not errored")
	}
	n := len(q.Dimensions)
	if n <= 1 {
		return nil, InvalidState("cannot divide a query with a single dimension")
	}

	var windows [][]*lookml.Dimension
	if n/2 > q.ChunkSize {
		for start := 0; start < n; start += q.ChunkSize {
			end := start + q.ChunkSize
			if end > n {
				end = n
			}
			windows = append(windows, q.Dimensions[start:end])
		}
	} else {
		mid := n / 2
		windows = [][]*lookml.Dimension{
			q.Dimensions[:mid],
			q.Dimensions[mid:],
		}
	}

	children := make([]*Query, 0, len(windows))
	for _, w := range windows {
		child, err := NewQuery(q.Explore, w, q.ChunkSize)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}
