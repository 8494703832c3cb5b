package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spectacles-go/validate/lookml"
)

func TestResolveFailFastAttributesToExplore(t *testing.T) {
	explore := newTestExplore(t, 10)
	q, err := NewQuery(explore, explore.Dimensions, 500)
	require.NoError(t, err)
	q.Errored = ErrorTrue

	line := 7
	result := &QueryResult{Errors: []ErrorReport{{Message: "Syntax error", LineNumber: &line}}}

	children, err := Resolve(ModeFailFast, q, result)
	require.NoError(t, err)
	assert.Empty(t, children)

	require.Len(t, explore.Errors(), 1)
	assert.Equal(t, "Syntax error", explore.Errors()[0].Message)
	assert.Equal(t, "", explore.Errors()[0].Dimension)
	assert.True(t, explore.Queried())
}

func TestResolveLocalizeMultiDimensionDivides(t *testing.T) {
	explore := newTestExplore(t, 4)
	q, err := NewQuery(explore, explore.Dimensions, 500)
	require.NoError(t, err)
	q.Errored = ErrorTrue

	result := &QueryResult{Errors: []ErrorReport{{Message: "Syntax error"}}}

	children, err := Resolve(ModeLocalize, q, result)
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Len(t, children[0].Dimensions, 2)
	assert.Len(t, children[1].Dimensions, 2)
	// Dividing doesn't attribute anything directly; that's left to the
	// eventual single-dimension resolution of each child.
	assert.Empty(t, explore.Errors())
}

func TestResolveLocalizeSingleDimensionAttributes(t *testing.T) {
	explore := newTestExplore(t, 4)
	dim := explore.Dimensions[2]
	q, err := NewQuery(explore, []*lookml.Dimension{dim}, 500)
	require.NoError(t, err)
	q.Errored = ErrorTrue

	result := &QueryResult{Errors: []ErrorReport{{Message: "Syntax error"}}}

	children, err := Resolve(ModeLocalize, q, result)
	require.NoError(t, err)
	assert.Empty(t, children)

	require.Len(t, dim.Errors(), 1)
	assert.Equal(t, dim.Name(), dim.Errors()[0].Dimension)
	assert.True(t, dim.Queried())
	assert.Empty(t, explore.Errors())
}

func TestResolveBenignOnlyStillMarksQueried(t *testing.T) {
	explore := newTestExplore(t, 4)
	dim := explore.Dimensions[0]
	q, err := NewQuery(explore, []*lookml.Dimension{dim}, 500)
	require.NoError(t, err)
	q.Errored = ErrorTrue

	// ParseQueryResult already filters benign reports out before Resolve
	// ever sees them, so an all-benign error result arrives with Errors
	// empty but the task status still "error".
	result := &QueryResult{Status: "error"}

	children, err := Resolve(ModeLocalize, q, result)
	require.NoError(t, err)
	assert.Empty(t, children)
	assert.True(t, dim.Queried())
	assert.Empty(t, dim.Errors())
}
