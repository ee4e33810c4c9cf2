package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEntries() []Entry {
	return []Entry{
		{Topic: "quiet-hours", Label: "Toronto, Ontario, Canada", Path: "/quiet-hours/canada/ontario/toronto"},
		{Topic: "quiet-hours", Label: "Austin, Texas, United States", Path: "/quiet-hours/united-states/texas/austin"},
		{Topic: "fireworks", Label: "Texas, United States", Path: "/fireworks/united-states/texas"},
		{Topic: "parking-rules", Label: "Toronto, Ontario, Canada", Path: "/parking-rules/canada/ontario/toronto"},
	}
}

func TestRankExactBeforeFuzzy(t *testing.T) {
	got := Rank(testEntries(), "toronto", 0)
	require.NotEmpty(t, got)
	assert.Equal(t, "/quiet-hours/canada/ontario/toronto", got[0].Path)
	assert.Equal(t, "/parking-rules/canada/ontario/toronto", got[1].Path)
}

func TestRankTypoStillMatches(t *testing.T) {
	got := Rank(testEntries(), "torontto", 0)
	require.Len(t, got, 2)
	for _, e := range got {
		assert.Contains(t, e.Label, "Toronto")
	}
}

func TestRankDistanceCeiling(t *testing.T) {
	assert.Empty(t, Rank(testEntries(), "zzzzzzzz", 0))
}

func TestRankLimit(t *testing.T) {
	got := Rank(testEntries(), "texas", 1)
	require.Len(t, got, 1)
}

func TestRankBlankQuery(t *testing.T) {
	assert.Empty(t, Rank(testEntries(), "   ", 0))
}
