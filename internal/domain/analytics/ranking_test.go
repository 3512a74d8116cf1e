package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTallyInsertionOrder(t *testing.T) {
	tally := NewTally()
	tally.Add("b")
	tally.Add("a")
	tally.Add("b")
	tally.AddN("c", 3)

	assert.Equal(t, []string{"b", "a", "c"}, tally.Keys())
	assert.Equal(t, 2, tally.Get("b"))
	assert.Equal(t, 3, tally.Get("c"))
	assert.Equal(t, 0, tally.Get("missing"))
	assert.Equal(t, 3, tally.Len())
}

func TestRankDescendingWithLimit(t *testing.T) {
	tally := NewTally()
	tally.Set("a", 1)
	tally.Set("b", 5)
	tally.Set("c", 3)
	tally.Set("d", 4)

	entries := Rank(tally, Descending, 3, nil)
	require.Len(t, entries, 3)
	assert.Equal(t, "b", entries[0].Key)
	assert.Equal(t, "d", entries[1].Key)
	assert.Equal(t, "c", entries[2].Key)
}

func TestRankAscending(t *testing.T) {
	tally := NewTally()
	tally.Set("a", 9)
	tally.Set("b", 2)

	entries := Rank(tally, Ascending, 5, nil)
	require.Len(t, entries, 2)
	assert.Equal(t, "b", entries[0].Key)
	assert.Equal(t, "a", entries[1].Key)
}

func TestRankStableTieBreak(t *testing.T) {
	tally := NewTally()
	tally.Set("first", 2)
	tally.Set("second", 2)
	tally.Set("third", 2)

	entries := Rank(tally, Descending, 3, nil)
	assert.Equal(t, "first", entries[0].Key)
	assert.Equal(t, "second", entries[1].Key)
	assert.Equal(t, "third", entries[2].Key)

	// ties keep first-encounter order in either direction
	entries = Rank(tally, Ascending, 3, nil)
	assert.Equal(t, "first", entries[0].Key)
}

func TestRankLabelFallback(t *testing.T) {
	tally := NewTally()
	tally.Set("b1", 4)
	tally.Set("ghost", 1)

	titles := map[string]string{"b1": "The Brave Turtle"}
	entries := Rank(tally, Descending, 5, func(id string) string { return titles[id] })

	assert.Equal(t, "The Brave Turtle", entries[0].Label)
	assert.Equal(t, "ghost", entries[1].Label)
}

func TestRankLimitLargerThanTally(t *testing.T) {
	tally := NewTally()
	tally.Set("only", 1)

	entries := Rank(tally, Descending, 10, nil)
	assert.Len(t, entries, 1)
}
