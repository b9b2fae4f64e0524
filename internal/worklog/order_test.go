package worklog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pollenhq/pollen/internal/store"
)

func logAt(id string, order int, createdAt int64) store.WorkLog {
	return store.WorkLog{ID: id, SortOrder: order, CreatedAt: createdAt}
}

func ids(logs []store.WorkLog) []string {
	out := make([]string, len(logs))
	for i, l := range logs {
		out[i] = l.ID
	}
	return out
}

func TestCompare(t *testing.T) {
	a := logAt("a", 0, 100)
	b := logAt("b", 1, 200)
	assert.Negative(t, Compare(a, b))
	assert.Positive(t, Compare(b, a))

	// Without both orders set, newer wins.
	c := logAt("c", store.UnsetOrder, 300)
	assert.Negative(t, Compare(c, a))
	assert.Positive(t, Compare(a, c))

	// Fully equal keys compare as zero.
	assert.Zero(t, Compare(logAt("x", store.UnsetOrder, 100), logAt("y", store.UnsetOrder, 100)))
}

func TestNormalizeAssignsDenseOrders(t *testing.T) {
	// Newest-first input with no manual ordering keeps its order.
	logs := []store.WorkLog{
		logAt("a", store.UnsetOrder, 300),
		logAt("b", store.UnsetOrder, 200),
		logAt("c", store.UnsetOrder, 100),
	}
	got := Normalize(logs)
	assert.Equal(t, []string{"a", "b", "c"}, ids(got))
	for i, l := range got {
		assert.Equal(t, i, l.SortOrder)
	}
}

func TestNormalizeRespectsExistingOrders(t *testing.T) {
	logs := []store.WorkLog{
		logAt("a", 2, 300),
		logAt("b", 0, 200),
		logAt("c", 1, 100),
	}
	got := Normalize(logs)
	assert.Equal(t, []string{"b", "c", "a"}, ids(got))
}

func TestNormalizeIdempotent(t *testing.T) {
	logs := []store.WorkLog{
		logAt("a", store.UnsetOrder, 300),
		logAt("b", 7, 200),
		logAt("c", store.UnsetOrder, 100),
	}
	once := Normalize(logs)
	twice := Normalize(once)
	assert.Equal(t, once, twice)
}

func TestInsertNewest(t *testing.T) {
	existing := Normalize([]store.WorkLog{
		logAt("a", store.UnsetOrder, 200),
		logAt("b", store.UnsetOrder, 100),
	})
	got := Normalize(InsertNewest(logAt("new", store.UnsetOrder, 300), existing))

	require.Equal(t, []string{"new", "a", "b"}, ids(got))
	for i, l := range got {
		assert.Equal(t, i, l.SortOrder)
	}
}

func TestMove(t *testing.T) {
	logs := Normalize([]store.WorkLog{
		logAt("a", store.UnsetOrder, 300),
		logAt("b", store.UnsetOrder, 200),
		logAt("c", store.UnsetOrder, 100),
	})

	down := Move(logs, 0, Down)
	assert.Equal(t, []string{"b", "a", "c"}, ids(down))
	for i, l := range down {
		assert.Equal(t, i, l.SortOrder)
	}

	// Boundary and out-of-range moves change nothing.
	assert.Equal(t, logs, Move(logs, 0, Up))
	assert.Equal(t, logs, Move(logs, 2, Down))
	assert.Equal(t, logs, Move(logs, -1, Up))
	assert.Equal(t, logs, Move(logs, 99, Down))
}

func TestSortForDisplayStable(t *testing.T) {
	logs := []store.WorkLog{
		logAt("a", store.UnsetOrder, 100),
		logAt("b", store.UnsetOrder, 100),
		logAt("c", store.UnsetOrder, 200),
	}
	got := SortForDisplay(logs)
	assert.Equal(t, []string{"c", "a", "b"}, ids(got))
	// Input untouched.
	assert.Equal(t, "a", logs[0].ID)
}
