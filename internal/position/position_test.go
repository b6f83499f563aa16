package position_test

import (
	"testing"

	"taskboard/internal/position"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func entries(positions ...int) []position.Entry {
	out := make([]position.Entry, len(positions))
	for i, p := range positions {
		out[i] = position.Entry{ID: uuid.New(), Position: p}
	}
	return out
}

func TestAppend_EmptySet(t *testing.T) {
	assert.Equal(t, 0, position.Append(nil))
	assert.Equal(t, 0, position.Append([]position.Entry{}))
}

func TestAppend_TakesMaxPlusOne(t *testing.T) {
	siblings := entries(0, 1, 2)
	assert.Equal(t, 3, position.Append(siblings))
}

func TestAppend_IgnoresGaps(t *testing.T) {
	// Positions may have holes after ad-hoc deletions; append still goes
	// after the current maximum.
	siblings := entries(0, 4, 7)
	assert.Equal(t, 8, position.Append(siblings))
}

func TestReorder_MovesToFront(t *testing.T) {
	siblings := entries(0, 1, 2)
	moved := siblings[2].ID

	result, err := position.Reorder(siblings, moved, 0)

	assert.NoError(t, err)
	assert.Equal(t, 0, result[moved])
	assert.Equal(t, 1, result[siblings[0].ID])
	assert.Equal(t, 2, result[siblings[1].ID])
}

func TestReorder_MovesToEnd(t *testing.T) {
	siblings := entries(0, 1, 2)
	moved := siblings[0].ID

	result, err := position.Reorder(siblings, moved, 2)

	assert.NoError(t, err)
	assert.Equal(t, 2, result[moved])
	assert.Equal(t, 0, result[siblings[1].ID])
	assert.Equal(t, 1, result[siblings[2].ID])
}

func TestReorder_ClampsIndex(t *testing.T) {
	siblings := entries(0, 1, 2)
	moved := siblings[0].ID

	result, err := position.Reorder(siblings, moved, 99)
	assert.NoError(t, err)
	assert.Equal(t, 2, result[moved])

	result, err = position.Reorder(siblings, moved, -5)
	assert.NoError(t, err)
	assert.Equal(t, 0, result[moved])
}

func TestReorder_ResultIsDense(t *testing.T) {
	// Whatever the input looked like, the output is always 0..n-1 with no
	// gaps and no duplicates.
	siblings := entries(3, 10, 25, 26)
	moved := siblings[1].ID

	result, err := position.Reorder(siblings, moved, 2)
	assert.NoError(t, err)
	assert.Len(t, result, 4)

	seen := make(map[int]bool)
	for _, pos := range result {
		assert.GreaterOrEqual(t, pos, 0)
		assert.Less(t, pos, 4)
		assert.False(t, seen[pos], "duplicate position %d", pos)
		seen[pos] = true
	}
}

func TestReorder_UnknownID(t *testing.T) {
	siblings := entries(0, 1)

	_, err := position.Reorder(siblings, uuid.New(), 0)

	assert.ErrorIs(t, err, position.ErrNotFound)
}

func TestCompact_ClosesGaps(t *testing.T) {
	siblings := entries(0, 2, 5)

	result := position.Compact(siblings)

	assert.Equal(t, 0, result[siblings[0].ID])
	assert.Equal(t, 1, result[siblings[1].ID])
	assert.Equal(t, 2, result[siblings[2].ID])
}

func TestCompact_PreservesRelativeOrder(t *testing.T) {
	siblings := []position.Entry{
		{ID: uuid.New(), Position: 8},
		{ID: uuid.New(), Position: 1},
		{ID: uuid.New(), Position: 4},
	}

	result := position.Compact(siblings)

	assert.Equal(t, 2, result[siblings[0].ID])
	assert.Equal(t, 0, result[siblings[1].ID])
	assert.Equal(t, 1, result[siblings[2].ID])
}
