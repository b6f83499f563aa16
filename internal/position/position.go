package position

import (
	"errors"
	"sort"

	"github.com/google/uuid"
)

// ErrNotFound is returned when the moved id is not among the siblings.
var ErrNotFound = errors.New("moved item not among siblings")

// Entry is one sibling in an ordered collection (lists in a board, cards in
// a list, items in a checklist).
type Entry struct {
	ID       uuid.UUID
	Position int
}

// Append returns the position for a new sibling: max+1, or 0 for the first.
func Append(siblings []Entry) int {
	if len(siblings) == 0 {
		return 0
	}
	max := siblings[0].Position
	for _, s := range siblings[1:] {
		if s.Position > max {
			max = s.Position
		}
	}
	return max + 1
}

// Reorder removes movedID from the sibling set, reinserts it at newIndex and
// reassigns sequential positions 0..n-1 to every sibling. The full recompute
// keeps positions dense and makes concurrent reorders last-writer-wins
// instead of drifting. newIndex is clamped into [0, n-1].
func Reorder(siblings []Entry, movedID uuid.UUID, newIndex int) (map[uuid.UUID]int, error) {
	ordered := make([]Entry, len(siblings))
	copy(ordered, siblings)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Position < ordered[j].Position
	})

	moved := -1
	for i, s := range ordered {
		if s.ID == movedID {
			moved = i
			break
		}
	}
	if moved == -1 {
		return nil, ErrNotFound
	}

	entry := ordered[moved]
	ordered = append(ordered[:moved], ordered[moved+1:]...)

	if newIndex < 0 {
		newIndex = 0
	}
	if newIndex > len(ordered) {
		newIndex = len(ordered)
	}
	ordered = append(ordered[:newIndex], append([]Entry{entry}, ordered[newIndex:]...)...)

	result := make(map[uuid.UUID]int, len(ordered))
	for i, s := range ordered {
		result[s.ID] = i
	}
	return result, nil
}

// Compact reassigns sequential positions to the remaining siblings after a
// removal, preserving their relative order.
func Compact(siblings []Entry) map[uuid.UUID]int {
	ordered := make([]Entry, len(siblings))
	copy(ordered, siblings)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Position < ordered[j].Position
	})
	result := make(map[uuid.UUID]int, len(ordered))
	for i, s := range ordered {
		result[s.ID] = i
	}
	return result
}
