// Package ordering keeps sibling rows in a dense, user-controlled display order.
package ordering

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

const (
	// BaseOne is used for activities, curriculum rows, sections and directions.
	BaseOne = 1
	// BaseZero is used for the activity-type children of an activity.
	BaseZero = 0
)

var ErrOrderMismatch = errors.New("order ids do not match the existing rows")

// Renumber assigns base, base+1, ... to items in slice order and returns the same slice.
func Renumber[T any](items []T, base int, set func(item T, order int)) []T {
	for i, it := range items {
		set(it, base+i)
	}
	return items
}

// IsDense reports whether orders is exactly base, base+1, ..., base+len-1.
func IsDense(orders []int, base int) bool {
	for i, o := range orders {
		if o != base+i {
			return false
		}
	}
	return true
}

// Reorder arranges items to follow ids. ids must name every item exactly once.
func Reorder[T any](items []T, ids []uuid.UUID, idOf func(T) uuid.UUID) ([]T, error) {
	if len(ids) != len(items) {
		return nil, fmt.Errorf("%w: got %d ids for %d rows", ErrOrderMismatch, len(ids), len(items))
	}
	byID := make(map[uuid.UUID]T, len(items))
	for _, it := range items {
		byID[idOf(it)] = it
	}
	out := make([]T, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		it, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: unknown id %s", ErrOrderMismatch, id)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: duplicate id %s", ErrOrderMismatch, id)
		}
		seen[id] = struct{}{}
		out = append(out, it)
	}
	return out, nil
}
