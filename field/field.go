// SPDX-License-Identifier: MIT

package field

import (
	"iter"
	"slices"
)

// Field is the neighborhood view of one exported quantity as observed by one
// device: its own previous value plus one value per neighbor in range.
// Neighbors that did not export the quantity are absent, never zero-filled.
type Field[T any] struct {
	owner DeviceID
	self  T
	ids   []DeviceID // ascending
	vals  map[DeviceID]T
}

// NewField builds a Field owned by owner. The owner entry in nbrs, if any, is ignored.
func NewField[T any](owner DeviceID, self T, nbrs map[DeviceID]T) Field[T] {
	f := Field[T]{owner: owner, self: self, vals: make(map[DeviceID]T, len(nbrs))}
	for id, v := range nbrs {
		if id == owner {
			continue
		}
		f.ids = append(f.ids, id)
		f.vals[id] = v
	}
	slices.Sort(f.ids)

	return f
}

// Owner returns the identity of the observing device.
func (f Field[T]) Owner() DeviceID { return f.owner }

// Self returns the observing device's own value.
func (f Field[T]) Self() T { return f.self }

// Len returns the number of neighbors, excluding the device itself.
func (f Field[T]) Len() int { return len(f.ids) }

// IDs returns the neighbor identities in ascending order.
func (f Field[T]) IDs() []DeviceID { return slices.Clone(f.ids) }

// Get returns the value of neighbor id.
func (f Field[T]) Get(id DeviceID) (T, bool) {
	if id == f.owner {
		return f.self, true
	}
	v, ok := f.vals[id]

	return v, ok
}

// All iterates neighbors in ascending id order. The device itself is not yielded.
func (f Field[T]) All() iter.Seq2[DeviceID, T] {
	return func(yield func(DeviceID, T) bool) {
		for _, id := range f.ids {
			if !yield(id, f.vals[id]) {
				return
			}
		}
	}
}

// Map applies fn pointwise, to the device itself and to every neighbor.
func Map[T, R any](f Field[T], fn func(id DeviceID, v T) R) Field[R] {
	out := Field[R]{
		owner: f.owner,
		self:  fn(f.owner, f.self),
		ids:   f.ids,
		vals:  make(map[DeviceID]R, len(f.ids)),
	}
	for _, id := range f.ids {
		out.vals[id] = fn(id, f.vals[id])
	}

	return out
}

// Mux selects, pointwise over the domain of a, the value of a where cond holds
// and other elsewhere. Entries missing from cond count as false.
func Mux[T any](cond Field[bool], a Field[T], other T) Field[T] {
	return Map(a, func(id DeviceID, v T) T {
		if ok, found := cond.Get(id); found && ok {
			return v
		}
		return other
	})
}
