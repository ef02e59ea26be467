// SPDX-License-Identifier: MIT

package field

// Share observes the previous-round values on key and lets fn compute both the
// local result and the value exported on key for the next round.
//
// The Field passed to fn holds the device's own previous export as Self (init
// on the first round or after a restart) and one entry per neighbor in range
// that exported on key in the previous round.
func Share[T, R any](n *Node, key Key, init T, fn func(Field[T]) (R, T)) R {
	res, out := fn(gather(n, key, init))
	n.export(key, out)

	return res
}

// Nbr is Share when the local result is also the exported value.
func Nbr[T any](n *Node, key Key, init T, fn func(Field[T]) T) T {
	return Share(n, key, init, func(f Field[T]) (T, T) {
		v := fn(f)
		return v, v
	})
}

// Observe exports v on key and returns the neighbors' previous values on key.
// Self is the device's own previous value, or v on the first round.
func Observe[T any](n *Node, key Key, v T) Field[T] {
	f := gather(n, key, v)
	n.export(key, v)

	return f
}

// Old evolves device-local state: fn receives the device's own previous value
// on key (init if none) and returns the new one. Neighbor values are ignored.
func Old[T any](n *Node, key Key, init T, fn func(T) T) T {
	v := fn(own(n, key, init))
	n.export(key, v)

	return v
}

// UIDs returns the Field of neighbor identities.
func UIDs(n *Node) Field[DeviceID] {
	f := Field[DeviceID]{
		owner: n.uid,
		self:  n.uid,
		ids:   n.ids,
		vals:  make(map[DeviceID]DeviceID, len(n.ids)),
	}
	for _, id := range n.ids {
		f.vals[id] = id
	}

	return f
}
