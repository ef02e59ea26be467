// SPDX-License-Identifier: MIT

package field

import (
	"errors"
	"fmt"
	"slices"
)

// Node is the execution context of one device for one round.
//
// It reads only the snapshot committed at the end of the previous round
// (prev for the device itself, nbrs for its neighbors) and collects the
// exports of the current round in a separate buffer. A Node is used by a
// single goroutine and discarded once Exports has been taken.
type Node struct {
	uid  DeviceID
	now  float64
	prev Exports
	nbrs map[DeviceID]Exports
	ids  []DeviceID // ascending, without uid

	next map[Key]any
	errs []error
}

// NewNode creates the round context of device uid at time now.
// prev holds the device's own exports from the previous round; nbrs holds the
// previous-round exports of the neighbors currently in range. An entry for uid
// itself in nbrs is ignored.
func NewNode(uid DeviceID, now float64, prev Exports, nbrs map[DeviceID]Exports) *Node {
	n := &Node{
		uid:  uid,
		now:  now,
		prev: prev,
		nbrs: make(map[DeviceID]Exports, len(nbrs)),
		ids:  make([]DeviceID, 0, len(nbrs)),
		next: make(map[Key]any),
	}
	for id, e := range nbrs {
		if id == uid {
			continue
		}
		n.nbrs[id] = e
		n.ids = append(n.ids, id)
	}
	slices.Sort(n.ids)

	return n
}

// UID returns the device identity.
func (n *Node) UID() DeviceID { return n.uid }

// Time returns the simulated time of the round.
func (n *Node) Time() float64 { return n.now }

// Neighbors returns the identities of the neighbors in range, ascending.
func (n *Node) Neighbors() []DeviceID { return slices.Clone(n.ids) }

// Exports returns the values exported so far in this round.
func (n *Node) Exports() Exports { return NewExports(n.next) }

// Err reports every alignment problem recorded during the round, or nil.
func (n *Node) Err() error { return errors.Join(n.errs...) }

// export schedules v on key for the next round.
func (n *Node) export(key Key, v any) {
	if _, dup := n.next[key]; dup {
		n.errs = append(n.errs, fmt.Errorf("%w: device %d key %q", ErrDuplicateKey, n.uid, key))
	}
	n.next[key] = v
}

// own returns the device's previous-round value on key, or init.
func own[T any](n *Node, key Key, init T) T {
	raw, ok := n.prev.Get(key)
	if !ok {
		return init
	}
	v, ok := raw.(T)
	if !ok {
		n.errs = append(n.errs, fmt.Errorf("%w: device %d key %q holds %T", ErrTypeMismatch, n.uid, key, raw))
		return init
	}

	return v
}

// gather builds the Field observed on key.
func gather[T any](n *Node, key Key, init T) Field[T] {
	f := Field[T]{
		owner: n.uid,
		self:  own(n, key, init),
		ids:   make([]DeviceID, 0, len(n.ids)),
		vals:  make(map[DeviceID]T, len(n.ids)),
	}
	for _, id := range n.ids {
		raw, ok := n.nbrs[id].Get(key)
		if !ok {
			continue
		}
		v, ok := raw.(T)
		if !ok {
			n.errs = append(n.errs, fmt.Errorf("%w: neighbor %d key %q holds %T", ErrTypeMismatch, id, key, raw))
			continue
		}
		f.ids = append(f.ids, id)
		f.vals[id] = v
	}

	return f
}
