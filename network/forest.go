// SPDX-License-Identifier: MIT

package network

import (
	"fmt"
	"slices"

	"github.com/katalvlaran/convergecast/field"
)

// visit states of the parent-pointer walk.
const (
	white = iota
	gray
	black
)

// forestWalker holds the state of one ParentOrder call.
type forestWalker struct {
	parent map[field.DeviceID]field.DeviceID
	state  map[field.DeviceID]int
	order  []field.DeviceID
}

// ParentOrder checks that parent pointers form a forest and returns the
// devices ordered so that every parent precedes its children.
// A device whose parent is itself, or a device not in the map, is a root.
// If following parents ever returns to a device, ErrParentCycle is returned.
//
// Complexity: O(V log V) for the sorted start order, O(V) for the walk.
func ParentOrder(parent map[field.DeviceID]field.DeviceID) ([]field.DeviceID, error) {
	w := &forestWalker{
		parent: parent,
		state:  make(map[field.DeviceID]int, len(parent)),
		order:  make([]field.DeviceID, 0, len(parent)),
	}
	ids := make([]field.DeviceID, 0, len(parent))
	for id := range parent {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		if err := w.visit(id); err != nil {
			return nil, err
		}
	}

	return w.order, nil
}

func (w *forestWalker) visit(id field.DeviceID) error {
	switch w.state[id] {
	case gray:
		return fmt.Errorf("%w: through device %d", ErrParentCycle, id)
	case black:
		return nil
	}
	w.state[id] = gray

	if p, ok := w.parent[id]; ok && p != id {
		if _, known := w.parent[p]; known {
			if err := w.visit(p); err != nil {
				return err
			}
		}
	}

	w.state[id] = black
	w.order = append(w.order, id)

	return nil
}
