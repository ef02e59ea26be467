// SPDX-License-Identifier: MIT
// File: topology.go
// Role: device lifecycle, positions and explicit links.
//
// Determinism:
//   - Devices() and Neighbors() return ids sorted ascending.
//
// Concurrency:
//   - Readers take mu.RLock, mutators mu.Lock; no method calls another while locked.

package network

import (
	"fmt"
	"slices"

	"github.com/katalvlaran/convergecast/field"
)

// AddDevice registers id at pos with no links.
func (t *Topology) AddDevice(id field.DeviceID, pos Vec) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.pos[id]; ok {
		return fmt.Errorf("%w: %d", ErrDuplicateDevice, id)
	}
	t.pos[id] = pos
	t.adj[id] = make(map[field.DeviceID]struct{})

	return nil
}

// RemoveDevice deletes id together with all its links.
func (t *Topology) RemoveDevice(id field.DeviceID) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	nbrs, ok := t.adj[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrDeviceNotFound, id)
	}
	for nb := range nbrs {
		delete(t.adj[nb], id)
	}
	delete(t.adj, id)
	delete(t.pos, id)

	return nil
}

// HasDevice reports whether id is present.
func (t *Topology) HasDevice(id field.DeviceID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	_, ok := t.pos[id]
	return ok
}

// Len returns the number of devices.
func (t *Topology) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.pos)
}

// Devices returns all device ids in ascending order.
func (t *Topology) Devices() []field.DeviceID {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ids := make([]field.DeviceID, 0, len(t.pos))
	for id := range t.pos {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	return ids
}

// Position returns the position of id.
func (t *Topology) Position(id field.DeviceID) (Vec, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	p, ok := t.pos[id]
	if !ok {
		return Vec{}, fmt.Errorf("%w: %d", ErrDeviceNotFound, id)
	}
	return p, nil
}

// SetPosition moves id to pos. Links are not touched; call Connect to
// recompute range-based links.
func (t *Topology) SetPosition(id field.DeviceID, pos Vec) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.pos[id]; !ok {
		return fmt.Errorf("%w: %d", ErrDeviceNotFound, id)
	}
	t.pos[id] = pos

	return nil
}

// Link connects a and b in both directions. Linking twice is a no-op.
func (t *Topology) Link(a, b field.DeviceID) error {
	if a == b {
		return fmt.Errorf("%w: %d", ErrSelfLink, a)
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.requireLocked(a, b); err != nil {
		return err
	}
	t.adj[a][b] = struct{}{}
	t.adj[b][a] = struct{}{}

	return nil
}

// Unlink removes the link between a and b, if any.
func (t *Topology) Unlink(a, b field.DeviceID) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.requireLocked(a, b); err != nil {
		return err
	}
	delete(t.adj[a], b)
	delete(t.adj[b], a)

	return nil
}

// Linked reports whether a and b are in range of each other.
func (t *Topology) Linked(a, b field.DeviceID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	_, ok := t.adj[a][b]
	return ok
}

// Neighbors returns the devices linked to id, ascending.
func (t *Topology) Neighbors(id field.DeviceID) ([]field.DeviceID, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	nbrs, ok := t.adj[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrDeviceNotFound, id)
	}
	out := make([]field.DeviceID, 0, len(nbrs))
	for nb := range nbrs {
		out = append(out, nb)
	}
	slices.Sort(out)

	return out, nil
}

// Links returns the number of undirected links.
func (t *Topology) Links() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	total := 0
	for _, nbrs := range t.adj {
		total += len(nbrs)
	}
	return total / 2
}

// Clone returns a deep copy of t.
func (t *Topology) Clone() *Topology {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := NewTopology()
	for id, p := range t.pos {
		out.pos[id] = p
		out.adj[id] = make(map[field.DeviceID]struct{}, len(t.adj[id]))
		for nb := range t.adj[id] {
			out.adj[id][nb] = struct{}{}
		}
	}
	return out
}

// requireLocked checks that every id is present. Caller holds mu.
func (t *Topology) requireLocked(ids ...field.DeviceID) error {
	for _, id := range ids {
		if _, ok := t.pos[id]; !ok {
			return fmt.Errorf("%w: %d", ErrDeviceNotFound, id)
		}
	}
	return nil
}
