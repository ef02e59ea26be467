// SPDX-License-Identifier: MIT
// File: hops.go
// Role: ground-truth hop distances by multi-source breadth-first search.

package network

import (
	"fmt"
	"slices"

	"github.com/katalvlaran/convergecast/field"
)

// HopsResult holds the outcome of a breadth-first search.
//   - Order: devices in visit order.
//   - Depth: hop distance from the nearest source.
//   - Parent: BFS predecessor; sources have no entry.
type HopsResult struct {
	Order  []field.DeviceID
	Depth  map[field.DeviceID]int
	Parent map[field.DeviceID]field.DeviceID
}

// Reachable returns the number of devices connected to some source.
func (r *HopsResult) Reachable() int { return len(r.Order) }

// Eccentricity returns the largest depth reached.
func (r *HopsResult) Eccentricity() int {
	ecc := 0
	for _, d := range r.Depth {
		ecc = max(ecc, d)
	}
	return ecc
}

// queueItem pairs a device with its BFS depth.
type queueItem struct {
	id    field.DeviceID
	depth int
}

// walker encapsulates mutable BFS state over a locked Topology.
type walker struct {
	t     *Topology
	queue []queueItem
	res   *HopsResult
}

// Hops runs breadth-first search from all sources at once. Duplicate sources
// are visited once; devices at equal depth are expanded in ascending id order
// of their discoverers.
func Hops(t *Topology, sources ...field.DeviceID) (*HopsResult, error) {
	if len(sources) == 0 {
		return nil, ErrNoSource
	}
	t.mu.RLock()
	defer t.mu.RUnlock()

	roots := slices.Clone(sources)
	slices.Sort(roots)
	roots = slices.Compact(roots)
	if err := t.requireLocked(roots...); err != nil {
		return nil, err
	}

	n := len(t.pos)
	w := &walker{
		t:     t,
		queue: make([]queueItem, 0, n),
		res: &HopsResult{
			Order:  make([]field.DeviceID, 0, n),
			Depth:  make(map[field.DeviceID]int, n),
			Parent: make(map[field.DeviceID]field.DeviceID, n),
		},
	}
	for _, s := range roots {
		w.enqueue(s, 0)
	}
	w.loop()

	return w.res, nil
}

// enqueue marks id discovered at depth d.
func (w *walker) enqueue(id field.DeviceID, d int) {
	w.res.Depth[id] = d
	w.queue = append(w.queue, queueItem{id: id, depth: d})
}

// loop processes the queue until empty.
func (w *walker) loop() {
	for len(w.queue) > 0 {
		item := w.queue[0]
		w.queue = w.queue[1:]
		w.res.Order = append(w.res.Order, item.id)

		nbrs := make([]field.DeviceID, 0, len(w.t.adj[item.id]))
		for nb := range w.t.adj[item.id] {
			nbrs = append(nbrs, nb)
		}
		slices.Sort(nbrs)
		for _, nb := range nbrs {
			if _, seen := w.res.Depth[nb]; seen {
				continue
			}
			w.res.Parent[nb] = item.id
			w.enqueue(nb, item.depth+1)
		}
	}
}

// Diameter returns the largest hop distance between two connected devices.
// An empty topology has diameter 0.
func Diameter(t *Topology) (int, error) {
	diam := 0
	for _, id := range t.Devices() {
		res, err := Hops(t, id)
		if err != nil {
			return 0, fmt.Errorf("network: diameter from %d: %w", id, err)
		}
		diam = max(diam, res.Eccentricity())
	}
	return diam, nil
}
