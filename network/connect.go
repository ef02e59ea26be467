// SPDX-License-Identifier: MIT
// File: connect.go
// Role: range-based connectivity (unit disk graph).

package network

import (
	"fmt"
	"math"

	"github.com/katalvlaran/convergecast/field"
)

// cell indexes the square bucket of side r holding a position.
type cell struct{ cx, cy int64 }

func cellOf(p Vec, r float64) cell {
	return cell{int64(math.Floor(p.X / r)), int64(math.Floor(p.Y / r))}
}

// Connect replaces every link with the range relation: a and b are linked iff
// their distance is at most r. Devices are bucketed into cells of side r so
// only the 3×3 surrounding cells are compared.
func (t *Topology) Connect(r float64) error {
	if !(r > 0) || math.IsInf(r, 0) {
		return fmt.Errorf("%w: %v", ErrBadRange, r)
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	buckets := make(map[cell][]field.DeviceID, len(t.pos))
	for id, p := range t.pos {
		c := cellOf(p, r)
		buckets[c] = append(buckets[c], id)
		t.adj[id] = make(map[field.DeviceID]struct{}, len(t.adj[id]))
	}

	for id, p := range t.pos {
		c := cellOf(p, r)
		for dx := int64(-1); dx <= 1; dx++ {
			for dy := int64(-1); dy <= 1; dy++ {
				for _, other := range buckets[cell{c.cx + dx, c.cy + dy}] {
					if other == id {
						continue
					}
					if p.Dist(t.pos[other]) <= r {
						t.adj[id][other] = struct{}{}
					}
				}
			}
		}
	}

	return nil
}
