// SPDX-License-Identifier: MIT

// Package abf builds a shortest-hop routing tree toward a source with
// adaptive Bellman-Ford relaxation.
//
// What
//
//	Every round each device takes the hop counts its neighbors exported in the
//	previous round, adds one, and keeps the lexicographically smallest
//	(hops, id) candidate among those and its own baseline (0 for the source,
//	Inf otherwise, paired with its own id). The winning id is the device's
//	parent, also called its constraining neighbor.
//
// Guarantees
//
//   - Static topology, single fixed source: after at most diameter+1 rounds
//     every reachable device holds its true hop distance, and parent pointers
//     form a tree rooted at the source (each step strictly decreases hops).
//   - Devices cut off from every source keep relaxing against each other's
//     stale estimates, which rise by about one per round until they reach Inf
//     (count-to-infinity). Parent pointers may form cycles meanwhile;
//     downstream consumers must tolerate the transient.
//   - An isolated device returns (0, uid) if it is the source, (Inf, uid) otherwise.
//
// Complexity: O(k) per round for k neighbors.
package abf

import (
	"fmt"
	"math"

	"github.com/katalvlaran/convergecast/field"
)

// Hops is a hop-count distance estimate.
type Hops int32

// Inf is the "no known path" distance. It sits one below the largest Hops so
// that Inf+1 never overflows.
const Inf Hops = math.MaxInt32 - 1

// Pair is the distance/parent pair produced by Constrain.
type Pair struct {
	Hops   Hops
	Parent field.DeviceID
}

// Less orders pairs lexicographically: hops first, then parent id.
func (p Pair) Less(q Pair) bool {
	if p.Hops != q.Hops {
		return p.Hops < q.Hops
	}
	return p.Parent < q.Parent
}

// Reachable reports whether the pair carries a finite distance.
func (p Pair) Reachable() bool { return p.Hops < Inf }

func (p Pair) String() string {
	if !p.Reachable() {
		return fmt.Sprintf("(inf, %d)", p.Parent)
	}
	return fmt.Sprintf("(%d, %d)", p.Hops, p.Parent)
}

// Next returns h+1. Inf.Next() is still representable and compares greater
// than Inf, so a device never adopts a parent that has no path either.
func (h Hops) Next() Hops {
	if h >= math.MaxInt32 {
		return h
	}
	return h + 1
}

// Constrain runs one round of adaptive Bellman-Ford on key and returns the
// device's distance to the nearest source together with its parent.
// Only the hop count is exported; neighbor identities come from the field.
func Constrain(n *field.Node, key field.Key, source bool) Pair {
	loc := Inf
	if source {
		loc = 0
	}
	self := Pair{Hops: loc, Parent: n.UID()}

	return field.Share(n, key, loc, func(f field.Field[Hops]) (Pair, Hops) {
		cand := field.Map(f, func(id field.DeviceID, h Hops) Pair {
			return Pair{Hops: h.Next(), Parent: id}
		})
		best := field.MinHoodFunc(cand, self, Pair.Less)

		return best, best.Hops
	})
}
