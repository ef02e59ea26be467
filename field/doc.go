// SPDX-License-Identifier: MIT

// Package field implements the one-round-delayed neighbor broadcast that every
// aggregate routine in this module is written against, together with the
// neighborhood reductions over the observed values.
//
// What
//
//   - A Node is the context of one device for one round. It carries the device
//     identity, the current time, the device's own exports from the previous
//     round and the previous-round exports of every neighbor currently in range.
//   - Each call site names an export channel with a Key. Share, Nbr, Observe and
//     Old read the previous-round values on that channel and schedule the value
//     exported on it for the next round.
//   - A Field is the resulting neighborhood view: the device's own previous value
//     plus one value per neighbor, iterated in ascending DeviceID order.
//   - MaxHood, MinHood, MinHoodFunc and SumHood fold a Field with an explicit
//     default that stands in for the device itself and is the result for an
//     empty neighborhood.
//
// Why
//
//	Devices never touch each other's state. All coordination goes through the
//	export channels, and a device only ever sees the snapshot committed at the
//	end of the previous round. The host (package sim) keeps one committed and
//	one in-progress Exports per device: a double buffer, not shared memory.
//
// Alignment
//
//	A Key must be used at most once per device per round. Reusing a key is
//	recorded as ErrDuplicateKey and reported by Node.Err; the later export wins.
//	Neighbor exports whose dynamic type does not match the call site are skipped
//	and recorded as ErrTypeMismatch.
//
// Complexity
//
//   - Gathering a Field: O(k) for k neighbors.
//   - Reductions and pointwise operators: O(k).
//
// Usage
//
//	n := field.NewNode(uid, now, own, nbrs)
//	best := field.Nbr(n, "gossip", v, func(f field.Field[float64]) float64 {
//		return max(field.MaxHood(f, f.Self()), v)
//	})
//	exports := n.Exports()
package field
