// SPDX-License-Identifier: MIT

// Package network models the idealized connectivity of a set of devices:
// who is in range of whom, where every device stands, and the true hop
// distances that the distributed estimates are measured against.
//
// What
//
//   - Topology: a thread-safe, undirected, loop-free graph of DeviceIDs with one
//     position per device. Links can be set explicitly (fixtures, tests) or
//     recomputed from positions with Connect(r): two devices are linked iff
//     their Euclidean distance is at most r.
//   - Hops: multi-source breadth-first search returning ground-truth hop
//     distances, BFS parents and visit order. Diameter: largest finite
//     eccentricity over all components.
//   - Build: deterministic fixture construction from Constructors (Path, Ring,
//     Star, Grid, Scatter) with functional BuildOptions (WithSeed, WithSpacing,
//     WithFirstID, WithRange).
//
// Determinism
//
//	Devices and Neighbors are returned in ascending id order and BFS enqueues
//	neighbors in that order, so visit order and parents are reproducible.
//	Stochastic constructors use a seeded RNG resolved from WithSeed.
//
// Concurrency
//
//	All Topology methods take an internal sync.RWMutex; readers never block
//	each other.
//
// Complexity (V devices, E links)
//
//   - AddDevice/Link/Unlink: O(1) amortized.
//   - Neighbors: O(d log d) for degree d (sorted copy).
//   - Connect(r): O(V + E) expected with cell bucketing of side r.
//   - Hops: O(V + E). Diameter: O(V·(V + E)).
//
// Errors
//
//   - ErrDeviceNotFound   unknown device id.
//   - ErrDuplicateDevice  AddDevice on an existing id.
//   - ErrSelfLink         Link(a, a).
//   - ErrNoSource         Hops called without sources.
//   - ErrTooFewDevices    fixture parameter below its minimum.
//   - ErrBadRange         non-positive or non-finite connection range.
//   - ErrNilConstructor   nil Constructor passed to Build.
package network
