// SPDX-License-Identifier: MIT

// Package collect sums one value per device up the routing tree built by
// package abf (convergecast).
//
// # What
//
// Every device exports its tree pair and its running subtree sum. Each round
// it recomputes
//
//	sum = own value + Σ previous sums of the neighbors it accepts as children
//
// and the accepting test is a Filter:
//
//   - ParentMatch (Basic): the neighbor's exported parent is this device.
//   - Monotonic (Filtered): additionally the neighbor's exported hop count is
//     exactly this device's current hop count plus one.
//
// Transients
//
//	While the tree restructures, parent pointers are stale and may even form
//	cycles. ParentMatch then counts some subtrees twice (or along a cycle, over
//	and over) and drops others, so the total at the source overshoots or
//	undershoots. Monotonic filtering only lets mass travel along edges whose
//	distances are consistent, so a value can never circulate and no edge is
//	believed valid by both endpoints at once. Both variants agree once the tree
//	is stable.
//
// Errors
//
//	None. Inconsistency shows up only as numeric deviation from the ideal
//	count. An isolated device collects exactly its own value.
//
// Options
//
//   - WithFilter(f):     replace the acceptance test.
//   - WithOnAccept(fn):  observe each accepted contribution (tests, tracing).
package collect
