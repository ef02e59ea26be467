// SPDX-License-Identifier: MIT

// Package sim executes an aggregate program on every device of a network,
// one synchronous round per time step.
//
// What
//
//   - Engine owns the devices, their positions and per-device RNGs, and a
//     network.Topology deciding who is in range.
//   - Each round every device runs the Program against a field.Node built
//     from the snapshot committed at the end of the previous round. When all
//     devices are done, their new exports replace the snapshot at once
//     (double buffer), positions are written back and, if a range is
//     configured, links are recomputed for the next round.
//   - A metrics.Registry, if configured, reduces the numeric Storage slots of
//     all devices into one Row per round.
//
// Concurrency model
//
//	Within a round devices only read the immutable committed snapshot and
//	write their own Device and their own export buffer, so WithWorkers(k) runs
//	them on k goroutines with results identical to sequential execution.
//	Engine methods are serialized by an internal mutex.
//
// Scheduling
//
//	Step runs exactly one round. Run schedules one event per round on a
//	github.com/iti/evt discrete-event manager until the given time, checking
//	ctx between rounds. Round i runs at Start + i*Period, so the clock does
//	not drift with fractional periods. evtm managers share a package-level
//	event counter; Run serializes scheduling so several engines may run on
//	separate goroutines.
//
// Errors
//
//   - ErrOptionViolation  invalid Option.
//   - ErrDeviceNotFound   unknown device in Device/Remove.
//   - ErrProgram          alignment errors recorded by devices in a round
//     (joined per device; the round is still committed).
package sim
