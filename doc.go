// SPDX-License-Identifier: MIT

// Package convergecast simulates aggregate programs on networks of devices
// and measures how data collection toward a source behaves while the
// spanning tree underneath it is still settling.
//
// What is in here?
//
//	Every device runs the same program once per round. It sees only what its
//	neighbors exported in the previous round, so any structure built on top,
//	such as a hop-count tree or a sum collected along it, converges over
//	several rounds and can be wrong in between.
//
//	The module compares two collections over the same tree:
//		• naive: a device sums every neighbor that names it as parent
//		• filtered: it also requires that neighbor to be exactly one hop farther
//		  from the source, so parent cycles cannot feed back into the sum
//
// Layout
//
//	field/      neighbor exports, call-site keys and neighborhood reductions
//	gossip/     monotone max spreading
//	abf/        adaptive Bellman-Ford (hops, parent) trees
//	collect/    naive and filtered collection along a tree
//	network/    topology, range links, BFS ground truth, fixtures
//	mobility/   random waypoint walks inside a rectangle
//	sim/        round driver: snapshot, evaluate, commit, record
//	metrics/    per-round reducers over device storage
//	program/    the case-study program, source election and colors
//	scenario/   YAML scenarios and parameter sweeps
//	batch/      runs and sweeps with per-configuration averages
//	cmd/convergecast  CLI: run and batch subcommands
//
// Quick start
//
//	convergecast run --devices 200 --speed 1 --end 100
//	convergecast batch --seeds 10 --end 100
package convergecast
