// SPDX-License-Identifier: MIT

// Package program is the device program of the convergecast case study: a
// tree toward a migrating source, both collection variants over it, and
// gossip of network-wide maxima, written into named output slots.
//
// Round order, per device:
//
//  1. move by a rectangle random walk, if the speed is positive;
//  2. decide whether the device is the source (SourcePolicy);
//  3. build the tree with abf.Constrain;
//  4. store the visual encoding of distance and source role;
//  5. run collect.Basic and the filtered collection, each with value 1;
//  6. gossip the diameter estimate and the maximum of each collection;
//  7. store everything under the Slot* names.
//
// The default policy moves the source every 2·radius time units, where the
// radius is the estimated hop radius of the deployment, so the tree never
// settles for long. Both the policy and the filter of the second collection
// are options.
//
// DefaultMetrics returns the registry the engine uses to turn these slots
// into one row per round; RegisterMetrics adds the same metrics to an
// existing registry and reports name clashes.
package program
