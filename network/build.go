// SPDX-License-Identifier: MIT
// Package: convergecast/network
//
// build.go - deterministic fixture construction.
//
// Design contract:
//   - One orchestrator: Build(opts, cons...). Creates the topology, resolves the
//     config, runs constructors in order.
//   - Constructors validate parameters first and return sentinel errors; they
//     never panic.
//   - Same options, seed and constructor order give identical topologies.

package network

import (
	"fmt"
	"math/rand/v2"

	"github.com/katalvlaran/convergecast/field"
)

// Constructor adds devices and links to t using the resolved configuration.
type Constructor func(t *Topology, cfg *buildConfig) error

// BuildOption configures Build.
type BuildOption func(*buildConfig)

// Defaults used when no option overrides them.
const (
	defaultSpacing = 1.0
	defaultSeed    = 1
)

// buildConfig holds the knobs shared by all constructors.
type buildConfig struct {
	spacing float64    // distance between adjacent fixture positions
	next    int        // next device id to hand out
	rng     *rand.Rand // seeded source for Scatter
	r       float64    // range for Scatter links; <= 0 means spacing
}

func newBuildConfig(opts ...BuildOption) *buildConfig {
	cfg := &buildConfig{
		spacing: defaultSpacing,
		rng:     rand.New(rand.NewPCG(defaultSeed, 0)),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithSeed freezes the RNG used by stochastic constructors.
func WithSeed(seed uint64) BuildOption {
	return func(c *buildConfig) { c.rng = rand.New(rand.NewPCG(seed, 0)) }
}

// WithSpacing sets the distance between neighboring fixture positions.
// Non-positive values are ignored.
func WithSpacing(d float64) BuildOption {
	return func(c *buildConfig) {
		if d > 0 {
			c.spacing = d
		}
	}
}

// WithFirstID makes the first constructed device use id; later ones follow.
func WithFirstID(id field.DeviceID) BuildOption {
	return func(c *buildConfig) { c.next = int(id) }
}

// WithRange sets the connection range used by Scatter.
func WithRange(r float64) BuildOption {
	return func(c *buildConfig) { c.r = r }
}

// newID hands out the next device id.
func (c *buildConfig) newID() field.DeviceID {
	id := field.DeviceID(c.next)
	c.next++
	return id
}

// Build creates a topology and applies every constructor in order. Any
// constructor error is wrapped with "Build: %w" and returned immediately.
func Build(opts []BuildOption, cons ...Constructor) (*Topology, error) {
	t := NewTopology()
	cfg := newBuildConfig(opts...)
	for i, fn := range cons {
		if fn == nil {
			return nil, fmt.Errorf("Build: nil constructor at index %d: %w", i, ErrNilConstructor)
		}
		if err := fn(t, cfg); err != nil {
			return nil, fmt.Errorf("Build: %w", err)
		}
	}
	return t, nil
}

// MustBuild is Build for fixtures known to be valid; it panics on error.
func MustBuild(opts []BuildOption, cons ...Constructor) *Topology {
	t, err := Build(opts, cons...)
	if err != nil {
		panic(err)
	}
	return t
}

// addAll registers positions in order and returns the assigned ids.
func addAll(t *Topology, cfg *buildConfig, method string, ps []Vec) ([]field.DeviceID, error) {
	ids := make([]field.DeviceID, len(ps))
	for i, p := range ps {
		ids[i] = cfg.newID()
		if err := t.AddDevice(ids[i], p); err != nil {
			return nil, fmt.Errorf("%s: AddDevice(%d): %w", method, ids[i], err)
		}
	}
	return ids, nil
}

// linkAll links every listed index pair.
func linkAll(t *Topology, method string, ids []field.DeviceID, pairs [][2]int) error {
	for _, p := range pairs {
		if err := t.Link(ids[p[0]], ids[p[1]]); err != nil {
			return fmt.Errorf("%s: Link(%d,%d): %w", method, ids[p[0]], ids[p[1]], err)
		}
	}
	return nil
}
