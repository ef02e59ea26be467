// SPDX-License-Identifier: MIT
// Package: convergecast/network
//
// fixtures.go - Path, Ring, Star, Grid and Scatter constructors.
//
// Contract:
//   - Ids are handed out in ascending order from the configured first id.
//   - Path and Grid positions are spaced cfg.spacing apart, so Connect(spacing)
//     reproduces their explicit links.
//   - Returns only sentinel errors; never panics.

package network

import (
	"fmt"
	"math"
)

// File-local method tags and minima.
const (
	methodPath    = "Path"
	methodRing    = "Ring"
	methodStar    = "Star"
	methodGrid    = "Grid"
	methodScatter = "Scatter"

	minPathDevices = 1
	minRingDevices = 3
	minStarDevices = 2
	minGridDim     = 1
)

// Path builds devices 0..n-1 on a line, each linked to the next.
func Path(n int) Constructor {
	return func(t *Topology, cfg *buildConfig) error {
		if n < minPathDevices {
			return fmt.Errorf("%s: n=%d < min=%d: %w", methodPath, n, minPathDevices, ErrTooFewDevices)
		}
		ps := make([]Vec, n)
		pairs := make([][2]int, 0, n-1)
		for i := range ps {
			ps[i] = Vec{X: float64(i) * cfg.spacing}
			if i > 0 {
				pairs = append(pairs, [2]int{i - 1, i})
			}
		}
		ids, err := addAll(t, cfg, methodPath, ps)
		if err != nil {
			return err
		}
		return linkAll(t, methodPath, ids, pairs)
	}
}

// Ring builds a cycle of n devices placed on a circle.
func Ring(n int) Constructor {
	return func(t *Topology, cfg *buildConfig) error {
		if n < minRingDevices {
			return fmt.Errorf("%s: n=%d < min=%d: %w", methodRing, n, minRingDevices, ErrTooFewDevices)
		}
		// circumradius giving chord length == spacing
		radius := cfg.spacing / (2 * math.Sin(math.Pi/float64(n)))
		ps := make([]Vec, n)
		pairs := make([][2]int, 0, n)
		for i := range ps {
			a := 2 * math.Pi * float64(i) / float64(n)
			ps[i] = Vec{X: radius * math.Cos(a), Y: radius * math.Sin(a)}
			pairs = append(pairs, [2]int{i, (i + 1) % n})
		}
		ids, err := addAll(t, cfg, methodRing, ps)
		if err != nil {
			return err
		}
		return linkAll(t, methodRing, ids, pairs)
	}
}

// Star builds a center followed by n-1 leaves linked only to the center.
func Star(n int) Constructor {
	return func(t *Topology, cfg *buildConfig) error {
		if n < minStarDevices {
			return fmt.Errorf("%s: n=%d < min=%d: %w", methodStar, n, minStarDevices, ErrTooFewDevices)
		}
		ps := make([]Vec, n)
		pairs := make([][2]int, 0, n-1)
		for i := 1; i < n; i++ {
			a := 2 * math.Pi * float64(i-1) / float64(n-1)
			ps[i] = Vec{X: cfg.spacing * math.Cos(a), Y: cfg.spacing * math.Sin(a)}
			pairs = append(pairs, [2]int{0, i})
		}
		ids, err := addAll(t, cfg, methodStar, ps)
		if err != nil {
			return err
		}
		return linkAll(t, methodStar, ids, pairs)
	}
}

// Grid builds a rows×cols lattice in row-major id order with 4-neighborhood links.
func Grid(rows, cols int) Constructor {
	return func(t *Topology, cfg *buildConfig) error {
		if rows < minGridDim || cols < minGridDim {
			return fmt.Errorf("%s: %dx%d < min=%d: %w", methodGrid, rows, cols, minGridDim, ErrTooFewDevices)
		}
		ps := make([]Vec, 0, rows*cols)
		var pairs [][2]int
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				i := r*cols + c
				ps = append(ps, Vec{X: float64(c) * cfg.spacing, Y: float64(r) * cfg.spacing})
				if c > 0 {
					pairs = append(pairs, [2]int{i - 1, i})
				}
				if r > 0 {
					pairs = append(pairs, [2]int{i - cols, i})
				}
			}
		}
		ids, err := addAll(t, cfg, methodGrid, ps)
		if err != nil {
			return err
		}
		return linkAll(t, methodGrid, ids, pairs)
	}
}

// Scatter places n devices uniformly in the square [0,side]² and links them
// by range (WithRange, default spacing). The whole topology is reconnected.
func Scatter(n int, side float64) Constructor {
	return func(t *Topology, cfg *buildConfig) error {
		if n < 1 {
			return fmt.Errorf("%s: n=%d < min=1: %w", methodScatter, n, ErrTooFewDevices)
		}
		if !(side > 0) {
			return fmt.Errorf("%s: side=%v: %w", methodScatter, side, ErrBadRange)
		}
		ps := make([]Vec, n)
		for i := range ps {
			ps[i] = Vec{X: cfg.rng.Float64() * side, Y: cfg.rng.Float64() * side}
		}
		if _, err := addAll(t, cfg, methodScatter, ps); err != nil {
			return err
		}
		r := cfg.r
		if r <= 0 {
			r = cfg.spacing
		}
		if err := t.Connect(r); err != nil {
			return fmt.Errorf("%s: %w", methodScatter, err)
		}
		return nil
	}
}
