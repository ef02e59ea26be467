// SPDX-License-Identifier: MIT

// Package mobility moves devices between rounds.
//
// RectangleWalk is a random waypoint walk: a device picks a uniform target in
// an axis-aligned rectangle, moves toward it by at most Speed·Period per round,
// and draws a new target once it arrives. The current target is device-local
// state carried across rounds with field.Old, so no neighbor ever sees it
// influence its own computation.
package mobility

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/convergecast/field"
	"github.com/katalvlaran/convergecast/network"
)

// ErrBadRectangle indicates an empty or inverted walking area.
var ErrBadRectangle = errors.New("mobility: invalid rectangle")

// ErrBadSpeed indicates a negative or non-finite speed or period.
var ErrBadSpeed = errors.New("mobility: invalid speed")

// Rand is the randomness a walk needs; *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
}

// RectangleWalk describes a random waypoint walk in [Low, High].
type RectangleWalk struct {
	Low, High network.Vec
	Speed     float64 // maximum distance per time unit
	Period    float64 // time units per round
}

// NewRectangleWalk validates and returns a walk.
func NewRectangleWalk(low, high network.Vec, speed, period float64) (RectangleWalk, error) {
	if !(high.X > low.X) || !(high.Y > low.Y) {
		return RectangleWalk{}, fmt.Errorf("%w: low=%v high=%v", ErrBadRectangle, low, high)
	}
	if speed < 0 || period < 0 || math.IsInf(speed, 0) || math.IsNaN(speed) || math.IsNaN(period) {
		return RectangleWalk{}, fmt.Errorf("%w: speed=%v period=%v", ErrBadSpeed, speed, period)
	}
	return RectangleWalk{Low: low, High: high, Speed: speed, Period: period}, nil
}

// waypoint is the device-local walk state.
type waypoint struct {
	Target network.Vec
	Set    bool
}

// Target draws a uniform point of the rectangle.
func (w RectangleWalk) Target(rng Rand) network.Vec {
	return network.Vec{
		X: w.Low.X + rng.Float64()*(w.High.X-w.Low.X),
		Y: w.Low.Y + rng.Float64()*(w.High.Y-w.Low.Y),
	}
}

// Step returns the position after one round, keeping the target on key.
func (w RectangleWalk) Step(n *field.Node, key field.Key, rng Rand, pos network.Vec) network.Vec {
	reach := w.Speed * w.Period
	wp := field.Old(n, key, waypoint{}, func(prev waypoint) waypoint {
		if !prev.Set || pos.Dist(prev.Target) <= reach {
			return waypoint{Target: w.Target(rng), Set: true}
		}
		return prev
	})

	return Follow(pos, wp.Target, reach)
}

// Follow moves pos toward target by at most reach.
func Follow(pos, target network.Vec, reach float64) network.Vec {
	d := target.Sub(pos)
	dist := d.Norm()
	if dist <= reach {
		return target
	}
	return pos.Add(d.Scale(reach / dist))
}
