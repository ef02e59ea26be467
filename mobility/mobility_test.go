package mobility_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/convergecast/field"
	"github.com/katalvlaran/convergecast/mobility"
	"github.com/katalvlaran/convergecast/network"
)

// TestNewRectangleWalk_Errors rejects degenerate areas and speeds.
func TestNewRectangleWalk_Errors(t *testing.T) {
	_, err := mobility.NewRectangleWalk(network.Vec{X: 1, Y: 1}, network.Vec{X: 1, Y: 5}, 1, 1)
	assert.ErrorIs(t, err, mobility.ErrBadRectangle)
	_, err = mobility.NewRectangleWalk(network.Vec{}, network.Vec{X: 1, Y: 1}, -1, 1)
	assert.ErrorIs(t, err, mobility.ErrBadSpeed)
}

// TestFollow caps the displacement and snaps onto a close target.
func TestFollow(t *testing.T) {
	got := mobility.Follow(network.Vec{}, network.Vec{X: 10}, 2)
	assert.Equal(t, network.Vec{X: 2}, got)
	got = mobility.Follow(network.Vec{}, network.Vec{X: 1, Y: 1}, 2)
	assert.Equal(t, network.Vec{X: 1, Y: 1}, got)
}

// TestStep_StaysInsideAndKeepsTarget walks one device for many rounds,
// threading its exports by hand the way the engine does.
func TestStep_StaysInsideAndKeepsTarget(t *testing.T) {
	w, err := mobility.NewRectangleWalk(network.Vec{}, network.Vec{X: 100, Y: 50}, 3, 1)
	require.NoError(t, err)
	rng := rand.New(rand.NewPCG(1, 2))

	pos := network.Vec{X: 50, Y: 25}
	prev := field.Exports{}
	for round := 0; round < 500; round++ {
		n := field.NewNode(0, float64(round), prev, nil)
		next := w.Step(n, "walk", rng, pos)
		require.NoError(t, n.Err())

		assert.LessOrEqual(t, pos.Dist(next), 3+1e-9, "round %d moved too far", round)
		assert.True(t, next.X >= 0 && next.X <= 100 && next.Y >= 0 && next.Y <= 50, "round %d left the area: %v", round, next)
		pos, prev = next, n.Exports()
	}
}

// TestStep_ZeroSpeedStandsStill never moves a device with no speed.
func TestStep_ZeroSpeedStandsStill(t *testing.T) {
	w, err := mobility.NewRectangleWalk(network.Vec{}, network.Vec{X: 10, Y: 10}, 0, 1)
	require.NoError(t, err)
	n := field.NewNode(0, 0, field.Exports{}, nil)
	pos := network.Vec{X: 4, Y: 4}
	assert.Equal(t, pos, w.Step(n, "walk", rand.New(rand.NewPCG(3, 3)), pos))
}
