package network_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/convergecast/field"
	"github.com/katalvlaran/convergecast/network"
)

// TestBuild_Errors checks parameter validation of every constructor.
func TestBuild_Errors(t *testing.T) {
	cases := map[string]network.Constructor{
		"path":    network.Path(0),
		"ring":    network.Ring(2),
		"star":    network.Star(1),
		"grid":    network.Grid(0, 3),
		"scatter": network.Scatter(0, 10),
	}
	for name, con := range cases {
		_, err := network.Build(nil, con)
		assert.ErrorIs(t, err, network.ErrTooFewDevices, name)
	}
	_, err := network.Build(nil, network.Scatter(3, -1))
	assert.ErrorIs(t, err, network.ErrBadRange)
	_, err = network.Build(nil, nil)
	assert.ErrorIs(t, err, network.ErrNilConstructor)
}

// TestBuild_Grid checks ids, positions and links of a small lattice.
func TestBuild_Grid(t *testing.T) {
	topo, err := network.Build([]network.BuildOption{network.WithSpacing(10), network.WithFirstID(100)},
		network.Grid(2, 3))
	require.NoError(t, err)

	assert.Equal(t, []field.DeviceID{100, 101, 102, 103, 104, 105}, topo.Devices())
	assert.Equal(t, 7, topo.Links())
	p, _ := topo.Position(104)
	assert.Equal(t, network.Vec{X: 10, Y: 10}, p)

	// range connectivity reproduces the lattice
	c := topo.Clone()
	require.NoError(t, c.Connect(10))
	for _, a := range topo.Devices() {
		want, _ := topo.Neighbors(a)
		got, _ := c.Neighbors(a)
		assert.Equal(t, want, got)
	}
}

// TestBuild_ScatterDeterministic verifies the seed freezes positions.
func TestBuild_ScatterDeterministic(t *testing.T) {
	opts := []network.BuildOption{network.WithSeed(42), network.WithRange(30)}
	a := network.MustBuild(opts, network.Scatter(50, 100))
	b := network.MustBuild(opts, network.Scatter(50, 100))
	for _, id := range a.Devices() {
		pa, _ := a.Position(id)
		pb, _ := b.Position(id)
		assert.Equal(t, pa, pb)
		assert.True(t, pa.X >= 0 && pa.X <= 100 && pa.Y >= 0 && pa.Y <= 100)
	}
	assert.Equal(t, a.Links(), b.Links())
}

// TestBuild_Compose gives consecutive ids across constructors.
func TestBuild_Compose(t *testing.T) {
	topo := network.MustBuild(nil, network.Star(3), network.Path(2))
	assert.Equal(t, 5, topo.Len())
	assert.True(t, topo.Linked(0, 2))
	assert.True(t, topo.Linked(3, 4))
	assert.False(t, topo.Linked(2, 3))
}
