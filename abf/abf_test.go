package abf_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/convergecast/abf"
	"github.com/katalvlaran/convergecast/field"
	"github.com/katalvlaran/convergecast/network"
	"github.com/katalvlaran/convergecast/sim"
)

// newEngine runs Constrain on every device with the given source predicate.
func newEngine(t *testing.T, topo *network.Topology, source func(n *field.Node) bool) *sim.Engine {
	t.Helper()
	prog := sim.ProgramFunc(func(n *field.Node, d *sim.Device) {
		d.Storage["tree"] = abf.Constrain(n, "abf", source(n))
	})
	e, err := sim.New(topo, prog)
	require.NoError(t, err)
	return e
}

func trees(e *sim.Engine) map[field.DeviceID]abf.Pair {
	out := map[field.DeviceID]abf.Pair{}
	for _, d := range e.Devices() {
		out[d.ID] = d.Storage["tree"].(abf.Pair)
	}
	return out
}

func parents(ps map[field.DeviceID]abf.Pair) map[field.DeviceID]field.DeviceID {
	out := make(map[field.DeviceID]field.DeviceID, len(ps))
	for id, p := range ps {
		out[id] = p.Parent
	}
	return out
}

func uidIs(id field.DeviceID) func(n *field.Node) bool {
	return func(n *field.Node) bool { return n.UID() == id }
}

// TestPair_Order checks the lexicographic order and Inf arithmetic.
func TestPair_Order(t *testing.T) {
	assert.True(t, abf.Pair{Hops: 1, Parent: 9}.Less(abf.Pair{Hops: 2, Parent: 0}))
	assert.True(t, abf.Pair{Hops: 2, Parent: 3}.Less(abf.Pair{Hops: 2, Parent: 4}))
	assert.False(t, abf.Pair{Hops: 2, Parent: 4}.Less(abf.Pair{Hops: 2, Parent: 4}))
	assert.Greater(t, abf.Inf.Next(), abf.Inf)
	assert.Equal(t, abf.Inf.Next(), abf.Inf.Next().Next())
	assert.False(t, abf.Pair{Hops: abf.Inf}.Reachable())
	assert.Equal(t, "(inf, 3)", abf.Pair{Hops: abf.Inf, Parent: 3}.String())
	assert.Equal(t, "(2, 1)", abf.Pair{Hops: 2, Parent: 1}.String())
}

// TestConstrain_Isolated returns the local baseline with self as parent.
func TestConstrain_Isolated(t *testing.T) {
	src := newEngine(t, network.MustBuild(nil, network.Path(1)), uidIs(0))
	require.NoError(t, src.Steps(3))
	assert.Equal(t, abf.Pair{Hops: 0, Parent: 0}, trees(src)[0])

	other := newEngine(t, network.MustBuild(nil, network.Path(1)), uidIs(7))
	require.NoError(t, other.Steps(3))
	assert.Equal(t, abf.Pair{Hops: abf.Inf, Parent: 0}, trees(other)[0])
}

// TestConstrain_Path converges within diameter+1 rounds.
func TestConstrain_Path(t *testing.T) {
	e := newEngine(t, network.MustBuild(nil, network.Path(5)), uidIs(0))
	require.NoError(t, e.Steps(5))
	got := trees(e)
	assert.Equal(t, abf.Pair{Hops: 0, Parent: 0}, got[0])
	for id := field.DeviceID(1); id < 5; id++ {
		assert.Equal(t, abf.Pair{Hops: abf.Hops(id), Parent: id - 1}, got[id])
	}
}

// TestConstrain_GridTieBreak picks the smallest id among equally close
// neighbors.
func TestConstrain_GridTieBreak(t *testing.T) {
	e := newEngine(t, network.MustBuild(nil, network.Grid(3, 3)), uidIs(0))
	require.NoError(t, e.Steps(6))
	got := trees(e)
	assert.Equal(t, abf.Pair{Hops: 2, Parent: 1}, got[4])
	assert.Equal(t, abf.Pair{Hops: 4, Parent: 5}, got[8])
}

// TestConstrain_MatchesBFS compares stabilized estimates with breadth-first
// search on a random geometric network that may be disconnected.
func TestConstrain_MatchesBFS(t *testing.T) {
	topo := network.MustBuild([]network.BuildOption{network.WithSeed(7), network.WithRange(15)},
		network.Scatter(60, 100))
	truth, err := network.Hops(topo, 0)
	require.NoError(t, err)

	e := newEngine(t, topo, uidIs(0))
	require.NoError(t, e.Steps(61))
	got := trees(e)
	_, err = network.ParentOrder(parents(got))
	require.NoError(t, err)

	for id, p := range got {
		depth, ok := truth.Depth[id]
		if !ok {
			assert.Equal(t, abf.Pair{Hops: abf.Inf, Parent: id}, p, "device %d is cut off", id)
			continue
		}
		assert.Equal(t, abf.Hops(depth), p.Hops, "device %d", id)
		if id == 0 {
			continue
		}
		assert.True(t, topo.Linked(id, p.Parent), "device %d parent %d not a neighbor", id, p.Parent)
		assert.Equal(t, p.Hops-1, got[p.Parent].Hops, "device %d parent %d", id, p.Parent)
	}
}

// TestConstrain_SourceMoves adapts to a new source.
func TestConstrain_SourceMoves(t *testing.T) {
	e := newEngine(t, network.MustBuild(nil, network.Path(5)), func(n *field.Node) bool {
		if n.Time() < 10 {
			return n.UID() == 0
		}
		return n.UID() == 4
	})
	require.NoError(t, e.Steps(30))
	got := trees(e)
	assert.Equal(t, abf.Pair{Hops: 0, Parent: 4}, got[4])
	for id := field.DeviceID(0); id < 4; id++ {
		assert.Equal(t, abf.Pair{Hops: abf.Hops(4 - id), Parent: id + 1}, got[id])
	}
}

// TestConstrain_CountToInfinity lets estimates rise once the source is gone,
// with the first two devices pointing at each other.
func TestConstrain_CountToInfinity(t *testing.T) {
	e := newEngine(t, network.MustBuild(nil, network.Path(3)), func(n *field.Node) bool {
		return n.UID() == 0 && n.Time() < 5
	})
	require.NoError(t, e.Steps(5))
	assert.Equal(t, abf.Hops(2), trees(e)[2].Hops)
	_, err := network.ParentOrder(parents(trees(e)))
	require.NoError(t, err)

	require.NoError(t, e.Steps(20))
	for id, p := range trees(e) {
		assert.True(t, p.Reachable(), "device %d", id)
		assert.GreaterOrEqual(t, p.Hops, abf.Hops(15), "device %d", id)
	}
	_, err = network.ParentOrder(parents(trees(e)))
	assert.ErrorIs(t, err, network.ErrParentCycle)
}
