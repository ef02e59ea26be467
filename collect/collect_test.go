package collect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/convergecast/abf"
	"github.com/katalvlaran/convergecast/collect"
	"github.com/katalvlaran/convergecast/field"
	"github.com/katalvlaran/convergecast/network"
	"github.com/katalvlaran/convergecast/sim"
)

// counts runs both collections of value on a tree toward the source.
func counts(source func(n *field.Node) bool, value func(n *field.Node) float64, opts ...collect.Option) sim.Program {
	return sim.ProgramFunc(func(n *field.Node, d *sim.Device) {
		tree := abf.Constrain(n, "abf", source(n))
		v := value(n)
		d.Storage["basic"] = collect.Basic(n, "basic", tree.Parent, v)
		d.Storage["filtered"] = collect.Filtered(n, "filtered", tree, v, opts...)
	})
}

func one(*field.Node) float64 { return 1 }

func uidIs(id field.DeviceID) func(n *field.Node) bool {
	return func(n *field.Node) bool { return n.UID() == id }
}

func storage(t *testing.T, e *sim.Engine, id field.DeviceID, slot string) float64 {
	t.Helper()
	d, err := e.Device(id)
	require.NoError(t, err)
	return d.Storage[slot].(float64)
}

// TestCollect_Isolated returns the local value.
func TestCollect_Isolated(t *testing.T) {
	e, err := sim.New(network.MustBuild(nil, network.Path(1)), counts(uidIs(0),
		func(*field.Node) float64 { return 5 }))
	require.NoError(t, err)
	require.NoError(t, e.Steps(3))
	assert.Equal(t, 5.0, storage(t, e, 0, "basic"))
	assert.Equal(t, 5.0, storage(t, e, 0, "filtered"))
}

// TestCollect_ExactCount checks that both variants count every reachable
// device once the network is stable.
func TestCollect_ExactCount(t *testing.T) {
	cases := map[string]*network.Topology{
		"path":  network.MustBuild(nil, network.Path(6)),
		"grid":  network.MustBuild(nil, network.Grid(4, 4)),
		"ring":  network.MustBuild(nil, network.Ring(7)),
		"split": network.MustBuild(nil, network.Star(4), network.Path(3)),
		"scatter": network.MustBuild([]network.BuildOption{network.WithSeed(3), network.WithRange(20)},
			network.Scatter(40, 100)),
	}
	for name, topo := range cases {
		t.Run(name, func(t *testing.T) {
			truth, err := network.Hops(topo, 0)
			require.NoError(t, err)
			e, err := sim.New(topo, counts(uidIs(0), one))
			require.NoError(t, err)
			require.NoError(t, e.Steps(2*topo.Len()+2))

			want := float64(truth.Reachable())
			assert.Equal(t, want, storage(t, e, 0, "basic"))
			assert.Equal(t, want, storage(t, e, 0, "filtered"))
		})
	}
}

// TestCollect_Subtrees checks partial sums on a stable path.
func TestCollect_Subtrees(t *testing.T) {
	e, err := sim.New(network.MustBuild(nil, network.Path(4)), counts(uidIs(0),
		func(n *field.Node) float64 { return float64(n.UID()) }))
	require.NoError(t, err)
	require.NoError(t, e.Steps(10))
	for id, want := range map[field.DeviceID]float64{0: 6, 1: 6, 2: 5, 3: 3} {
		assert.Equal(t, want, storage(t, e, id, "basic"), "device %d", id)
		assert.Equal(t, want, storage(t, e, id, "filtered"), "device %d", id)
	}
}

// TestCollect_CountToInfinity removes the only source of a three-device path.
// While distances count upward, the naive variant counts devices more than
// once; the filtered one never exceeds the device count.
func TestCollect_CountToInfinity(t *testing.T) {
	source := func(n *field.Node) bool { return n.UID() == 0 && n.Time() < 6 }
	e, err := sim.New(network.MustBuild(nil, network.Path(3)), counts(source, one))
	require.NoError(t, err)

	require.NoError(t, e.Steps(6))
	assert.Equal(t, 3.0, storage(t, e, 0, "basic"))
	assert.Equal(t, 3.0, storage(t, e, 0, "filtered"))

	naive := 0.0
	for round := 0; round < 30; round++ {
		require.NoError(t, e.Step())
		for _, d := range e.Devices() {
			naive = max(naive, d.Storage["basic"].(float64))
			assert.LessOrEqual(t, d.Storage["filtered"].(float64), 3.0, "device %d round %d", d.ID, round)
		}
	}
	assert.Greater(t, naive, 3.0)

	// Two rounds after the loss the middle device adds its own subtree again.
	e, err = sim.New(network.MustBuild(nil, network.Path(3)), counts(source, one))
	require.NoError(t, err)
	require.NoError(t, e.Steps(8))
	assert.Equal(t, 5.0, storage(t, e, 1, "basic"))
}

// TestCollect_OneHotDoubleCount sums a value held only by the far end: after
// the source is lost the naive sum reports it more than once.
func TestCollect_OneHotDoubleCount(t *testing.T) {
	source := func(n *field.Node) bool { return n.UID() == 0 && n.Time() < 6 }
	hot := func(n *field.Node) float64 {
		if n.UID() == 2 {
			return 1
		}
		return 0
	}
	e, err := sim.New(network.MustBuild(nil, network.Path(3)), counts(source, hot))
	require.NoError(t, err)

	naive := 0.0
	for round := 0; round < 20; round++ {
		require.NoError(t, e.Step())
		for _, d := range e.Devices() {
			naive = max(naive, d.Storage["basic"].(float64))
			assert.LessOrEqual(t, d.Storage["filtered"].(float64), 1.0, "device %d round %d", d.ID, round)
		}
	}
	assert.Greater(t, naive, 1.0)
}

// TestFiltered_AcceptsOnlyConsistentEdges watches every accepted
// contribution while the source moves around a grid.
func TestFiltered_AcceptsOnlyConsistentEdges(t *testing.T) {
	var accepted []collect.Contribution
	hook := collect.WithOnAccept(func(c collect.Contribution) { accepted = append(accepted, c) })
	source := func(n *field.Node) bool {
		return n.UID() == field.DeviceID(int(n.Time())/7*6%25)
	}
	e, err := sim.New(network.MustBuild(nil, network.Grid(5, 5)), counts(source, one, hook))
	require.NoError(t, err)
	require.NoError(t, e.Steps(60))

	require.NotEmpty(t, accepted)
	for _, c := range accepted {
		assert.Equal(t, c.To, c.Tree.Parent)
		assert.True(t, c.Mine.Reachable())
		assert.Equal(t, c.Mine.Hops+1, c.Tree.Hops, "%d -> %d", c.From, c.To)
	}
}

// TestFiltered_ParentSwitch moves the source of a four-device ring so that
// device 2, linked to both 1 and 3, changes parent from 1 to 3. Each child is
// accepted by at most one parent per round, while the naive sum still counts
// the moving subtree twice across rounds.
func TestFiltered_ParentSwitch(t *testing.T) {
	source := func(n *field.Node) bool {
		if n.Time() < 8 {
			return n.UID() == 0
		}
		return n.UID() == 3
	}
	round := 0
	accepted := map[int][]collect.Contribution{}
	hook := collect.WithOnAccept(func(c collect.Contribution) {
		accepted[round] = append(accepted[round], c)
	})
	prog := sim.ProgramFunc(func(n *field.Node, d *sim.Device) {
		counts(source, one, hook).Round(n, d)
		d.Storage["tree"] = abf.Constrain(n, "parent", source(n))
	})
	e, err := sim.New(network.MustBuild(nil, network.Ring(4)), prog)
	require.NoError(t, err)

	parents := map[field.DeviceID]bool{}
	naive := 0.0
	for ; round < 30; round++ {
		require.NoError(t, e.Step())
		d, err := e.Device(2)
		require.NoError(t, err)
		parents[d.Storage["tree"].(abf.Pair).Parent] = true
		for _, d := range e.Devices() {
			naive = max(naive, d.Storage["basic"].(float64))
			assert.LessOrEqual(t, d.Storage["filtered"].(float64), 4.0, "device %d round %d", d.ID, round)
		}
	}
	assert.True(t, parents[1] && parents[3], "device 2 parents %v", parents)
	assert.Greater(t, naive, 4.0)

	into := map[field.DeviceID]bool{}
	for r, cs := range accepted {
		from := map[field.DeviceID]field.DeviceID{}
		for _, c := range cs {
			prev, dup := from[c.From]
			assert.False(t, dup, "round %d: device %d accepted by %d and %d", r, c.From, prev, c.To)
			from[c.From] = c.To
			if c.From == 2 {
				into[c.To] = true
			}
		}
	}
	assert.True(t, into[1] && into[3], "device 2 accepted by %v", into)
	assert.Equal(t, 4.0, storage(t, e, 3, "filtered"))
}

// TestCollect_CustomFilter replaces the acceptance test.
func TestCollect_CustomFilter(t *testing.T) {
	none := collect.WithFilter(func(field.DeviceID, abf.Pair, abf.Pair) bool { return false })
	prog := sim.ProgramFunc(func(n *field.Node, d *sim.Device) {
		tree := abf.Constrain(n, "abf", n.UID() == 0)
		d.Storage["sum"] = collect.Collect(n, "c", tree, 1, none)
	})
	e, err := sim.New(network.MustBuild(nil, network.Star(5)), prog)
	require.NoError(t, err)
	require.NoError(t, e.Steps(5))
	assert.Equal(t, 1.0, storage(t, e, 0, "sum"))
}
