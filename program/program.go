// SPDX-License-Identifier: MIT

package program

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/convergecast/abf"
	"github.com/katalvlaran/convergecast/collect"
	"github.com/katalvlaran/convergecast/field"
	"github.com/katalvlaran/convergecast/gossip"
	"github.com/katalvlaran/convergecast/mobility"
	"github.com/katalvlaran/convergecast/network"
	"github.com/katalvlaran/convergecast/sim"
)

// ErrBadParams indicates unusable deployment parameters.
var ErrBadParams = errors.New("program: invalid parameters")

// Output slot names.
const (
	SlotSource          = "source"
	SlotNodeSize        = "node_size"
	SlotNodeShape       = "node_shape"
	SlotDist            = "dist"
	SlotDistColor       = "dist_c"
	SlotDiam            = "diam"
	SlotDiamDev         = "diamdev"
	SlotCollIdeal       = "coll_ideal"
	SlotCollSimple      = "coll_simple"
	SlotCollFiltered    = "coll_filtered"
	SlotCollMaxIdeal    = "coll_max_ideal"
	SlotCollMaxSimple   = "coll_max_simple"
	SlotCollMaxFiltered = "coll_max_filtered"
	SlotCollColorSimple = "coll_c_simple"
	SlotCollColorFilt   = "coll_c_filtered"
)

// Export channels.
const (
	keyWalk     field.Key = "walk"
	keyTree     field.Key = "tree"
	keySimple   field.Key = "simple"
	keyFiltered field.Key = "filtered"
	keyDiam     field.Key = "diam"
	keyMaxSimp  field.Key = "max_simple"
	keyMaxFilt  field.Key = "max_filtered"
)

// Visual encoding of the source role.
const (
	SourceSize = 20
	NodeSize   = 12
)

// Shape is the rendered shape of a device.
type Shape uint8

const (
	Sphere Shape = iota
	Cube
)

func (s Shape) String() string {
	if s == Cube {
		return "cube"
	}
	return "sphere"
}

// Params are the deployment constants a run is built from.
type Params struct {
	Devices int     // device count, also the ideal collection result
	Side    float64 // side of the square deployment area
	Comm    float64 // communication range
	Speed   float64 // maximum device speed; 0 keeps devices still
}

// Radius returns the estimated hop radius of the deployment, at least 1.
func (p Params) Radius() int {
	return max(1, int(2.5*p.Side/p.Comm))
}

// Validate reports unusable parameters.
func (p Params) Validate() error {
	switch {
	case p.Devices < 1:
		return fmt.Errorf("%w: devices=%d", ErrBadParams, p.Devices)
	case !(p.Side > 0):
		return fmt.Errorf("%w: side=%v", ErrBadParams, p.Side)
	case !(p.Comm > 0):
		return fmt.Errorf("%w: comm=%v", ErrBadParams, p.Comm)
	case p.Speed < 0:
		return fmt.Errorf("%w: speed=%v", ErrBadParams, p.Speed)
	}
	return nil
}

// SourcePolicy decides whether the device running n is the source this round.
type SourcePolicy func(n *field.Node) bool

// ElectByTime makes device int(t/radius/2) the source at time t.
func ElectByTime(radius int) SourcePolicy {
	r := float64(max(radius, 1))
	return func(n *field.Node) bool {
		return n.UID() == field.DeviceID(int(n.Time()/r/2))
	}
}

// Fixed always elects id.
func Fixed(id field.DeviceID) SourcePolicy {
	return func(n *field.Node) bool { return n.UID() == id }
}

// Options configures a Program.
type Options struct {
	// Source elects the source; ElectByTime(radius) by default.
	Source SourcePolicy

	// Filter is the acceptance test of the filtered collection.
	Filter collect.Filter

	// OnAccept observes contributions accepted by the filtered collection.
	OnAccept func(collect.Contribution)
}

// Option mutates Options.
type Option func(*Options)

// WithSource replaces the source election policy.
func WithSource(p SourcePolicy) Option {
	return func(o *Options) {
		if p != nil {
			o.Source = p
		}
	}
}

// WithFilter replaces the acceptance test of the filtered collection.
func WithFilter(f collect.Filter) Option {
	return func(o *Options) {
		if f != nil {
			o.Filter = f
		}
	}
}

// WithOnAccept observes the filtered collection.
func WithOnAccept(fn func(collect.Contribution)) Option {
	return func(o *Options) { o.OnAccept = fn }
}

// Program is the device program. It implements sim.Program.
type Program struct {
	params Params
	radius int
	walk   mobility.RectangleWalk
	opts   Options
}

var _ sim.Program = (*Program)(nil)

// New builds the program for params.
func New(params Params, opts ...Option) (*Program, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	p := &Program{params: params, radius: params.Radius()}
	p.opts = Options{Source: ElectByTime(p.radius), Filter: collect.Monotonic}
	for _, opt := range opts {
		opt(&p.opts)
	}
	walk, err := mobility.NewRectangleWalk(network.Vec{}, network.Vec{X: params.Side, Y: params.Side}, params.Speed, 1)
	if err != nil {
		return nil, fmt.Errorf("New: %w", err)
	}
	p.walk = walk

	return p, nil
}

// Radius returns the hop radius used by the default source policy.
func (p *Program) Radius() int { return p.radius }

// Params returns the deployment constants.
func (p *Program) Params() Params { return p.params }

// Round runs one round on device d.
func (p *Program) Round(n *field.Node, d *sim.Device) {
	if p.params.Speed > 0 {
		d.Pos = p.walk.Step(n, keyWalk, d.Rand, d.Pos)
	}

	src := p.opts.Source(n)
	tree := abf.Constrain(n, keyTree, src)

	s := d.Storage
	s[SlotSource] = src
	s[SlotNodeSize], s[SlotNodeShape] = NodeSize, Sphere
	if src {
		s[SlotNodeSize], s[SlotNodeShape] = SourceSize, Cube
	}
	s[SlotDist] = tree.Hops
	s[SlotDistColor] = DistanceColor(int(tree.Hops), p.radius, tree.Reachable())

	filtOpts := []collect.Option{collect.WithFilter(p.opts.Filter), collect.WithOnAccept(p.opts.OnAccept)}
	simple := collect.Basic(n, keySimple, tree.Parent, 1)
	filtered := collect.Collect(n, keyFiltered, tree, 1, filtOpts...)

	h := 0
	if tree.Reachable() {
		h = int(tree.Hops)
	}
	diam := gossip.Max(n, keyDiam, h)
	ideal := float64(p.params.Devices)

	s[SlotDiam] = diam
	s[SlotDiamDev] = diam * p.params.Devices
	s[SlotCollIdeal] = ideal
	s[SlotCollSimple] = simple
	s[SlotCollFiltered] = filtered
	s[SlotCollMaxIdeal] = ideal
	s[SlotCollMaxSimple] = gossip.Max(n, keyMaxSimp, simple)
	s[SlotCollMaxFiltered] = gossip.Max(n, keyMaxFilt, filtered)
	s[SlotCollColorSimple] = CollectionColor(ideal, simple)
	s[SlotCollColorFilt] = CollectionColor(ideal, filtered)
}
