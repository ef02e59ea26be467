// SPDX-License-Identifier: MIT

package collect

import (
	"github.com/katalvlaran/convergecast/abf"
	"github.com/katalvlaran/convergecast/field"
)

// Filter decides whether the neighbor whose previous-round tree pair is nbr
// contributes to the sum of device self, whose current pair is mine.
type Filter func(self field.DeviceID, mine, nbr abf.Pair) bool

// ParentMatch accepts every neighbor that names self as its parent.
func ParentMatch(self field.DeviceID, _ abf.Pair, nbr abf.Pair) bool {
	return nbr.Parent == self
}

// Monotonic accepts a neighbor only along a distance-consistent edge: it names
// self as parent and sits exactly one hop further from the source.
func Monotonic(self field.DeviceID, mine, nbr abf.Pair) bool {
	return mine.Reachable() && nbr.Hops == mine.Hops+1 && nbr.Parent == self
}

// Contribution describes one accepted child sum.
type Contribution struct {
	From  field.DeviceID
	To    field.DeviceID
	Tree  abf.Pair // child's previous-round pair
	Mine  abf.Pair // parent's current pair
	Value float64
}

// Options configures Collect.
type Options struct {
	// Filter is the acceptance test; ParentMatch by default.
	Filter Filter

	// OnAccept is called for every accepted contribution, in ascending
	// neighbor order.
	OnAccept func(c Contribution)
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns the naive configuration with a no-op hook.
func DefaultOptions() Options {
	return Options{
		Filter:   ParentMatch,
		OnAccept: func(Contribution) {},
	}
}

// WithFilter sets the acceptance test. nil keeps the current one.
func WithFilter(f Filter) Option {
	return func(o *Options) {
		if f != nil {
			o.Filter = f
		}
	}
}

// WithOnAccept registers a hook run on each accepted contribution.
func WithOnAccept(fn func(c Contribution)) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnAccept = fn
		}
	}
}

// Collect returns the sum of v over the subtree rooted at the device, as far
// as the previous round lets it see, using key and its sub-channels.
func Collect(n *field.Node, key field.Key, tree abf.Pair, v float64, opts ...Option) float64 {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	trees := field.Observe(n, key.Sub("tree"), tree)
	self := n.UID()

	return field.Nbr(n, key.Sub("sum"), v, func(sums field.Field[float64]) float64 {
		out := v
		for id, s := range sums.All() {
			nbr, ok := trees.Get(id)
			if !ok || !o.Filter(self, tree, nbr) {
				continue
			}
			o.OnAccept(Contribution{From: id, To: self, Tree: nbr, Mine: tree, Value: s})
			out += s
		}

		return out
	})
}

// Basic is the naive collection: children are the neighbors whose exported
// parent is this device.
func Basic(n *field.Node, key field.Key, parent field.DeviceID, v float64, opts ...Option) float64 {
	opts = append([]Option{WithFilter(ParentMatch)}, opts...)
	return Collect(n, key, abf.Pair{Parent: parent}, v, opts...)
}

// Filtered is the monotonically filtered collection.
func Filtered(n *field.Node, key field.Key, tree abf.Pair, v float64, opts ...Option) float64 {
	opts = append([]Option{WithFilter(Monotonic)}, opts...)
	return Collect(n, key, tree, v, opts...)
}
