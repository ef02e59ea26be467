// SPDX-License-Identifier: MIT

// Package gossip diffuses values over the whole network by repeated
// neighbor combination.
//
// Max keeps, on every device, the largest value ever seen in its connected
// component. Any local increase reaches every device within diameter rounds;
// the running maximum never decreases once spread. It is used for estimates
// such as the network diameter or an upper bound of a collected value, never
// for correctness of the collection itself.
package gossip

import (
	"cmp"

	"github.com/katalvlaran/convergecast/field"
)

// Max returns the running network-wide maximum of v, exported on key.
func Max[T cmp.Ordered](n *field.Node, key field.Key, v T) T {
	return field.Nbr(n, key, v, func(f field.Field[T]) T {
		return max(field.MaxHood(f, f.Self()), v)
	})
}
