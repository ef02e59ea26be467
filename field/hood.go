// SPDX-License-Identifier: MIT

package field

import "cmp"

// Number is the set of element types SumHood can fold.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// MaxHood folds the neighbors of f with max, starting from def.
// def takes the place of the device itself; pass f.Self() to include the
// device's own previous value. With no neighbors the result is def.
func MaxHood[T cmp.Ordered](f Field[T], def T) T {
	out := def
	for _, v := range f.All() {
		out = max(out, v)
	}

	return out
}

// MinHood folds the neighbors of f with min, starting from def.
func MinHood[T cmp.Ordered](f Field[T], def T) T {
	out := def
	for _, v := range f.All() {
		out = min(out, v)
	}

	return out
}

// MinHoodFunc is MinHood for types ordered by less. On ties the earlier value
// wins: def first, then neighbors in ascending id order.
func MinHoodFunc[T any](f Field[T], def T, less func(a, b T) bool) T {
	out := def
	for _, v := range f.All() {
		if less(v, out) {
			out = v
		}
	}

	return out
}

// SumHood adds the neighbors of f to def.
func SumHood[T Number](f Field[T], def T) T {
	out := def
	for _, v := range f.All() {
		out += v
	}

	return out
}
