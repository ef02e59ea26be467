// SPDX-License-Identifier: MIT

package field

import (
	"errors"
	"maps"
	"slices"
)

// Sentinel errors recorded on a Node during a round.
var (
	// ErrDuplicateKey indicates that one export channel was written twice in a round.
	ErrDuplicateKey = errors.New("field: export key used twice in one round")

	// ErrTypeMismatch indicates that a neighbor exported a value of a different
	// type on a channel than the one the local call site expects.
	ErrTypeMismatch = errors.New("field: exported value has unexpected type")
)

// DeviceID identifies a device for its whole lifetime.
type DeviceID int

// Key names an export channel. One call site uses one Key.
type Key string

// Sub derives a nested channel name, e.g. Key("coll").Sub("tree") == "coll/tree".
func (k Key) Sub(name string) Key {
	return k + "/" + Key(name)
}

// Exports is the set of values one device committed at the end of a round.
// It is never mutated after construction.
type Exports struct {
	vals map[Key]any
}

// NewExports copies vals into a new Exports snapshot.
func NewExports(vals map[Key]any) Exports {
	if len(vals) == 0 {
		return Exports{}
	}

	return Exports{vals: maps.Clone(vals)}
}

// Get returns the value exported on key, if any.
func (e Exports) Get(key Key) (any, bool) {
	v, ok := e.vals[key]
	return v, ok
}

// Len reports the number of exported channels.
func (e Exports) Len() int { return len(e.vals) }

// Keys returns the exported channel names in ascending order.
func (e Exports) Keys() []Key {
	keys := make([]Key, 0, len(e.vals))
	for k := range e.vals {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	return keys
}
