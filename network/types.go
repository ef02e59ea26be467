// SPDX-License-Identifier: MIT
// File: types.go
// Role: sentinel errors, positions and the Topology structure.

package network

import (
	"errors"
	"math"
	"sync"

	"github.com/katalvlaran/convergecast/field"
)

// Sentinel errors for topology operations.
var (
	// ErrDeviceNotFound indicates an operation referenced an unknown device.
	ErrDeviceNotFound = errors.New("network: device not found")

	// ErrDuplicateDevice indicates AddDevice was called for an existing id.
	ErrDuplicateDevice = errors.New("network: device already present")

	// ErrSelfLink indicates an attempt to link a device to itself.
	ErrSelfLink = errors.New("network: self-link not allowed")

	// ErrNoSource indicates Hops was called without any source device.
	ErrNoSource = errors.New("network: no source device")

	// ErrTooFewDevices indicates a fixture size below the constructor minimum.
	ErrTooFewDevices = errors.New("network: parameter too small")

	// ErrNilConstructor indicates a nil Constructor passed to Build.
	ErrNilConstructor = errors.New("network: nil constructor")

	// ErrBadRange indicates a non-positive or non-finite connection range.
	ErrBadRange = errors.New("network: invalid connection range")

	// ErrParentCycle indicates parent pointers that loop back on themselves.
	ErrParentCycle = errors.New("network: parent pointers form a cycle")
)

// Vec is a point or displacement in the plane.
type Vec struct {
	X, Y float64
}

// Add returns v+w.
func (v Vec) Add(w Vec) Vec { return Vec{v.X + w.X, v.Y + w.Y} }

// Sub returns v-w.
func (v Vec) Sub(w Vec) Vec { return Vec{v.X - w.X, v.Y - w.Y} }

// Scale returns k·v.
func (v Vec) Scale(k float64) Vec { return Vec{k * v.X, k * v.Y} }

// Norm returns the Euclidean length of v.
func (v Vec) Norm() float64 { return math.Hypot(v.X, v.Y) }

// Dist returns the Euclidean distance between v and w.
func (v Vec) Dist(w Vec) float64 { return v.Sub(w).Norm() }

// Topology is an undirected graph of devices with positions.
//
// mu guards both catalogs; adj is kept symmetric and never holds self-links.
type Topology struct {
	mu  sync.RWMutex
	pos map[field.DeviceID]Vec
	adj map[field.DeviceID]map[field.DeviceID]struct{}
}

// NewTopology returns an empty Topology.
func NewTopology() *Topology {
	return &Topology{
		pos: make(map[field.DeviceID]Vec),
		adj: make(map[field.DeviceID]map[field.DeviceID]struct{}),
	}
}
