// SPDX-License-Identifier: MIT

// Package metrics reduces per-device output values into one row per logged
// round.
//
// A Registry maps a metric name to a Reducer. The set of tracked quantities
// stays open: callers register what they need, and every row holds one value
// per registered name whose slot was present on at least one device.
package metrics

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"
)

// Sentinel errors for registry operations.
var (
	// ErrEmptyName indicates a metric registered without a name.
	ErrEmptyName = errors.New("metrics: empty metric name")

	// ErrDuplicateMetric indicates a name registered twice.
	ErrDuplicateMetric = errors.New("metrics: metric already registered")

	// ErrNilReducer indicates a metric registered without a reducer.
	ErrNilReducer = errors.New("metrics: nil reducer")
)

// Reducer folds the values one metric took across devices. It is never
// called with an empty slice.
type Reducer func(values []float64) float64

// Max returns the largest value.
func Max(values []float64) float64 { return slices.Max(values) }

// Min returns the smallest value.
func Min(values []float64) float64 { return slices.Min(values) }

// Sum returns the total.
func Sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

// Mean returns the arithmetic mean.
func Mean(values []float64) float64 { return Sum(values) / float64(len(values)) }

// Sample is the set of numeric outputs of one device in one round.
type Sample map[string]float64

// Row is the reduction of all samples of one round.
type Row struct {
	Time   float64
	Values map[string]float64
}

// Get returns the value of name, NaN if absent.
func (r Row) Get(name string) float64 {
	v, ok := r.Values[name]
	if !ok {
		return math.NaN()
	}
	return v
}

// Registry maps metric names to reducers. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	names    []string // registration order
	reducers map[string]Reducer
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{reducers: make(map[string]Reducer)}
}

// Register adds name with reducer red.
func (r *Registry) Register(name string, red Reducer) error {
	if name == "" {
		return ErrEmptyName
	}
	if red == nil {
		return fmt.Errorf("%w: %q", ErrNilReducer, name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.reducers[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateMetric, name)
	}
	r.names = append(r.names, name)
	r.reducers[name] = red

	return nil
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.names)
}

// Reduce builds the row of time t from the device samples. Metrics that no
// device reported are left out of the row.
func (r *Registry) Reduce(t float64, samples []Sample) Row {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row := Row{Time: t, Values: make(map[string]float64, len(r.names))}
	vals := make([]float64, 0, len(samples))
	for _, name := range r.names {
		vals = vals[:0]
		for _, s := range samples {
			if v, ok := s[name]; ok {
				vals = append(vals, v)
			}
		}
		if len(vals) > 0 {
			row.Values[name] = r.reducers[name](vals)
		}
	}

	return row
}
