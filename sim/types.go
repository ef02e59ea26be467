// SPDX-License-Identifier: MIT

package sim

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"reflect"

	"github.com/katalvlaran/convergecast/field"
	"github.com/katalvlaran/convergecast/metrics"
	"github.com/katalvlaran/convergecast/network"
)

// Sentinel errors for engine operations.
var (
	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("sim: invalid option supplied")

	// ErrDeviceNotFound is returned for an unknown device id.
	ErrDeviceNotFound = errors.New("sim: device not found")

	// ErrProgram wraps the errors devices recorded during a round.
	ErrProgram = errors.New("sim: program error")
)

// Program is run once per device per round.
type Program interface {
	Round(n *field.Node, d *Device)
}

// ProgramFunc adapts a function to Program.
type ProgramFunc func(n *field.Node, d *Device)

// Round calls f(n, d).
func (f ProgramFunc) Round(n *field.Node, d *Device) { f(n, d) }

// Device is the host-side state of one device. The engine hands it to the
// program every round; the program may move the device and write Storage.
type Device struct {
	ID      field.DeviceID
	Pos     network.Vec
	Rand    *rand.Rand
	Storage Storage
}

// Storage holds named output slots for logging and display.
type Storage map[string]any

// Float returns slot name as a float64 if it holds a number or a bool.
func (s Storage) Float(name string) (float64, bool) {
	raw, ok := s[name]
	if !ok || raw == nil {
		return 0, false
	}
	v := reflect.ValueOf(raw)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	case reflect.Bool:
		if v.Bool() {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// Bool returns slot name as a bool.
func (s Storage) Bool(name string) bool {
	b, ok := s[name].(bool)
	return ok && b
}

// Sample returns every numeric slot.
func (s Storage) Sample() metrics.Sample {
	out := make(metrics.Sample, len(s))
	for name := range s {
		if v, ok := s.Float(name); ok {
			out[name] = v
		}
	}
	return out
}

// ReachMetric is the row entry holding the number of devices connected to a
// source, when WithReach is set.
const ReachMetric = "reach"

// Options configures an Engine.
type Options struct {
	// Logger receives round and lifecycle events; discarded by default.
	Logger *slog.Logger

	// Workers is the number of goroutines running device rounds.
	Workers int

	// Range, if > 0, recomputes links from positions after every round.
	Range float64

	// Seed derives one RNG per device.
	Seed uint64

	// Start is the time of the first round; Period the time between rounds.
	Start, Period float64

	// Metrics, if set, reduces device storage into one Row per round.
	Metrics *metrics.Registry

	// ReachSlot names the boolean storage slot marking sources; if set, rows
	// carry ReachMetric computed by breadth-first search over the topology.
	ReachSlot string

	// OnRow is called with every row after it is recorded.
	OnRow func(metrics.Row)

	err error
}

// Option configures Engine behavior via functional arguments.
type Option func(*Options)

// DefaultOptions returns sequential, unseeded, static-topology options
// starting at time 0 with period 1.
func DefaultOptions() Options {
	return Options{
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Workers: 1,
		Period:  1,
		OnRow:   func(metrics.Row) {},
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithWorkers runs device rounds on k goroutines (k ≥ 1).
func WithWorkers(k int) Option {
	return func(o *Options) {
		if k < 1 {
			o.err = fmt.Errorf("%w: workers must be positive (%d)", ErrOptionViolation, k)
			return
		}
		o.Workers = k
	}
}

// WithRange enables range-based links of radius r (r > 0).
func WithRange(r float64) Option {
	return func(o *Options) {
		if !(r > 0) {
			o.err = fmt.Errorf("%w: range must be positive (%v)", ErrOptionViolation, r)
			return
		}
		o.Range = r
	}
}

// WithSeed sets the seed of the per-device RNGs.
func WithSeed(seed uint64) Option {
	return func(o *Options) { o.Seed = seed }
}

// WithClock sets the first round time and the period between rounds.
func WithClock(start, period float64) Option {
	return func(o *Options) {
		if !(period > 0) {
			o.err = fmt.Errorf("%w: period must be positive (%v)", ErrOptionViolation, period)
			return
		}
		o.Start, o.Period = start, period
	}
}

// WithMetrics records one row per round reduced by reg.
func WithMetrics(reg *metrics.Registry) Option {
	return func(o *Options) { o.Metrics = reg }
}

// WithReach adds the ground-truth reach of the sources flagged in slot.
func WithReach(slot string) Option {
	return func(o *Options) { o.ReachSlot = slot }
}

// WithOnRow registers a callback for every recorded row.
func WithOnRow(fn func(metrics.Row)) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnRow = fn
		}
	}
}
