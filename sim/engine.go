// SPDX-License-Identifier: MIT

package sim

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/iti/evt/evtm"
	"github.com/iti/evt/vrtime"

	"github.com/katalvlaran/convergecast/field"
	"github.com/katalvlaran/convergecast/metrics"
	"github.com/katalvlaran/convergecast/network"
)

// Engine runs a Program over a topology in synchronous rounds.
type Engine struct {
	mu sync.Mutex

	topo    *network.Topology
	prog    Program
	opts    Options
	now     float64
	rounds  int
	devices map[field.DeviceID]*Device

	// committed holds the exports neighbors read in the next round.
	committed map[field.DeviceID]field.Exports
	rows      []metrics.Row
}

// New wraps topo, creating one Device per topology device at its position.
// The engine takes ownership of topo.
func New(topo *network.Topology, prog Program, opts ...Option) (*Engine, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	if topo == nil {
		topo = network.NewTopology()
	}

	e := &Engine{
		topo:      topo,
		prog:      prog,
		opts:      o,
		now:       o.Start,
		devices:   make(map[field.DeviceID]*Device, topo.Len()),
		committed: make(map[field.DeviceID]field.Exports, topo.Len()),
	}
	for _, id := range topo.Devices() {
		pos, _ := topo.Position(id)
		e.devices[id] = e.newDevice(id, pos)
	}
	if o.Range > 0 {
		if err := topo.Connect(o.Range); err != nil {
			return nil, fmt.Errorf("New: %w", err)
		}
	}
	o.Logger.Debug("engine created", "devices", topo.Len(), "workers", o.Workers, "range", o.Range)

	return e, nil
}

func (e *Engine) newDevice(id field.DeviceID, pos network.Vec) *Device {
	return &Device{
		ID:      id,
		Pos:     pos,
		Rand:    rand.New(rand.NewPCG(e.opts.Seed, uint64(id))),
		Storage: make(Storage),
	}
}

// Now returns the time of the next round.
func (e *Engine) Now() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.now
}

// Rounds returns the number of rounds executed.
func (e *Engine) Rounds() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.rounds
}

// Topology returns the live topology. Callers must not mutate it while a
// round is running.
func (e *Engine) Topology() *network.Topology { return e.topo }

// Device returns the device id.
func (e *Engine) Device(id field.DeviceID) (*Device, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	d, ok := e.devices[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrDeviceNotFound, id)
	}

	return d, nil
}

// Devices returns every device in ascending id order.
func (e *Engine) Devices() []*Device {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]*Device, 0, len(e.devices))
	for _, id := range e.topo.Devices() {
		out = append(out, e.devices[id])
	}

	return out
}

// Exports returns the exports device id committed in the last round.
func (e *Engine) Exports(id field.DeviceID) (field.Exports, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ex, ok := e.committed[id]

	return ex, ok
}

// Rows returns a copy of the recorded metric rows.
func (e *Engine) Rows() []metrics.Row {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]metrics.Row, len(e.rows))
	copy(out, e.rows)

	return out
}

// Spawn adds device id at pos. It takes part from the next round on and is
// visible to its neighbors one round later.
func (e *Engine) Spawn(id field.DeviceID, pos network.Vec) (*Device, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.topo.AddDevice(id, pos); err != nil {
		return nil, fmt.Errorf("Spawn: %w", err)
	}
	d := e.newDevice(id, pos)
	e.devices[id] = d
	if e.opts.Range > 0 {
		if err := e.topo.Connect(e.opts.Range); err != nil {
			return nil, fmt.Errorf("Spawn: %w", err)
		}
	}
	e.opts.Logger.Debug("device spawned", "id", id, "x", pos.X, "y", pos.Y)

	return d, nil
}

// Remove deletes device id together with its links and exports.
func (e *Engine) Remove(id field.DeviceID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.devices[id]; !ok {
		return fmt.Errorf("Remove: %w: %d", ErrDeviceNotFound, id)
	}
	if err := e.topo.RemoveDevice(id); err != nil {
		return fmt.Errorf("Remove: %w", err)
	}
	delete(e.devices, id)
	delete(e.committed, id)
	e.opts.Logger.Debug("device removed", "id", id)

	return nil
}

// Step runs one round on every device and commits its results.
func (e *Engine) Step() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.step()
}

// Steps runs k rounds, stopping at the first error.
func (e *Engine) Steps(k int) error {
	for i := 0; i < k; i++ {
		if err := e.Step(); err != nil {
			return err
		}
	}

	return nil
}

// scheduleMu serializes evtm.Schedule, which numbers events through a
// package-level counter shared by every EventManager.
var scheduleMu sync.Mutex

func schedule(m *evtm.EventManager, e *Engine, fn evtm.EventHandlerFunction, after float64) {
	scheduleMu.Lock()
	defer scheduleMu.Unlock()
	m.Schedule(e, nil, fn, vrtime.SecondsToTime(after))
}

// Run executes rounds while their time is ≤ until, one discrete event per
// round, and stops early when ctx is done. Engines may Run concurrently.
func (e *Engine) Run(ctx context.Context, until float64) error {
	mgr := evtm.New()
	var runErr error

	var tick evtm.EventHandlerFunction
	tick = func(m *evtm.EventManager, _ any, _ any) any {
		if err := ctx.Err(); err != nil {
			runErr = err
			return nil
		}
		if err := e.Step(); err != nil {
			runErr = err
			return nil
		}
		if e.Now() <= until+e.opts.Period*1e-9 {
			schedule(m, e, tick, e.opts.Period)
		}
		return nil
	}

	start := e.Now()
	if start > until {
		return nil
	}
	schedule(mgr, e, tick, 0)
	mgr.Run(until - start + 2*e.opts.Period)

	return runErr
}

func (e *Engine) step() error {
	ids := e.topo.Devices()
	next := make([]field.Exports, len(ids))
	errs := make([]error, len(ids))

	run := func(i int) {
		id := ids[i]
		nbrs, _ := e.topo.Neighbors(id)
		inbox := make(map[field.DeviceID]field.Exports, len(nbrs))
		for _, nb := range nbrs {
			if ex, ok := e.committed[nb]; ok {
				inbox[nb] = ex
			}
		}
		n := field.NewNode(id, e.now, e.committed[id], inbox)
		e.prog.Round(n, e.devices[id])
		next[i] = n.Exports()
		if err := n.Err(); err != nil {
			errs[i] = fmt.Errorf("device %d: %w", id, err)
		}
	}

	if e.opts.Workers <= 1 || len(ids) < 2 {
		for i := range ids {
			run(i)
		}
	} else {
		jobs := make(chan int)
		var wg sync.WaitGroup
		for w := 0; w < e.opts.Workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range jobs {
					run(i)
				}
			}()
		}
		for i := range ids {
			jobs <- i
		}
		close(jobs)
		wg.Wait()
	}

	committed := make(map[field.DeviceID]field.Exports, len(ids))
	for i, id := range ids {
		committed[id] = next[i]
	}
	e.committed = committed

	if e.opts.Metrics != nil {
		e.record(ids)
	}
	for _, id := range ids {
		_ = e.topo.SetPosition(id, e.devices[id].Pos)
	}
	if e.opts.Range > 0 {
		if err := e.topo.Connect(e.opts.Range); err != nil {
			return fmt.Errorf("Step: %w", err)
		}
	}

	t := e.now
	e.rounds++
	e.now = e.opts.Start + float64(e.rounds)*e.opts.Period

	if err := errors.Join(errs...); err != nil {
		e.opts.Logger.Warn("round reported errors", "time", t, "error", err)
		return fmt.Errorf("%w at t=%v: %w", ErrProgram, t, err)
	}

	return nil
}

// record reduces device storage into the row of the current round. Reach is
// measured on the links that carried this round's messages.
func (e *Engine) record(ids []field.DeviceID) {
	samples := make([]metrics.Sample, 0, len(ids))
	var sources []field.DeviceID
	for _, id := range ids {
		d := e.devices[id]
		samples = append(samples, d.Storage.Sample())
		if e.opts.ReachSlot != "" && d.Storage.Bool(e.opts.ReachSlot) {
			sources = append(sources, id)
		}
	}

	row := e.opts.Metrics.Reduce(e.now, samples)
	if e.opts.ReachSlot != "" {
		reach := 0
		if len(sources) > 0 {
			if res, err := network.Hops(e.topo, sources...); err == nil {
				reach = res.Reachable()
			}
		}
		row.Values[ReachMetric] = float64(reach)
	}
	e.rows = append(e.rows, row)
	e.opts.Logger.Debug("round", "time", row.Time, "values", row.Values)
	e.opts.OnRow(row)
}
