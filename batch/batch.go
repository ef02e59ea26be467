// SPDX-License-Identifier: MIT

// Package batch runs scenarios to completion and summarizes their final rows.
//
// Run executes one scenario: devices scattered uniformly over the square
// area, linked by range, running the convergecast program until EndTime.
// Sweep executes many scenarios on a bounded pool and averages the final row
// of every run sharing a (devices, speed) pair.
package batch

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/katalvlaran/convergecast/metrics"
	"github.com/katalvlaran/convergecast/network"
	"github.com/katalvlaran/convergecast/program"
	"github.com/katalvlaran/convergecast/scenario"
	"github.com/katalvlaran/convergecast/sim"
)

// ErrOptionViolation is returned when an invalid Option is supplied.
var ErrOptionViolation = errors.New("batch: invalid option supplied")

// Result is the outcome of one run.
type Result struct {
	RunID    uuid.UUID
	Scenario scenario.Scenario
	Rows     []metrics.Row
	Elapsed  time.Duration
}

// Final returns the last row, or an empty row if none was recorded.
func (r Result) Final() metrics.Row {
	if len(r.Rows) == 0 {
		return metrics.Row{Values: map[string]float64{}}
	}
	return r.Rows[len(r.Rows)-1]
}

// Summary averages the final rows of the runs of one (devices, speed) pair.
type Summary struct {
	Devices int
	Speed   float64
	Runs    int
	Mean    map[string]float64
}

// Options configures Run and Sweep.
type Options struct {
	// Logger receives one entry per finished run.
	Logger *slog.Logger

	// Parallel bounds the number of concurrent runs in Sweep.
	Parallel int

	// OnRow streams the rows of every run. With Parallel > 1 it is called
	// from several goroutines.
	OnRow func(id uuid.UUID, row metrics.Row)

	// OnResult is called after each run, serialized.
	OnResult func(Result)

	// Program adds device program options to every run.
	Program []program.Option

	err error
}

// Option configures batch behavior via functional arguments.
type Option func(*Options)

// DefaultOptions returns one run at a time with a discarding logger.
func DefaultOptions() Options {
	return Options{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Parallel: 1,
		OnRow:    func(uuid.UUID, metrics.Row) {},
		OnResult: func(Result) {},
	}
}

// WithLogger sets the structured logger, also handed to each engine.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithParallel runs up to k scenarios at once (k ≥ 1).
func WithParallel(k int) Option {
	return func(o *Options) {
		if k < 1 {
			o.err = fmt.Errorf("%w: parallel must be positive (%d)", ErrOptionViolation, k)
			return
		}
		o.Parallel = k
	}
}

// WithOnRow streams every recorded row.
func WithOnRow(fn func(id uuid.UUID, row metrics.Row)) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnRow = fn
		}
	}
}

// WithOnResult observes finished runs.
func WithOnResult(fn func(Result)) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnResult = fn
		}
	}
}

// WithProgram passes options to the device program of every run.
func WithProgram(opts ...program.Option) Option {
	return func(o *Options) { o.Program = append(o.Program, opts...) }
}

func resolve(opts []Option) (Options, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o, o.err
}

// Run executes s until its end time.
func Run(ctx context.Context, s scenario.Scenario, opts ...Option) (Result, error) {
	o, err := resolve(opts)
	if err != nil {
		return Result{}, err
	}
	res, err := run(ctx, s, &o)
	if err == nil {
		o.OnResult(res)
	}
	return res, err
}

func run(ctx context.Context, s scenario.Scenario, o *Options) (Result, error) {
	if err := s.Validate(); err != nil {
		return Result{}, err
	}
	id := uuid.New()
	log := o.Logger.With("run", id.String(), "scenario", s.Name)
	started := time.Now()

	topo, err := network.Build(
		[]network.BuildOption{network.WithSeed(s.Seed), network.WithRange(s.Comm)},
		network.Scatter(s.Devices, s.AreaSide()),
	)
	if err != nil {
		return Result{}, fmt.Errorf("Run %q: %w", s.Name, err)
	}
	prog, err := program.New(s.Params(), o.Program...)
	if err != nil {
		return Result{}, fmt.Errorf("Run %q: %w", s.Name, err)
	}
	engine, err := sim.New(topo, prog,
		sim.WithLogger(log),
		sim.WithWorkers(s.Workers),
		sim.WithRange(s.Comm),
		sim.WithSeed(s.Seed),
		sim.WithMetrics(program.DefaultMetrics()),
		sim.WithReach(program.SlotSource),
		sim.WithOnRow(func(row metrics.Row) { o.OnRow(id, row) }),
	)
	if err != nil {
		return Result{}, fmt.Errorf("Run %q: %w", s.Name, err)
	}
	if err := engine.Run(ctx, s.EndTime); err != nil {
		return Result{}, fmt.Errorf("Run %q: %w", s.Name, err)
	}

	res := Result{RunID: id, Scenario: s, Rows: engine.Rows(), Elapsed: time.Since(started)}
	final := res.Final()
	log.Info("run finished",
		"rounds", engine.Rounds(),
		"elapsed", res.Elapsed,
		"coll_simple", final.Get(program.SlotCollSimple),
		"coll_filtered", final.Get(program.SlotCollFiltered))

	return res, nil
}

// Sweep runs every scenario of sw and returns one summary per
// (devices, speed), ordered by devices then speed. Failed runs are skipped
// and reported together.
func Sweep(ctx context.Context, sw scenario.Sweep, opts ...Option) ([]Summary, error) {
	o, err := resolve(opts)
	if err != nil {
		return nil, err
	}
	all, err := sw.Scenarios()
	if err != nil {
		return nil, err
	}
	o.Logger.Info("sweep started", "runs", len(all), "parallel", o.Parallel)

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		errs    []error
		results []Result
	)
	jobs := make(chan scenario.Scenario)
	for w := 0; w < o.Parallel; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for s := range jobs {
				res, err := run(ctx, s, &o)
				mu.Lock()
				if err != nil {
					errs = append(errs, err)
				} else {
					results = append(results, res)
					o.OnResult(res)
				}
				mu.Unlock()
			}
		}()
	}
feed:
	for _, s := range all {
		select {
		case jobs <- s:
		case <-ctx.Done():
			mu.Lock()
			errs = append(errs, ctx.Err())
			mu.Unlock()
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	return Summarize(results), errors.Join(errs...)
}

// Summarize averages the final rows of results per (devices, speed).
func Summarize(results []Result) []Summary {
	type group struct {
		devices int
		speed   float64
	}
	finals := map[group][]metrics.Row{}
	for _, r := range results {
		g := group{r.Scenario.Devices, r.Scenario.Speed}
		finals[g] = append(finals[g], r.Final())
	}

	out := make([]Summary, 0, len(finals))
	for g, rows := range finals {
		values := map[string][]float64{}
		for _, row := range rows {
			for name, v := range row.Values {
				values[name] = append(values[name], v)
			}
		}
		mean := make(map[string]float64, len(values))
		for name, vs := range values {
			mean[name] = metrics.Mean(vs)
		}
		out = append(out, Summary{Devices: g.devices, Speed: g.speed, Runs: len(rows), Mean: mean})
	}
	slices.SortFunc(out, func(a, b Summary) int {
		if c := cmp.Compare(a.Devices, b.Devices); c != 0 {
			return c
		}
		return cmp.Compare(a.Speed, b.Speed)
	})

	return out
}
