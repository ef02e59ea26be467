// SPDX-License-Identifier: MIT

// Package scenario describes simulation runs: one Scenario per run, and a
// Sweep expanding a base scenario over seeds, device counts and speeds.
// Both load from YAML; unknown keys are rejected.
package scenario

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/convergecast/program"
)

// ErrInvalid indicates an unusable scenario or sweep.
var ErrInvalid = errors.New("scenario: invalid")

// Defaults of the case study.
const (
	DefaultComm    = 100.0
	DefaultEndTime = 250.0
	DefaultDevices = 100
	DefaultWorkers = 1

	// densityArea is the area per device used to size the deployment.
	densityArea = 3000.0
)

// SideFor returns the side of the square area holding devices at the
// default density.
func SideFor(devices int) float64 {
	return math.Sqrt(densityArea * float64(devices))
}

// Scenario is one simulation run.
type Scenario struct {
	Name    string  `yaml:"name"`
	Devices int     `yaml:"devices"`
	Speed   float64 `yaml:"speed"`
	Comm    float64 `yaml:"comm"`
	Side    float64 `yaml:"side"` // 0 means SideFor(Devices)
	EndTime float64 `yaml:"end_time"`
	Seed    uint64  `yaml:"seed"`
	Workers int     `yaml:"workers"`
}

// Default returns the reference scenario: 100 still devices, range 100,
// 250 time units.
func Default() Scenario {
	return Scenario{
		Name:    "default",
		Devices: DefaultDevices,
		Comm:    DefaultComm,
		EndTime: DefaultEndTime,
		Workers: DefaultWorkers,
	}
}

// AreaSide returns Side, or SideFor(Devices) when unset.
func (s Scenario) AreaSide() float64 {
	if s.Side > 0 {
		return s.Side
	}
	return SideFor(s.Devices)
}

// Params returns the device program constants of the run.
func (s Scenario) Params() program.Params {
	return program.Params{Devices: s.Devices, Side: s.AreaSide(), Comm: s.Comm, Speed: s.Speed}
}

// Validate reports unusable fields.
func (s Scenario) Validate() error {
	if err := s.Params().Validate(); err != nil {
		return fmt.Errorf("%w: %q: %w", ErrInvalid, s.Name, err)
	}
	switch {
	case s.Side < 0:
		return fmt.Errorf("%w: %q: side=%v", ErrInvalid, s.Name, s.Side)
	case s.EndTime < 0:
		return fmt.Errorf("%w: %q: end_time=%v", ErrInvalid, s.Name, s.EndTime)
	case s.Workers < 1:
		return fmt.Errorf("%w: %q: workers=%d", ErrInvalid, s.Name, s.Workers)
	}
	return nil
}

// Load decodes a scenario from r on top of Default and validates it.
func Load(r io.Reader) (Scenario, error) {
	s := Default()
	if err := decode(r, &s); err != nil {
		return Scenario{}, err
	}
	if err := s.Validate(); err != nil {
		return Scenario{}, err
	}
	return s, nil
}

// LoadFile reads a scenario file.
func LoadFile(path string) (Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("LoadFile: %w", err)
	}
	defer f.Close()

	return Load(f)
}

func decode(r io.Reader, v any) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}
