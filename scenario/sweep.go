// SPDX-License-Identifier: MIT

package scenario

import (
	"fmt"
	"io"
	"os"
)

// Number is a sweepable parameter type.
type Number interface {
	~int | ~uint64 | ~float64
}

// Range is the inclusive arithmetic sequence From, From+Step, ... ≤ To.
type Range[T Number] struct {
	From T `yaml:"from"`
	To   T `yaml:"to"`
	Step T `yaml:"step"`
}

// Values expands the range. A zero Step yields From alone.
func (r Range[T]) Values() []T {
	if r.Step <= 0 || r.To < r.From {
		return []T{r.From}
	}
	var out []T
	for i := 0; ; i++ {
		v := r.From + T(i)*r.Step
		if v > r.To {
			break
		}
		out = append(out, v)
	}
	return out
}

// Sweep expands Base over every combination of the ranges.
type Sweep struct {
	Base    Scenario       `yaml:"base"`
	Seeds   Range[uint64]  `yaml:"seeds"`
	Devices Range[int]     `yaml:"devices"`
	Speeds  Range[float64] `yaml:"speeds"`
}

// DefaultSweep returns the case-study sweep: 100 seeds, 100 to 1000 devices
// in steps of 300, speeds 0 to 2.
func DefaultSweep() Sweep {
	return Sweep{
		Base:    Default(),
		Seeds:   Range[uint64]{From: 0, To: 99, Step: 1},
		Devices: Range[int]{From: 100, To: 1000, Step: 300},
		Speeds:  Range[float64]{From: 0, To: 2, Step: 1},
	}
}

// Scenarios returns one validated scenario per combination, ordered by
// devices, then speed, then seed.
func (sw Sweep) Scenarios() ([]Scenario, error) {
	var out []Scenario
	for _, d := range sw.Devices.Values() {
		for _, v := range sw.Speeds.Values() {
			for _, seed := range sw.Seeds.Values() {
				s := sw.Base
				s.Devices, s.Speed, s.Seed = d, v, seed
				s.Name = fmt.Sprintf("%s/d%d-v%g-s%d", sw.Base.Name, d, v, seed)
				if err := s.Validate(); err != nil {
					return nil, err
				}
				out = append(out, s)
			}
		}
	}
	return out, nil
}

// LoadSweep decodes a sweep from r on top of DefaultSweep.
func LoadSweep(r io.Reader) (Sweep, error) {
	sw := DefaultSweep()
	if err := decode(r, &sw); err != nil {
		return Sweep{}, err
	}
	if _, err := sw.Scenarios(); err != nil {
		return Sweep{}, err
	}
	return sw, nil
}

// LoadSweepFile reads a sweep file.
func LoadSweepFile(path string) (Sweep, error) {
	f, err := os.Open(path)
	if err != nil {
		return Sweep{}, fmt.Errorf("LoadSweepFile: %w", err)
	}
	defer f.Close()

	return LoadSweep(f)
}
