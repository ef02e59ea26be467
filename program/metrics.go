// SPDX-License-Identifier: MIT

package program

import (
	"fmt"

	"github.com/katalvlaran/convergecast/metrics"
)

// Aggregated are the slots reduced with Max into every row.
var Aggregated = []string{
	SlotDiam,
	SlotDiamDev,
	SlotCollIdeal,
	SlotCollSimple,
	SlotCollFiltered,
	SlotCollMaxIdeal,
	SlotCollMaxSimple,
	SlotCollMaxFiltered,
}

// RegisterMetrics adds the maximum of every Aggregated slot and the number
// of sources to reg. It fails if reg already holds one of those names.
func RegisterMetrics(reg *metrics.Registry) error {
	for _, name := range Aggregated {
		if err := reg.Register(name, metrics.Max); err != nil {
			return fmt.Errorf("RegisterMetrics: %w", err)
		}
	}
	if err := reg.Register(SlotSource, metrics.Sum); err != nil {
		return fmt.Errorf("RegisterMetrics: %w", err)
	}

	return nil
}

// DefaultMetrics returns a fresh registry filled by RegisterMetrics.
// It panics on error, like network.MustBuild.
func DefaultMetrics() *metrics.Registry {
	reg := metrics.NewRegistry()
	if err := RegisterMetrics(reg); err != nil {
		panic(err)
	}

	return reg
}
