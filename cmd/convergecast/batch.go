// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/convergecast/batch"
	"github.com/katalvlaran/convergecast/scenario"
)

var batchFlags struct {
	config   string
	parallel int
	seeds    int
	end      float64
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run a parameter sweep and print final averages",
	Long: `Run every combination of seeds, device counts and speeds, then print the
final-round metrics averaged over seeds for each (devices, speed) pair.

Without --config the sweep covers 100 seeds, 100 to 1000 devices in steps of
300 and speeds 0 to 2.

Examples:
  # Quick look with ten seeds
  convergecast batch --seeds 10 --end 100

  # Sweep file
  convergecast batch --config sweep.yaml --parallel 4`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVarP(&batchFlags.config, "config", "c", "", "Sweep YAML file")
	batchCmd.Flags().IntVarP(&batchFlags.parallel, "parallel", "p", runtime.NumCPU(), "Concurrent runs")
	batchCmd.Flags().IntVar(&batchFlags.seeds, "seeds", 0, "Use seeds 0..n-1 instead of the configured range")
	batchCmd.Flags().Float64Var(&batchFlags.end, "end", scenario.DefaultEndTime, "Simulation end time")
}

func runBatch(cmd *cobra.Command, _ []string) error {
	sw := scenario.DefaultSweep()
	if batchFlags.config != "" {
		var err error
		if sw, err = scenario.LoadSweepFile(batchFlags.config); err != nil {
			return err
		}
	}
	if batchFlags.seeds > 0 {
		sw.Seeds = scenario.Range[uint64]{From: 0, To: uint64(batchFlags.seeds - 1), Step: 1}
	}
	if cmd.Flags().Changed("end") {
		sw.Base.EndTime = batchFlags.end
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := 0
	sums, err := batch.Sweep(ctx, sw,
		batch.WithLogger(newLogger(cmd.ErrOrStderr())),
		batch.WithParallel(batchFlags.parallel),
		batch.WithOnResult(func(batch.Result) { done++ }),
	)
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("%s  %d runs", sw.Base.Name, done)))
	fmt.Fprintln(out, summaryTable(sums))

	return err
}
