package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/convergecast/batch"
	"github.com/katalvlaran/convergecast/metrics"
	"github.com/katalvlaran/convergecast/program"
)

// execute runs the root command with fresh flag state.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, c := range []*cobra.Command{rootCmd, runCmd, batchCmd} {
		c.Flags().VisitAll(func(f *pflag.Flag) {
			require.NoError(t, f.Value.Set(f.DefValue))
			f.Changed = false
		})
	}
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRunCommand(t *testing.T) {
	out, err := execute(t, "run", "--devices", "12", "--end", "4", "--every", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "devices=12")
	assert.Contains(t, out, program.SlotCollFiltered)
	assert.Contains(t, out, "5 rounds")
}

func TestRunCommand_Config(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: tiny\ndevices: 8\nend_time: 2\n"), 0o600))
	out, err := execute(t, "run", "--config", path, "--every", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "tiny")
	assert.Contains(t, out, "devices=8")

	_, err = execute(t, "run", "--config", filepath.Join(t.TempDir(), "none.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBatchCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweep.yaml")
	doc := "base: {name: mini, end_time: 3}\ndevices: {from: 5, to: 10, step: 5}\nspeeds: {from: 0, to: 0}\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	out, err := execute(t, "batch", "--config", path, "--seeds", "2", "--parallel", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "mini  4 runs")
	assert.Contains(t, out, "devices")
}

func TestEvery(t *testing.T) {
	rows := make([]metrics.Row, 8)
	for i := range rows {
		rows[i].Time = float64(i)
	}
	got := every(rows, 3)
	require.Len(t, got, 4)
	assert.Equal(t, []float64{0, 3, 6, 7}, []float64{got[0].Time, got[1].Time, got[2].Time, got[3].Time})
	assert.Len(t, every(rows, 1), 8)
}

func TestSummaryTable(t *testing.T) {
	s := summaryTable([]batch.Summary{{Devices: 10, Speed: 1, Runs: 2, Mean: map[string]float64{program.SlotCollSimple: 9.5}}})
	assert.Contains(t, s, "9.5")
	assert.Contains(t, s, "-")
}
