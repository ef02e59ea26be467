// SPDX-License-Identifier: MIT

package main

import (
	"math"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/katalvlaran/convergecast/batch"
	"github.com/katalvlaran/convergecast/metrics"
	"github.com/katalvlaran/convergecast/program"
	"github.com/katalvlaran/convergecast/sim"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// rowColumns are the metrics shown per round.
var rowColumns = []string{
	program.SlotSource,
	sim.ReachMetric,
	program.SlotDiam,
	program.SlotCollSimple,
	program.SlotCollFiltered,
	program.SlotCollMaxSimple,
	program.SlotCollMaxFiltered,
}

// summaryColumns are the averaged metrics shown per (devices, speed).
var summaryColumns = []string{
	sim.ReachMetric,
	program.SlotDiam,
	program.SlotCollSimple,
	program.SlotCollFiltered,
	program.SlotCollMaxSimple,
	program.SlotCollMaxFiltered,
}

func isCollection(name string) bool {
	switch name {
	case program.SlotCollSimple, program.SlotCollFiltered, program.SlotCollMaxSimple, program.SlotCollMaxFiltered:
		return true
	}
	return false
}

func format(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// styled colors collection cells against the ideal count.
func styled(name string, v, ideal float64) lipgloss.Style {
	if !isCollection(name) || math.IsNaN(v) {
		return cellStyle
	}
	return cellStyle.Foreground(lipgloss.Color(program.Hex(program.CollectionColor(ideal, v))))
}

// every keeps each k-th row and the last one.
func every(rows []metrics.Row, k int) []metrics.Row {
	if k <= 1 {
		return rows
	}
	var out []metrics.Row
	for i, r := range rows {
		if i%k == 0 || i == len(rows)-1 {
			out = append(out, r)
		}
	}
	return out
}

func rowsTable(rows []metrics.Row, ideal float64) string {
	data := make([][]string, len(rows))
	for i, r := range rows {
		data[i] = append(data[i], format(r.Time))
		for _, name := range rowColumns {
			data[i] = append(data[i], format(r.Get(name)))
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(append([]string{"time"}, rowColumns...)...).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 0 || row >= len(rows) {
				return cellStyle
			}
			name := rowColumns[col-1]
			return styled(name, rows[row].Get(name), ideal)
		}).
		String()
}

func summaryTable(sums []batch.Summary) string {
	data := make([][]string, len(sums))
	for i, s := range sums {
		data[i] = []string{strconv.Itoa(s.Devices), format(s.Speed), strconv.Itoa(s.Runs)}
		for _, name := range summaryColumns {
			data[i] = append(data[i], format(mean(s, name)))
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(append([]string{"devices", "speed", "runs"}, summaryColumns...)...).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col < 3 || row >= len(sums) {
				return cellStyle
			}
			name := summaryColumns[col-3]
			return styled(name, mean(sums[row], name), float64(sums[row].Devices))
		}).
		String()
}

func mean(s batch.Summary, name string) float64 {
	v, ok := s.Mean[name]
	if !ok {
		return math.NaN()
	}
	return v
}
