// Copyright 2025-2026
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package backtest

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/olekukonko/tablewriter"
)

// Report renders a summary table of portfolio vs benchmark metrics plus a
// growth-of-capital chart.
func (bt *Backtest) Report(w io.Writer, riskFreeRate float64) {
	portfolioReturns := bt.PortfolioReturns()
	portfolio := CalcMetrics(portfolioReturns, riskFreeRate)

	symbols := make([]string, 0, len(bt.BenchmarkReturns))
	for symbol := range bt.BenchmarkReturns {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	benchmarks := make(map[string]*Metrics, len(symbols))
	for _, symbol := range symbols {
		benchmarks[symbol] = CalcMetrics(bt.BenchmarkReturns[symbol], riskFreeRate)
	}

	header := append([]string{"Metric", "Portfolio"}, symbols...)

	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetBorder(false)

	row := func(name string, get func(m *Metrics) string) {
		cells := []string{name, get(portfolio)}
		for _, symbol := range symbols {
			cells = append(cells, get(benchmarks[symbol]))
		}
		table.Append(cells)
	}

	row("Total Return", func(m *Metrics) string { return percent(m.TotalReturn) })
	row("CAGR", func(m *Metrics) string { return percent(m.CAGR) })
	row("Mean Weekly Return", func(m *Metrics) string { return percent(m.MeanWeeklyReturn) })
	row("Weekly Volatility", func(m *Metrics) string { return percent(m.WeeklyVolatility) })
	row("Sharpe Ratio", func(m *Metrics) string { return ratio(m.SharpeRatio) })
	row("Max Drawdown", func(m *Metrics) string { return percent(m.MaxDrawDown) })

	winRates := []string{"Win Rate vs Benchmark", "--"}
	for _, symbol := range symbols {
		winRates = append(winRates, percent(WinRate(portfolioReturns, bt.BenchmarkReturns[symbol])))
	}
	table.Append(winRates)

	footer := make([]string, len(header))
	footer[0] = "Num Weeks"
	footer[1] = fmt.Sprintf("%d", portfolio.NumWeeks)
	table.SetFooter(footer)

	table.Render()

	if len(portfolio.Cumulative) > 1 {
		fmt.Fprintf(w, "\n%s\n", bt.growthChart(portfolio, benchmarks, symbols))
	}
}

// growthChart plots growth of the initial capital for the portfolio and
// every benchmark on a shared axis.
func (bt *Backtest) growthChart(portfolio *Metrics, benchmarks map[string]*Metrics, symbols []string) string {
	capital := bt.config.InitialCapital

	series := [][]float64{scale(portfolio.Cumulative, capital)}
	legend := []string{"Portfolio"}
	for _, symbol := range symbols {
		series = append(series, scale(benchmarks[symbol].Cumulative, capital))
		legend = append(legend, symbol)
	}

	chart := asciigraph.PlotMany(series,
		asciigraph.Height(15),
		asciigraph.Caption(fmt.Sprintf("Growth of $%.0f (%s)", capital, strings.Join(legend, ", "))))
	return chart
}

func scale(growth []float64, capital float64) []float64 {
	scaled := make([]float64, len(growth))
	for ii, v := range growth {
		scaled[ii] = v * capital
	}
	return scaled
}

func percent(v float64) string {
	if math.IsNaN(v) {
		return "--"
	}
	return fmt.Sprintf("%.2f%%", v*100)
}

func ratio(v float64) string {
	if math.IsNaN(v) {
		return "--"
	}
	return fmt.Sprintf("%.2f", v)
}
