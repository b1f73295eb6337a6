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
	"math"

	"gonum.org/v1/gonum/stat"
)

// weeksPerYear is used to annualize weekly statistics
const weeksPerYear = 52.0

// Metrics summarizes a weekly return series.
type Metrics struct {
	NumWeeks         int
	MeanWeeklyReturn float64
	WeeklyVolatility float64
	TotalReturn      float64
	CAGR             float64
	SharpeRatio      float64
	MaxDrawDown      float64
	Cumulative       []float64
}

// CalcMetrics computes summary statistics for a weekly return series. The
// risk free rate is annual; Sharpe is annualized with sqrt(52).
func CalcMetrics(returns []float64, riskFreeRate float64) *Metrics {
	metrics := &Metrics{
		NumWeeks: len(returns),
	}
	if len(returns) == 0 {
		metrics.MeanWeeklyReturn = math.NaN()
		metrics.WeeklyVolatility = math.NaN()
		metrics.CAGR = math.NaN()
		metrics.SharpeRatio = math.NaN()
		metrics.MaxDrawDown = math.NaN()
		return metrics
	}

	metrics.MeanWeeklyReturn = stat.Mean(returns, nil)
	if len(returns) > 1 {
		metrics.WeeklyVolatility = stat.StdDev(returns, nil)
	}

	metrics.Cumulative = CumulativeGrowth(returns)
	metrics.TotalReturn = metrics.Cumulative[len(metrics.Cumulative)-1] - 1.0

	years := float64(len(returns)) / weeksPerYear
	metrics.CAGR = math.Pow(1.0+metrics.TotalReturn, 1.0/years) - 1.0

	weeklyRf := riskFreeRate / weeksPerYear
	if metrics.WeeklyVolatility > 0 {
		metrics.SharpeRatio = (metrics.MeanWeeklyReturn - weeklyRf) / metrics.WeeklyVolatility * math.Sqrt(weeksPerYear)
	} else {
		metrics.SharpeRatio = math.NaN()
	}

	metrics.MaxDrawDown = MaxDrawDown(metrics.Cumulative)
	return metrics
}

// CumulativeGrowth compounds a return series into a growth-factor series
// starting at 1.0 (the value before the first week).
func CumulativeGrowth(returns []float64) []float64 {
	growth := make([]float64, 0, len(returns)+1)
	value := 1.0
	growth = append(growth, value)
	for _, r := range returns {
		value *= 1.0 + r
		growth = append(growth, value)
	}
	return growth
}

// MaxDrawDown returns the largest peak-to-trough decline of a growth
// series as a negative fraction; 0 when the series never declines.
func MaxDrawDown(growth []float64) float64 {
	maxDD := 0.0
	peak := math.Inf(-1)
	for _, value := range growth {
		if value > peak {
			peak = value
		}
		dd := (value - peak) / peak
		if dd < maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// WinRate is the fraction of weeks where the portfolio beat the benchmark.
// Both series must be aligned week for week.
func WinRate(portfolio, benchmark []float64) float64 {
	if len(portfolio) == 0 || len(portfolio) != len(benchmark) {
		return math.NaN()
	}
	wins := 0
	for ii := range portfolio {
		if portfolio[ii] > benchmark[ii] {
			wins++
		}
	}
	return float64(wins) / float64(len(portfolio))
}
