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

// Package backtest replays the weekly top-mention selections with a simple
// rule: buy every selected ticker at the open of the week's first trading
// day, equal weighted, and sell at the close of its last trading day. The
// resulting weekly return series is compared against benchmark ETFs.
package backtest

import (
	"context"
	"math"
	"time"

	"github.com/hindsight-labs/hindsight/data"
	"github.com/hindsight-labs/hindsight/mentions"
	dataframe "github.com/rocketlaunchr/dataframe-go"
	"github.com/rs/zerolog/log"
)

// tradingDaySymbol anchors which calendar days were actual trading days
const tradingDaySymbol = "SPY"

// Config carries everything the simulation needs; there is no global state.
type Config struct {
	Provider       data.Provider
	Benchmarks     []string
	InitialCapital float64
}

// WeekResult is one simulated week.
type WeekResult struct {
	WeekStart time.Time
	BuyDate   time.Time
	SellDate  time.Time
	Tickers   []string
	Return    float64
}

// Backtest holds the aligned weekly return series produced by Run.
type Backtest struct {
	config Config

	Weeks []WeekResult
	// BenchmarkReturns holds, per benchmark symbol, the weekly returns for
	// exactly the weeks in Weeks, in the same order.
	BenchmarkReturns map[string][]float64
}

func New(config Config) *Backtest {
	if config.InitialCapital == 0 {
		config.InitialCapital = 100_000
	}
	return &Backtest{
		config:           config,
		BenchmarkReturns: map[string][]float64{},
	}
}

// Run simulates every week in selections. Weeks with no usable trading days
// or no valid prices are skipped with a warning; benchmark data must cover
// every simulated week or the week is dropped so all series stay aligned.
func (bt *Backtest) Run(ctx context.Context, selections []mentions.TopSelection) error {
	if len(selections) == 0 {
		return nil
	}

	begin, end := selectionSpan(selections)
	// pad the fetch window so partial first/last weeks resolve
	begin = begin.AddDate(0, 0, -7)
	end = end.AddDate(0, 0, 7)

	calendar, err := bt.config.Provider.GetEOD(ctx, tradingDaySymbol, begin, end)
	if err != nil {
		return err
	}

	benchmarks := map[string]*dataframe.DataFrame{}
	for _, symbol := range bt.config.Benchmarks {
		df, err := bt.config.Provider.GetEOD(ctx, symbol, begin, end)
		if err != nil {
			return err
		}
		benchmarks[symbol] = df
	}

	for _, week := range selections {
		subLog := log.With().Time("WeekStart", week.WeekStart).Logger()

		if len(week.Selections) == 0 {
			subLog.Debug().Msg("no selections for week; skipping")
			continue
		}

		buyDate, sellDate, ok := tradingBounds(calendar, week.WeekStart, week.WeekEnd)
		if !ok || buyDate.Equal(sellDate) {
			subLog.Warn().Msg("no usable trading days in week; skipping")
			continue
		}

		tickers := make([]string, 0, len(week.Selections))
		for _, mention := range week.Selections {
			tickers = append(tickers, mention.Ticker)
		}

		frames := data.GetEODBatch(ctx, bt.config.Provider, tickers, week.WeekStart.AddDate(0, 0, -3), week.WeekEnd.AddDate(0, 0, 3))

		weekReturn, valid := equalWeightReturn(frames, tickers, buyDate, sellDate)
		if valid == 0 {
			subLog.Warn().Msg("no valid prices for any selected ticker; skipping")
			continue
		}

		// benchmarks must cover the same week
		benchReturns := map[string]float64{}
		covered := true
		for symbol, df := range benchmarks {
			r, ok := openCloseReturn(df, buyDate, sellDate)
			if !ok {
				subLog.Warn().Str("Benchmark", symbol).Msg("benchmark missing prices for week; dropping week")
				covered = false
				break
			}
			benchReturns[symbol] = r
		}
		if !covered {
			continue
		}

		bt.Weeks = append(bt.Weeks, WeekResult{
			WeekStart: week.WeekStart,
			BuyDate:   buyDate,
			SellDate:  sellDate,
			Tickers:   tickers,
			Return:    weekReturn,
		})
		for symbol, r := range benchReturns {
			bt.BenchmarkReturns[symbol] = append(bt.BenchmarkReturns[symbol], r)
		}
	}

	log.Info().Int("NumWeeks", len(bt.Weeks)).Msg("simulation complete")
	return nil
}

// PortfolioReturns extracts the weekly return series.
func (bt *Backtest) PortfolioReturns() []float64 {
	returns := make([]float64, len(bt.Weeks))
	for ii, week := range bt.Weeks {
		returns[ii] = week.Return
	}
	return returns
}

func selectionSpan(selections []mentions.TopSelection) (time.Time, time.Time) {
	begin := selections[0].WeekStart
	end := selections[0].WeekEnd
	for _, week := range selections {
		if week.WeekStart.Before(begin) {
			begin = week.WeekStart
		}
		if week.WeekEnd.After(end) {
			end = week.WeekEnd
		}
	}
	return begin, end
}

// tradingBounds finds the first and last trading day within the calendar
// week using the anchor symbol's bars.
func tradingBounds(calendar *dataframe.DataFrame, weekStart, weekEnd time.Time) (time.Time, time.Time, bool) {
	dateIdx, err := calendar.NameToColumn(data.DateIdx)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}

	var first, last time.Time
	found := false

	n := calendar.NRows()
	for row := 0; row < n; row++ {
		date := calendar.Series[dateIdx].Value(row).(time.Time)
		if dayBefore(date, weekStart) || dayAfter(date, weekEnd) {
			continue
		}
		if !found {
			first = date
			found = true
		}
		last = date
	}

	return first, last, found
}

// equalWeightReturn averages the open-to-close return of every ticker that
// has valid prices on both dates.
func equalWeightReturn(frames map[string]*dataframe.DataFrame, tickers []string, buyDate, sellDate time.Time) (float64, int) {
	sum := 0.0
	valid := 0

	for _, ticker := range tickers {
		df, ok := frames[ticker]
		if !ok {
			continue
		}
		r, ok := openCloseReturn(df, buyDate, sellDate)
		if !ok {
			log.Debug().Str("Ticker", ticker).Msg("no valid prices for ticker in week")
			continue
		}
		sum += r
		valid++
	}

	if valid == 0 {
		return math.NaN(), 0
	}
	return sum / float64(valid), valid
}

// openCloseReturn computes (close[sellDate] - open[buyDate]) / open[buyDate]
func openCloseReturn(df *dataframe.DataFrame, buyDate, sellDate time.Time) (float64, bool) {
	open, ok := metricOn(df, data.MetricOpen, buyDate)
	if !ok {
		return 0, false
	}
	close, ok := metricOn(df, data.MetricClose, sellDate)
	if !ok {
		return 0, false
	}
	if open == 0 {
		return 0, false
	}
	return (close - open) / open, true
}

func metricOn(df *dataframe.DataFrame, metric string, date time.Time) (float64, bool) {
	dateIdx, err := df.NameToColumn(data.DateIdx)
	if err != nil {
		return 0, false
	}
	colIdx, err := df.NameToColumn(metric)
	if err != nil {
		return 0, false
	}

	n := df.NRows()
	for row := 0; row < n; row++ {
		rowDate := df.Series[dateIdx].Value(row).(time.Time)
		if sameDay(rowDate, date) {
			val, ok := df.Series[colIdx].Value(row).(float64)
			if !ok || math.IsNaN(val) {
				return 0, false
			}
			return val, true
		}
	}
	return 0, false
}

func sameDay(a, b time.Time) bool {
	return a.Format("2006-01-02") == b.Format("2006-01-02")
}

func dayBefore(a, b time.Time) bool {
	return a.Format("2006-01-02") < b.Format("2006-01-02")
}

func dayAfter(a, b time.Time) bool {
	return a.Format("2006-01-02") > b.Format("2006-01-02")
}
