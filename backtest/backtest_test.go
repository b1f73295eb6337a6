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

package backtest_test

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hindsight-labs/hindsight/backtest"
	"github.com/hindsight-labs/hindsight/data"
	"github.com/hindsight-labs/hindsight/mentions"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	dataframe "github.com/rocketlaunchr/dataframe-go"
)

type fakeProvider struct {
	frames map[string]*dataframe.DataFrame
}

func (p *fakeProvider) DataType() string {
	return "fake"
}

func (p *fakeProvider) GetEOD(_ context.Context, symbol string, _ time.Time, _ time.Time) (*dataframe.DataFrame, error) {
	if df, ok := p.frames[symbol]; ok {
		return df, nil
	}
	return nil, fmt.Errorf("no data for symbol: %s", symbol)
}

type bar struct {
	date  time.Time
	open  float64
	close float64
}

func barFrame(bars []bar) *dataframe.DataFrame {
	dates := make([]time.Time, len(bars))
	opens := make([]float64, len(bars))
	closes := make([]float64, len(bars))
	for ii, b := range bars {
		dates[ii] = b.date
		opens[ii] = b.open
		closes[ii] = b.close
	}
	return dataframe.NewDataFrame(
		dataframe.NewSeriesTime(data.DateIdx, &dataframe.SeriesInit{Size: len(bars)}, dates),
		dataframe.NewSeriesFloat64(data.MetricOpen, &dataframe.SeriesInit{Size: len(bars)}, opens),
		dataframe.NewSeriesFloat64(data.MetricClose, &dataframe.SeriesInit{Size: len(bars)}, closes),
	)
}

func d(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

var _ = Describe("Backtest", func() {
	var (
		provider   *fakeProvider
		bt         *backtest.Backtest
		selections []mentions.TopSelection
	)

	BeforeEach(func() {
		// Jan 2 2023 is a market holiday; the first trading day of that
		// week is Tuesday Jan 3
		spy := barFrame([]bar{
			{d(2023, 1, 3), 100, 101},
			{d(2023, 1, 4), 101, 100.5},
			{d(2023, 1, 5), 100.5, 101.5},
			{d(2023, 1, 6), 101.5, 102},
			{d(2023, 1, 9), 102, 103},
			{d(2023, 1, 10), 103, 103.5},
			{d(2023, 1, 11), 103.5, 103},
			{d(2023, 1, 12), 103, 104},
			{d(2023, 1, 13), 104, 104.04},
		})

		aaa := barFrame([]bar{
			{d(2023, 1, 3), 10, 10.2},
			{d(2023, 1, 4), 10.2, 10.5},
			{d(2023, 1, 5), 10.5, 10.8},
			{d(2023, 1, 6), 10.8, 11},
			{d(2023, 1, 9), 11, 11.2},
			{d(2023, 1, 10), 11.2, 11.3},
			{d(2023, 1, 11), 11.3, 11.4},
			{d(2023, 1, 12), 11.4, 11.5},
			{d(2023, 1, 13), 11.5, 11.55},
		})

		bbb := barFrame([]bar{
			{d(2023, 1, 3), 20, 19.8},
			{d(2023, 1, 4), 19.8, 19.5},
			{d(2023, 1, 5), 19.5, 19.3},
			{d(2023, 1, 6), 19.3, 19},
		})

		provider = &fakeProvider{
			frames: map[string]*dataframe.DataFrame{
				"SPY": spy,
				"AAA": aaa,
				"BBB": bbb,
			},
		}

		bt = backtest.New(backtest.Config{
			Provider:   provider,
			Benchmarks: []string{"SPY"},
		})

		selections = []mentions.TopSelection{
			{
				WeekStart: d(2023, 1, 2),
				WeekEnd:   d(2023, 1, 8),
				Selections: []mentions.Mention{
					{Ticker: "AAA", Count: 12},
					{Ticker: "BBB", Count: 7},
				},
			},
			{
				WeekStart: d(2023, 1, 9),
				WeekEnd:   d(2023, 1, 15),
				Selections: []mentions.Mention{
					{Ticker: "AAA", Count: 9},
				},
			},
		}
	})

	Describe("Run", func() {
		Context("with two tradeable weeks", func() {
			It("buys the first trading day open and sells the last trading day close", func() {
				err := bt.Run(context.Background(), selections)
				Expect(err).To(BeNil())
				Expect(bt.Weeks).To(HaveLen(2))

				Expect(bt.Weeks[0].BuyDate).To(Equal(d(2023, 1, 3)))
				Expect(bt.Weeks[0].SellDate).To(Equal(d(2023, 1, 6)))
				// AAA: (11 - 10) / 10 = .10; BBB: (19 - 20) / 20 = -.05
				Expect(bt.Weeks[0].Return).To(BeNumerically("~", 0.025, 1e-9))

				Expect(bt.Weeks[1].BuyDate).To(Equal(d(2023, 1, 9)))
				Expect(bt.Weeks[1].SellDate).To(Equal(d(2023, 1, 13)))
				Expect(bt.Weeks[1].Return).To(BeNumerically("~", 0.05, 1e-9))
			})

			It("aligns benchmark returns week for week", func() {
				err := bt.Run(context.Background(), selections)
				Expect(err).To(BeNil())
				Expect(bt.BenchmarkReturns["SPY"]).To(HaveLen(2))
				Expect(bt.BenchmarkReturns["SPY"][0]).To(BeNumerically("~", 0.02, 1e-9))
				Expect(bt.BenchmarkReturns["SPY"][1]).To(BeNumerically("~", 0.02, 1e-9))
			})
		})

		Context("when a week has no trading days", func() {
			It("skips the week", func() {
				selections = append(selections, mentions.TopSelection{
					WeekStart: d(2023, 1, 16),
					WeekEnd:   d(2023, 1, 22),
					Selections: []mentions.Mention{
						{Ticker: "AAA", Count: 3},
					},
				})
				err := bt.Run(context.Background(), selections)
				Expect(err).To(BeNil())
				Expect(bt.Weeks).To(HaveLen(2))
				Expect(bt.BenchmarkReturns["SPY"]).To(HaveLen(2))
			})
		})

		Context("when no selected ticker has prices", func() {
			It("skips the week but keeps the others", func() {
				selections[1].Selections = []mentions.Mention{
					{Ticker: "ZZZ", Count: 4},
				}
				err := bt.Run(context.Background(), selections)
				Expect(err).To(BeNil())
				Expect(bt.Weeks).To(HaveLen(1))
				Expect(bt.Weeks[0].WeekStart).To(Equal(d(2023, 1, 2)))
				Expect(bt.BenchmarkReturns["SPY"]).To(HaveLen(1))
			})
		})

		Context("when a ticker is missing but others trade", func() {
			It("equal-weights only the valid tickers", func() {
				selections[0].Selections = append(selections[0].Selections, mentions.Mention{Ticker: "ZZZ", Count: 1})
				err := bt.Run(context.Background(), selections)
				Expect(err).To(BeNil())
				Expect(bt.Weeks).To(HaveLen(2))
				Expect(bt.Weeks[0].Return).To(BeNumerically("~", 0.025, 1e-9))
			})
		})

		Context("with no selections at all", func() {
			It("produces no weeks", func() {
				err := bt.Run(context.Background(), nil)
				Expect(err).To(BeNil())
				Expect(bt.Weeks).To(BeEmpty())
			})
		})
	})

	Describe("Report", func() {
		It("renders a summary table and growth chart", func() {
			err := bt.Run(context.Background(), selections)
			Expect(err).To(BeNil())

			sb := &strings.Builder{}
			bt.Report(sb, 0)
			out := sb.String()

			Expect(out).To(ContainSubstring("CAGR"))
			Expect(out).To(ContainSubstring("PORTFOLIO"))
			Expect(out).To(ContainSubstring("SPY"))
			Expect(out).To(ContainSubstring("Sharpe Ratio"))
			Expect(out).To(ContainSubstring("Growth of $100000"))
		})
	})
})
