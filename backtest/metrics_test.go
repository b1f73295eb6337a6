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
	"math"

	"github.com/hindsight-labs/hindsight/backtest"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Metrics", func() {
	Describe("CumulativeGrowth", func() {
		It("compounds returns starting from 1.0", func() {
			growth := backtest.CumulativeGrowth([]float64{0.1, -0.05})
			Expect(growth).To(HaveLen(3))
			Expect(growth[0]).To(Equal(1.0))
			Expect(growth[1]).To(BeNumerically("~", 1.1, 1e-9))
			Expect(growth[2]).To(BeNumerically("~", 1.045, 1e-9))
		})
	})

	Describe("MaxDrawDown", func() {
		It("finds the largest peak to trough decline", func() {
			dd := backtest.MaxDrawDown([]float64{1, 1.1, 1.045, 1.2, 0.9})
			Expect(dd).To(BeNumerically("~", (0.9-1.2)/1.2, 1e-9))
		})

		It("is zero for a monotone series", func() {
			Expect(backtest.MaxDrawDown([]float64{1, 1.05, 1.1})).To(Equal(0.0))
		})
	})

	Describe("CalcMetrics", func() {
		It("computes summary statistics for a return series", func() {
			metrics := backtest.CalcMetrics([]float64{0.1, -0.05}, 0)
			Expect(metrics.NumWeeks).To(Equal(2))
			Expect(metrics.MeanWeeklyReturn).To(BeNumerically("~", 0.025, 1e-9))
			Expect(metrics.WeeklyVolatility).To(BeNumerically("~", 0.10606601, 1e-6))
			Expect(metrics.TotalReturn).To(BeNumerically("~", 0.045, 1e-9))
			Expect(metrics.CAGR).To(BeNumerically("~", math.Pow(1.045, 26)-1, 1e-6))
			Expect(metrics.SharpeRatio).To(BeNumerically("~", 0.025/0.10606601*math.Sqrt(52), 1e-4))
			Expect(metrics.MaxDrawDown).To(BeNumerically("~", -0.05, 1e-9))
		})

		It("returns NaN statistics for an empty series", func() {
			metrics := backtest.CalcMetrics(nil, 0)
			Expect(metrics.NumWeeks).To(Equal(0))
			Expect(math.IsNaN(metrics.MeanWeeklyReturn)).To(BeTrue())
			Expect(math.IsNaN(metrics.CAGR)).To(BeTrue())
			Expect(math.IsNaN(metrics.SharpeRatio)).To(BeTrue())
		})
	})

	Describe("WinRate", func() {
		It("computes the fraction of winning weeks", func() {
			rate := backtest.WinRate([]float64{0.1, -0.05, 0.03}, []float64{0.02, 0.02, 0.02})
			Expect(rate).To(BeNumerically("~", 2.0/3.0, 1e-9))
		})

		It("is NaN for mismatched series", func() {
			Expect(math.IsNaN(backtest.WinRate([]float64{0.1}, nil))).To(BeTrue())
		})
	})
})
