// Copyright 2025-2026
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sp500_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/hindsight-labs/hindsight/sp500"
)

var _ = Describe("Snapshot csv", func() {
	var (
		dir       string
		snapshots []*sp500.MembershipSnapshot
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		snapshots = []*sp500.MembershipSnapshot{
			{
				WeekStart: day(2023, time.June, 26),
				Members:   []string{"AAPL", "MSFT"},
				Names:     []string{"Apple Inc.", "Microsoft"},
			},
			{
				WeekStart: day(2023, time.June, 19),
				Members:   []string{"AAPL", "BRK.B", "MSFT"},
				Names:     []string{"Apple Inc.", "Berkshire Hathaway (Class B)", "Microsoft"},
			},
		}
	})

	It("round trips snapshots through csv", func() {
		path := filepath.Join(dir, "timeline.csv")
		Expect(sp500.SaveSnapshots(path, snapshots)).To(Succeed())

		loaded, err := sp500.LoadSnapshots(path)
		Expect(err).To(BeNil())
		Expect(loaded).To(Equal(snapshots))
	})

	It("produces byte-identical output on repeated saves", func() {
		pathA := filepath.Join(dir, "a.csv")
		pathB := filepath.Join(dir, "b.csv")
		Expect(sp500.SaveSnapshots(pathA, snapshots)).To(Succeed())
		Expect(sp500.SaveSnapshots(pathB, snapshots)).To(Succeed())

		bytesA, err := os.ReadFile(pathA)
		Expect(err).To(BeNil())
		bytesB, err := os.ReadFile(pathB)
		Expect(err).To(BeNil())
		Expect(bytesA).To(Equal(bytesB))
	})

	It("survives names that contain commas", func() {
		path := filepath.Join(dir, "timeline.csv")
		Expect(sp500.SaveSnapshots(path, snapshots)).To(Succeed())

		loaded, err := sp500.LoadSnapshots(path)
		Expect(err).To(BeNil())
		Expect(loaded[1].Names[1]).To(Equal("Berkshire Hathaway (Class B)"))
	})

	It("reads the legacy bracketed list format", func() {
		path := filepath.Join(dir, "legacy.csv")
		legacy := "week_start,tickers,names\n" +
			`2023-06-26,"['AAPL', 'MSFT']","['Apple Inc.', 'Microsoft']"` + "\n"
		Expect(os.WriteFile(path, []byte(legacy), 0644)).To(Succeed())

		loaded, err := sp500.LoadSnapshots(path)
		Expect(err).To(BeNil())
		Expect(loaded[0].Members).To(Equal([]string{"AAPL", "MSFT"}))
	})

	It("indexes snapshots by week", func() {
		idx := sp500.IndexByWeek(snapshots)
		Expect(idx).To(HaveKey("2023-06-26"))
		Expect(idx["2023-06-19"].Members).To(HaveLen(3))
	})
})
