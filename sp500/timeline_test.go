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
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/hindsight-labs/hindsight/sp500"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func members(tickers ...string) map[string]bool {
	set := make(map[string]bool, len(tickers))
	for _, t := range tickers {
		set[t] = true
	}
	return set
}

var _ = Describe("Timeline", func() {
	var names map[string]string

	BeforeEach(func() {
		names = map[string]string{
			"A": "Agilent Technologies",
			"B": "Barnes Group",
			"C": "Citigroup",
			"D": "Dominion Energy",
		}
	})

	Context("with a single ADD event", func() {
		var events []sp500.MembershipEvent

		BeforeEach(func() {
			events = []sp500.MembershipEvent{{
				EffectiveDate: day(2023, time.June, 1),
				Ticker:        "D",
				Action:        sp500.ActionAdd,
				DisplayName:   "Dominion Energy",
			}}
		})

		It("excludes the added ticker before its effective date", func() {
			snapshots := sp500.BuildTimeline(members("A", "B", "C", "D"), names, events,
				day(2023, time.May, 1), day(2023, time.May, 1))
			Expect(len(snapshots)).To(Equal(1))
			Expect(snapshots[0].Members).To(Equal([]string{"A", "B", "C"}))
		})

		It("includes the added ticker after its effective date", func() {
			snapshots := sp500.BuildTimeline(members("A", "B", "C", "D"), names, events,
				day(2023, time.July, 1), day(2023, time.July, 1))
			Expect(len(snapshots)).To(Equal(1))
			Expect(snapshots[0].Members).To(Equal([]string{"A", "B", "C", "D"}))
		})
	})

	Context("with a REMOVE event", func() {
		It("restores the removed ticker for earlier weeks", func() {
			events := []sp500.MembershipEvent{{
				EffectiveDate: day(2023, time.June, 1),
				Ticker:        "C",
				Action:        sp500.ActionRemove,
				DisplayName:   "Citigroup",
			}}

			snapshots := sp500.BuildTimeline(members("A", "B"), names, events,
				day(2023, time.May, 1), day(2023, time.June, 5))

			// newest first
			Expect(snapshots[0].WeekStart).To(Equal(day(2023, time.June, 5)))
			Expect(snapshots[0].Members).To(Equal([]string{"A", "B"}))

			last := snapshots[len(snapshots)-1]
			Expect(last.Members).To(ContainElement("C"))
		})
	})

	Context("when stepping backward week by week", func() {
		var (
			events    []sp500.MembershipEvent
			current   map[string]bool
			snapshots []*sp500.MembershipSnapshot
		)

		BeforeEach(func() {
			// C replaced B on 2023-06-14; D joined 2023-05-24
			events = []sp500.MembershipEvent{
				{EffectiveDate: day(2023, time.June, 14), Ticker: "C", Action: sp500.ActionAdd, DisplayName: "Citigroup"},
				{EffectiveDate: day(2023, time.June, 14), Ticker: "B", Action: sp500.ActionRemove, DisplayName: "Barnes Group"},
				{EffectiveDate: day(2023, time.May, 24), Ticker: "D", Action: sp500.ActionAdd, DisplayName: "Dominion Energy"},
			}
			current = members("A", "C", "D")
			snapshots = sp500.BuildTimeline(current, names, events,
				day(2023, time.May, 1), day(2023, time.June, 26))
		})

		It("produces one snapshot per week anchor", func() {
			Expect(len(snapshots)).To(Equal(9))
			Expect(snapshots[0].WeekStart).To(Equal(day(2023, time.June, 26)))
			Expect(snapshots[8].WeekStart).To(Equal(day(2023, time.May, 1)))
		})

		It("reconstructs the membership effective each week", func() {
			byWeek := sp500.IndexByWeek(snapshots)
			Expect(byWeek["2023-06-26"].Members).To(Equal([]string{"A", "C", "D"}))
			Expect(byWeek["2023-06-12"].Members).To(Equal([]string{"A", "B", "D"}))
			Expect(byWeek["2023-05-29"].Members).To(Equal([]string{"A", "B", "D"}))
			Expect(byWeek["2023-05-22"].Members).To(Equal([]string{"A", "B"}))
			Expect(byWeek["2023-05-01"].Members).To(Equal([]string{"A", "B"}))
		})

		It("round trips: forward replay from the earliest snapshot recovers the current roster", func() {
			earliest := snapshots[len(snapshots)-1]
			replayed := sp500.ReplayForward(earliest.MemberSet(), events, day(2023, time.June, 26))
			Expect(replayed).To(Equal(current))
		})

		It("is idempotent", func() {
			again := sp500.BuildTimeline(current, names, events,
				day(2023, time.May, 1), day(2023, time.June, 26))
			Expect(again).To(Equal(snapshots))
		})

		It("does not mutate the terminal membership set", func() {
			Expect(current).To(Equal(members("A", "C", "D")))
		})

		It("resolves names positionally with the NA sentinel for unknowns", func() {
			delete(names, "B")
			snaps := sp500.BuildTimeline(current, names, events,
				day(2023, time.May, 22), day(2023, time.May, 22))
			Expect(snaps[0].Members).To(Equal([]string{"A", "B"}))
			Expect(snaps[0].Names).To(Equal([]string{"Agilent Technologies", sp500.UnknownName}))
		})
	})

	Describe("Rewind", func() {
		It("consumes each event at most once", func() {
			events := []sp500.MembershipEvent{
				{EffectiveDate: day(2023, time.June, 14), Ticker: "C", Action: sp500.ActionAdd},
				{EffectiveDate: day(2023, time.May, 24), Ticker: "D", Action: sp500.ActionAdd},
			}

			set, queue, _ := sp500.Rewind(members("A", "C", "D"), events, day(2023, time.June, 1))
			Expect(len(queue)).To(Equal(1))
			Expect(set).To(Equal(members("A", "D")))

			// nothing newer than the requested date remains
			set, queue, _ = sp500.Rewind(set, queue, day(2023, time.June, 1))
			Expect(len(queue)).To(Equal(1))
			Expect(set).To(Equal(members("A", "D")))
		})

		It("counts inconsistent undo states without failing", func() {
			events := []sp500.MembershipEvent{
				// undo of this REMOVE re-adds a ticker that is already present
				{EffectiveDate: day(2023, time.June, 14), Ticker: "A", Action: sp500.ActionRemove},
			}

			set, _, inconsistent := sp500.Rewind(members("A"), events, day(2023, time.June, 1))
			Expect(inconsistent).To(Equal(1))
			Expect(set).To(Equal(members("A")))
		})
	})
})
