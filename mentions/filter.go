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

package mentions

import (
	"sort"
	"time"

	"github.com/hindsight-labs/hindsight/sp500"
)

// Mention is one (ticker, count) pair in a weekly selection.
type Mention struct {
	Ticker string
	Count  int
}

// TopSelection holds the top-N mentioned member tickers for one week,
// ordered descending by count with an alphabetical tie-break.
type TopSelection struct {
	WeekStart  time.Time
	WeekEnd    time.Time
	Selections []Mention
}

// Filter validates extracted ticker candidates against per-week membership
// snapshots and tallies qualifying mentions. Snapshots are read-only input;
// the filter never modifies them.
type Filter struct {
	extractor *Extractor
	topN      int
}

// DefaultTopN is the number of tickers kept per week when no explicit
// bound is configured.
const DefaultTopN = 5

// NewFilter returns a filter that keeps the topN most mentioned member
// tickers per week. A non-positive topN falls back to DefaultTopN.
func NewFilter(extractor *Extractor, topN int) *Filter {
	if topN <= 0 {
		topN = DefaultTopN
	}
	return &Filter{
		extractor: extractor,
		topN:      topN,
	}
}

// TallyWeek extracts candidates from each text item, keeps only those that
// were index members during the snapshot's week (the survivorship guard) and
// accumulates counts across all items. A week with no qualifying mentions
// returns an empty map, not an error.
func (filter *Filter) TallyWeek(snapshot *sp500.MembershipSnapshot, items []string) map[string]int {
	members := snapshot.MemberSet()
	counts := map[string]int{}

	for _, item := range items {
		for _, candidate := range filter.extractor.Extract(item) {
			if members[candidate] {
				counts[candidate]++
			}
		}
	}

	return counts
}

// Top converts a weekly tally into an ordered TopSelection of at most topN
// entries: descending by count, ascending by symbol on ties.
func (filter *Filter) Top(weekStart, weekEnd time.Time, counts map[string]int) TopSelection {
	selections := make([]Mention, 0, len(counts))
	for ticker, count := range counts {
		selections = append(selections, Mention{Ticker: ticker, Count: count})
	}

	sort.Slice(selections, func(i, j int) bool {
		if selections[i].Count != selections[j].Count {
			return selections[i].Count > selections[j].Count
		}
		return selections[i].Ticker < selections[j].Ticker
	})

	if len(selections) > filter.topN {
		selections = selections[:filter.topN]
	}

	return TopSelection{
		WeekStart:  weekStart,
		WeekEnd:    weekEnd,
		Selections: selections,
	}
}
