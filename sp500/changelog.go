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

package sp500

import (
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// date layouts seen in the published changes table
var changeDateLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"2006-01-02",
}

// ParseChangeLog converts raw change rows into membership events sorted
// descending by effective date (ties keep input order). Rows whose date cell
// does not parse are skipped silently; the public source has a handful of
// footnote rows that are not real changes.
//
// The names map is progressively updated with the issuer names found on each
// row. The changes table is ordered newest first, so an older event may
// overwrite a name with a stale value; this is an accepted approximation.
func ParseChangeLog(rows []ChangeRow, names map[string]string) []MembershipEvent {
	events := make([]MembershipEvent, 0, len(rows)*2)
	skipped := 0

	for _, row := range rows {
		date, ok := parseChangeDate(row.Date)
		if !ok {
			skipped++
			continue
		}

		for _, ev := range splitChangeCell(date, ActionAdd, row.AddedTickers, row.AddedNames) {
			events = append(events, ev)
			names[ev.Ticker] = ev.DisplayName
		}
		for _, ev := range splitChangeCell(date, ActionRemove, row.RemovedTickers, row.RemovedNames) {
			events = append(events, ev)
			names[ev.Ticker] = ev.DisplayName
		}
	}

	if skipped > 0 {
		log.Debug().Int("SkippedRows", skipped).Msg("skipped change rows with unparseable dates")
	}

	// most recent first; stable so same-date events keep input order
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].EffectiveDate.After(events[j].EffectiveDate)
	})

	return events
}

func parseChangeDate(cell string) (time.Time, bool) {
	cell = strings.TrimSpace(cell)
	for _, layout := range changeDateLayouts {
		if date, err := time.Parse(layout, cell); err == nil {
			return date, true
		}
	}
	return time.Time{}, false
}

// splitChangeCell splits a multi-value ticker cell and its matching names
// cell into events. The two lists are zipped positionally: when the counts
// mismatch the result is truncated to the shorter list.
func splitChangeCell(date time.Time, action Action, tickerCell, nameCell string) []MembershipEvent {
	tickerCell = strings.TrimSpace(tickerCell)
	if tickerCell == "" {
		return nil
	}

	tickers := strings.Split(tickerCell, ",")
	names := strings.Split(nameCell, ",")

	n := len(tickers)
	if len(names) < n {
		n = len(names)
	}

	events := make([]MembershipEvent, 0, n)
	for ii := 0; ii < n; ii++ {
		ticker := normalizeTicker(tickers[ii])
		if ticker == "" {
			continue
		}
		events = append(events, MembershipEvent{
			EffectiveDate: date,
			Ticker:        ticker,
			Action:        action,
			DisplayName:   strings.TrimSpace(names[ii]),
		})
	}
	return events
}

func normalizeTicker(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
