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
	"time"

	"github.com/rs/zerolog/log"
)

// Rewind takes the membership set effective at some date and undoes every
// event that took effect strictly after asOf, returning the membership set
// effective at asOf together with the unconsumed remainder of the event
// queue. events must be sorted descending by effective date and members must
// be the set effective immediately after events[0].
//
// Undoing an ADD removes the ticker (it had not yet joined); undoing a
// REMOVE restores it (it had not yet left). The input set is not mutated.
//
// The returned count tallies inconsistent undo states: undoing an ADD for a
// ticker that is already absent, or a REMOVE for one that is already
// present. The change log is scraped from an unreliable public source, so
// these are tolerated rather than treated as hard errors.
func Rewind(members map[string]bool, events []MembershipEvent, asOf time.Time) (map[string]bool, []MembershipEvent, int) {
	next := make(map[string]bool, len(members))
	for ticker := range members {
		next[ticker] = true
	}

	inconsistent := 0
	for len(events) > 0 && events[0].EffectiveDate.After(asOf) {
		ev := events[0]
		events = events[1:]

		switch ev.Action {
		case ActionAdd:
			if !next[ev.Ticker] {
				inconsistent++
			}
			delete(next, ev.Ticker)
		case ActionRemove:
			if next[ev.Ticker] {
				inconsistent++
			}
			next[ev.Ticker] = true
		}
	}

	return next, events, inconsistent
}

// BuildTimeline produces one membership snapshot per week going backward in
// fixed 7-day steps from end to start (inclusive). current is the terminal,
// present-day membership set; names maps tickers to issuer names; events is
// the full change log sorted descending by effective date.
//
// Each event is undone at most once across the whole traversal: the event
// queue is consumed monotonically as the snapshot date walks backward, so
// construction is linear in weeks plus events. Snapshots are returned newest
// first, matching generation order.
func BuildTimeline(current map[string]bool, names map[string]string, events []MembershipEvent, start, end time.Time) []*MembershipSnapshot {
	weeks := int(end.Sub(start).Hours()/(24*7)) + 1
	if weeks < 0 {
		weeks = 0
	}
	snapshots := make([]*MembershipSnapshot, 0, weeks)

	members := current
	queue := events
	inconsistent := 0

	for date := end; !date.Before(start); date = date.AddDate(0, 0, -7) {
		var n int
		members, queue, n = Rewind(members, queue, date)
		inconsistent += n

		snapshots = append(snapshots, snapshotAt(date, members, names))
	}

	if inconsistent > 0 {
		log.Debug().Int("InconsistentUndos", inconsistent).Msg("change log disagreed with terminal membership; best-effort reconstruction")
	}

	return snapshots
}

// ReplayForward re-applies events in chronological order on top of a
// historical membership set, recovering the membership effective at asOf.
// It is the inverse of the backward pass and is primarily useful for
// verifying a reconstructed timeline against the present-day roster.
func ReplayForward(members map[string]bool, events []MembershipEvent, asOf time.Time) map[string]bool {
	chronological := make([]MembershipEvent, len(events))
	copy(chronological, events)
	sort.SliceStable(chronological, func(i, j int) bool {
		return chronological[i].EffectiveDate.Before(chronological[j].EffectiveDate)
	})

	next := make(map[string]bool, len(members))
	for ticker := range members {
		next[ticker] = true
	}

	for _, ev := range chronological {
		if ev.EffectiveDate.After(asOf) {
			continue
		}
		switch ev.Action {
		case ActionAdd:
			next[ev.Ticker] = true
		case ActionRemove:
			delete(next, ev.Ticker)
		}
	}

	return next
}

func snapshotAt(date time.Time, members map[string]bool, names map[string]string) *MembershipSnapshot {
	tickers := make([]string, 0, len(members))
	for ticker := range members {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)

	resolved := make([]string, len(tickers))
	for ii, ticker := range tickers {
		if name, ok := names[ticker]; ok && name != "" {
			resolved[ii] = name
		} else {
			resolved[ii] = UnknownName
		}
	}

	return &MembershipSnapshot{
		WeekStart: date,
		Members:   tickers,
		Names:     resolved,
	}
}
