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

// Package sp500 reconstructs point-in-time S&P 500 index membership. Starting
// from the present-day roster it unwinds the published addition/removal
// change log backward in time, producing one membership snapshot per week.
// Downstream consumers use the snapshots as a time-varying filter so that a
// ticker mentioned in historical text only counts if it was actually an index
// member during that specific week.
package sp500

import (
	"strings"
	"time"
)

// UnknownName is the sentinel display name used when no issuer name is known
// for a symbol (e.g. a symbol that only appears in very old change rows).
const UnknownName = "NA"

// Action describes the direction of an index membership change.
type Action string

const (
	ActionAdd    Action = "ADD"
	ActionRemove Action = "REMOVE"
)

// MembershipEvent is a single index change: on EffectiveDate, Ticker was
// either added to or removed from the index.
type MembershipEvent struct {
	EffectiveDate time.Time
	Ticker        string
	Action        Action

	// DisplayName is the issuer name at the time of the change; best-effort
	// and possibly stale.
	DisplayName string
}

// MembershipSnapshot is the exact set of index members effective on
// WeekStart. Members is sorted ascending; Names is positionally aligned with
// Members.
type MembershipSnapshot struct {
	WeekStart time.Time
	Members   []string
	Names     []string
}

// MemberSet returns the snapshot members as a set for O(1) lookups.
func (snap *MembershipSnapshot) MemberSet() map[string]bool {
	set := make(map[string]bool, len(snap.Members))
	for _, ticker := range snap.Members {
		set[ticker] = true
	}
	return set
}

// ChangeRow is one raw row of the historical changes table, as scraped.
// Added/removed cells may contain multiple comma separated values.
type ChangeRow struct {
	Date           string
	AddedTickers   string
	AddedNames     string
	RemovedTickers string
	RemovedNames   string
	Notes          string
}

// CurrentRow is one raw row of the current constituents table, as scraped.
type CurrentRow struct {
	Symbol   string
	Security string
}

// CurrentMembers converts the scraped constituents table into the terminal
// membership set and a ticker to issuer-name mapping.
func CurrentMembers(rows []CurrentRow) (map[string]bool, map[string]string) {
	members := make(map[string]bool, len(rows))
	names := make(map[string]string, len(rows))
	for _, row := range rows {
		ticker := normalizeTicker(row.Symbol)
		if ticker == "" {
			continue
		}
		members[ticker] = true
		names[ticker] = strings.TrimSpace(row.Security)
	}
	return members, names
}
