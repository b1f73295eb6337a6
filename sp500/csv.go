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
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"
)

// listSep separates tickers (and names) inside a single csv field. Names may
// contain commas, so a comma separated list would not survive a round trip.
const listSep = "|"

// SaveSnapshots writes the timeline to csv with one row per week and columns
// week_start, tickers, names. Rows are written in the order given, which for
// a freshly built timeline is newest first.
func SaveSnapshots(path string, snapshots []*MembershipSnapshot) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fh.Close()

	w := csv.NewWriter(fh)
	if err := w.Write([]string{"week_start", "tickers", "names"}); err != nil {
		return err
	}

	for _, snap := range snapshots {
		row := []string{
			snap.WeekStart.Format("2006-01-02"),
			strings.Join(snap.Members, listSep),
			strings.Join(snap.Names, listSep),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// LoadSnapshots reads a timeline csv produced by SaveSnapshots. It also
// accepts the legacy bracketed-list form ("['AAPL', 'MSFT']") so old data
// files remain usable.
func LoadSnapshots(path string) ([]*MembershipSnapshot, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	r := csv.NewReader(fh)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%s: empty timeline file", path)
	}

	snapshots := make([]*MembershipSnapshot, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 3 {
			return nil, fmt.Errorf("%s: expected 3 columns got %d", path, len(record))
		}

		weekStart, err := time.Parse("2006-01-02", record[0])
		if err != nil {
			return nil, fmt.Errorf("%s: bad week_start %q: %w", path, record[0], err)
		}

		snapshots = append(snapshots, &MembershipSnapshot{
			WeekStart: weekStart,
			Members:   splitListField(record[1]),
			Names:     splitListField(record[2]),
		})
	}

	return snapshots, nil
}

// IndexByWeek keys snapshots by their week start date formatted 2006-01-02
// for per-week lookup by the mention filter.
func IndexByWeek(snapshots []*MembershipSnapshot) map[string]*MembershipSnapshot {
	idx := make(map[string]*MembershipSnapshot, len(snapshots))
	for _, snap := range snapshots {
		idx[snap.WeekStart.Format("2006-01-02")] = snap
	}
	return idx
}

func splitListField(field string) []string {
	field = strings.TrimSpace(field)
	if field == "" {
		return nil
	}

	// legacy python-era list literal
	if strings.HasPrefix(field, "[") && strings.HasSuffix(field, "]") {
		field = strings.TrimPrefix(field, "[")
		field = strings.TrimSuffix(field, "]")
		parts := strings.Split(field, ",")
		out := make([]string, 0, len(parts))
		for _, part := range parts {
			part = strings.Trim(strings.TrimSpace(part), `'"`)
			if part != "" {
				out = append(out, part)
			}
		}
		return out
	}

	return strings.Split(field, listSep)
}
