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
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"
)

// SaveSelections writes weekly top selections to csv with one row per
// (week, ticker) pair. This file is the backtester's sole input.
func SaveSelections(path string, selections []TopSelection) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fh.Close()

	w := csv.NewWriter(fh)
	if err := w.Write([]string{"week_start", "week_end", "ticker", "mention_count"}); err != nil {
		return err
	}

	for _, week := range selections {
		for _, mention := range week.Selections {
			row := []string{
				week.WeekStart.Format("2006-01-02"),
				week.WeekEnd.Format("2006-01-02"),
				mention.Ticker,
				strconv.Itoa(mention.Count),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

// LoadSelections reads a csv produced by SaveSelections, grouping rows back
// into per-week selections in file order.
func LoadSelections(path string) ([]TopSelection, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	records, err := csv.NewReader(fh).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: empty selections file", path)
	}

	var weeks []TopSelection
	byWeek := map[string]int{}

	for _, record := range records[1:] {
		if len(record) < 4 {
			return nil, fmt.Errorf("%s: expected 4 columns got %d", path, len(record))
		}

		weekStart, err := time.Parse("2006-01-02", record[0])
		if err != nil {
			return nil, fmt.Errorf("%s: bad week_start %q: %w", path, record[0], err)
		}
		weekEnd, err := time.Parse("2006-01-02", record[1])
		if err != nil {
			return nil, fmt.Errorf("%s: bad week_end %q: %w", path, record[1], err)
		}
		count, err := strconv.Atoi(record[3])
		if err != nil {
			return nil, fmt.Errorf("%s: bad mention_count %q: %w", path, record[3], err)
		}

		key := record[0]
		idx, ok := byWeek[key]
		if !ok {
			weeks = append(weeks, TopSelection{WeekStart: weekStart, WeekEnd: weekEnd})
			idx = len(weeks) - 1
			byWeek[key] = idx
		}
		weeks[idx].Selections = append(weeks[idx].Selections, Mention{
			Ticker: record[2],
			Count:  count,
		})
	}

	return weeks, nil
}
