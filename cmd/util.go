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

package cmd

import (
	"time"

	"github.com/hindsight-labs/hindsight/common"
	"github.com/rs/zerolog/log"
)

// parseDate parses a YYYY-MM-DD flag value in the market timezone
func parseDate(value string) time.Time {
	date, err := time.ParseInLocation("2006-01-02", value, common.GetTimezone())
	if err != nil {
		log.Fatal().Err(err).Str("Input", value).Msg("invalid date; expected YYYY-MM-DD")
	}
	return date
}

// resolveRange fills defaults for an optional start/end flag pair: end
// defaults to today and start to one year before end.
func resolveRange(startFlag, endFlag string) (time.Time, time.Time) {
	var start, end time.Time

	if endFlag != "" {
		end = parseDate(endFlag)
	} else {
		now := time.Now().In(common.GetTimezone())
		end = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, common.GetTimezone())
	}

	if startFlag != "" {
		start = parseDate(startFlag)
	} else {
		start = end.AddDate(-1, 0, 0)
	}

	if end.Before(start) {
		log.Fatal().Time("Start", start).Time("End", end).Msg("end date is before start date")
	}

	return start, end
}
