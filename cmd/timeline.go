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
	"context"

	"github.com/hindsight-labs/hindsight/sp500"
	"github.com/hindsight-labs/hindsight/wikipedia"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	timelineStart  string
	timelineEnd    string
	timelineOutput string
)

func init() {
	rootCmd.AddCommand(timelineCmd)

	timelineCmd.Flags().StringVar(&timelineStart, "start", "", "earliest week to reconstruct (YYYY-MM-DD); defaults to one year before end")
	timelineCmd.Flags().StringVar(&timelineEnd, "end", "", "latest week to reconstruct (YYYY-MM-DD); defaults to today")
	timelineCmd.Flags().StringVarP(&timelineOutput, "output", "o", "sp500_membership.csv", "file to write weekly membership snapshots to")
}

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Reconstruct weekly S&P 500 membership from Wikipedia",
	Long: `Timeline downloads the current S&P 500 constituents and the index
change log from Wikipedia, then replays the changes backwards to rebuild a
membership snapshot for every week in the requested range.`,
	Run: func(_ *cobra.Command, _ []string) {
		ctx := context.Background()
		start, end := resolveRange(timelineStart, timelineEnd)

		wiki := wikipedia.NewClient()
		currentRows, changeRows, err := wiki.Constituents(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("could not download constituents from wikipedia")
		}

		members, names := sp500.CurrentMembers(currentRows)
		events := sp500.ParseChangeLog(changeRows, names)
		log.Info().Int("NumMembers", len(members)).Int("NumEvents", len(events)).Msg("parsed wikipedia tables")

		snapshots := sp500.BuildTimeline(members, names, events, start, end)
		if err := sp500.SaveSnapshots(timelineOutput, snapshots); err != nil {
			log.Fatal().Err(err).Str("FileName", timelineOutput).Msg("could not save membership snapshots")
		}

		log.Info().Int("NumWeeks", len(snapshots)).Str("FileName", timelineOutput).Msg("saved membership timeline")
	},
}
