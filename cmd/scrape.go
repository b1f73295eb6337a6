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
	"sort"
	"time"

	"github.com/hindsight-labs/hindsight/mentions"
	"github.com/hindsight-labs/hindsight/reddit"
	"github.com/hindsight-labs/hindsight/sp500"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	scrapeStart      string
	scrapeEnd        string
	scrapeMembership string
	scrapeOutput     string
)

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().StringVar(&scrapeStart, "start", "", "earliest week to scrape (YYYY-MM-DD); defaults to the oldest membership snapshot")
	scrapeCmd.Flags().StringVar(&scrapeEnd, "end", "", "latest week to scrape (YYYY-MM-DD); defaults to the newest membership snapshot")
	scrapeCmd.Flags().StringVarP(&scrapeMembership, "membership", "m", "sp500_membership.csv", "membership snapshot file produced by the timeline command")
	scrapeCmd.Flags().StringVarP(&scrapeOutput, "output", "o", "weekly_mentions.csv", "file to write weekly top mentions to")

	scrapeCmd.Flags().StringSlice("subreddit", nil, "subreddits to scrape (may be repeated)")
	viper.BindPFlag("reddit.subreddits", scrapeCmd.Flags().Lookup("subreddit"))

	scrapeCmd.Flags().Int("max-posts", 0, "maximum posts to fetch per listing method")
	viper.BindPFlag("reddit.max_posts_per_method", scrapeCmd.Flags().Lookup("max-posts"))

	scrapeCmd.Flags().Int("top-n", 0, "number of top mentioned tickers to keep per week")
	viper.BindPFlag("mentions.top_n", scrapeCmd.Flags().Lookup("top-n"))
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Count weekly Reddit ticker mentions filtered by index membership",
	Long: `Scrape fetches posts from the configured subreddits week by week,
extracts ticker-shaped tokens from each post, and keeps only tickers that
were actually in the S&P 500 during that week. The per-week top mentions
are written out for the backtest command.`,
	Run: func(_ *cobra.Command, _ []string) {
		ctx := context.Background()

		snapshots, err := sp500.LoadSnapshots(scrapeMembership)
		if err != nil {
			log.Fatal().Err(err).Str("FileName", scrapeMembership).Msg("could not load membership snapshots")
		}
		if len(snapshots) == 0 {
			log.Fatal().Str("FileName", scrapeMembership).Msg("membership file has no snapshots")
		}
		byWeek := sp500.IndexByWeek(snapshots)

		start, end := scrapeRange(snapshots)

		creds := reddit.Credentials{
			ClientID:     viper.GetString("reddit.client_id"),
			ClientSecret: viper.GetString("reddit.client_secret"),
			Username:     viper.GetString("reddit.username"),
			Password:     viper.GetString("reddit.password"),
			UserAgent:    viper.GetString("reddit.user_agent"),
		}
		if creds.ClientID == "" || creds.ClientSecret == "" {
			log.Fatal().Msg("reddit credentials are not configured; set REDDIT_CLIENT_ID and REDDIT_CLIENT_SECRET")
		}
		client := reddit.NewClient(creds)

		subreddits := viper.GetStringSlice("reddit.subreddits")
		methods := viper.GetStringSlice("reddit.methods")
		maxPosts := viper.GetInt("reddit.max_posts_per_method")

		filter := mentions.NewFilter(
			mentions.NewExtractor(viper.GetInt("mentions.max_matches")),
			viper.GetInt("mentions.top_n"))

		selections := make([]mentions.TopSelection, 0, 52)
		for weekStart := start; !weekStart.After(end); weekStart = weekStart.AddDate(0, 0, 7) {
			weekEnd := weekStart.AddDate(0, 0, 6)
			subLog := log.With().Time("WeekStart", weekStart).Logger()

			snapshot, ok := byWeek[weekStart.Format("2006-01-02")]
			if !ok {
				subLog.Warn().Msg("no membership snapshot for week; skipping")
				continue
			}

			items := make([]string, 0, maxPosts*len(methods))
			for _, subreddit := range subreddits {
				posts, err := client.FetchWeek(ctx, subreddit, methods, maxPosts, weekStart, weekEnd)
				if err != nil {
					subLog.Warn().Err(err).Str("Subreddit", subreddit).Msg("could not fetch posts; skipping subreddit")
					continue
				}
				for _, post := range posts {
					items = append(items, post.Text())
				}
			}

			counts := filter.TallyWeek(snapshot, items)
			selections = append(selections, filter.Top(weekStart, weekEnd, counts))
			subLog.Info().Int("NumItems", len(items)).Int("NumTickers", len(counts)).Msg("scraped week")
		}

		if err := mentions.SaveSelections(scrapeOutput, selections); err != nil {
			log.Fatal().Err(err).Str("FileName", scrapeOutput).Msg("could not save weekly mentions")
		}
		log.Info().Int("NumWeeks", len(selections)).Str("FileName", scrapeOutput).Msg("saved weekly top mentions")
	},
}

// scrapeRange resolves the week range to scrape, defaulting to the span of
// the membership snapshots.
func scrapeRange(snapshots []*sp500.MembershipSnapshot) (time.Time, time.Time) {
	weeks := make([]time.Time, 0, len(snapshots))
	for _, snap := range snapshots {
		weeks = append(weeks, snap.WeekStart)
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i].Before(weeks[j]) })

	start := weeks[0]
	end := weeks[len(weeks)-1]
	if scrapeStart != "" {
		start = parseDate(scrapeStart)
	}
	if scrapeEnd != "" {
		end = parseDate(scrapeEnd)
	}
	if end.Before(start) {
		log.Fatal().Time("Start", start).Time("End", end).Msg("end date is before start date")
	}
	return start, end
}
