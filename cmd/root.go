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
	"fmt"
	"os"

	"github.com/hindsight-labs/hindsight/common"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Logging configuration
	viper.BindEnv("log.level", "HINDSIGHT_LOG_LEVEL")
	rootCmd.PersistentFlags().String("log-level", "info", "Logging level")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	viper.BindEnv("log.report_caller", "HINDSIGHT_LOG_REPORT_CALLER")
	rootCmd.PersistentFlags().Bool("log-report-caller", false, "Log function name that called log statement")
	viper.BindPFlag("log.report_caller", rootCmd.PersistentFlags().Lookup("log-report-caller"))

	viper.BindEnv("log.output", "HINDSIGHT_LOG_OUTPUT")
	rootCmd.PersistentFlags().String("log-output", "stdout", "Write logs to specified output one of: file path, `stdout`, or `stderr`")
	viper.BindPFlag("log.output", rootCmd.PersistentFlags().Lookup("log-output"))

	viper.BindEnv("log.pretty", "HINDSIGHT_LOG_PRETTY")
	rootCmd.PersistentFlags().Bool("log-pretty", false, "Pretty print log output")
	viper.BindPFlag("log.pretty", rootCmd.PersistentFlags().Lookup("log-pretty"))

	// Cache configuration
	viper.BindEnv("cache.redis", "HINDSIGHT_REDIS_URL")
	rootCmd.PersistentFlags().String("cache-redis", "", "Redis connection URL; if blank use in-memory LRU only")
	viper.BindPFlag("cache.redis", rootCmd.PersistentFlags().Lookup("cache-redis"))

	viper.BindEnv("cache.lru_size", "HINDSIGHT_LRU_SIZE")
	viper.SetDefault("cache.lru_size", 256)
	viper.SetDefault("cache.ttl", 86400)

	// Reddit API credentials
	viper.BindEnv("reddit.client_id", "REDDIT_CLIENT_ID")
	viper.BindEnv("reddit.client_secret", "REDDIT_CLIENT_SECRET")
	viper.BindEnv("reddit.username", "REDDIT_USERNAME")
	viper.BindEnv("reddit.password", "REDDIT_PASSWORD")
	viper.BindEnv("reddit.user_agent", "REDDIT_USER_AGENT")

	viper.SetDefault("reddit.subreddits", []string{"wallstreetbets"})
	viper.SetDefault("reddit.methods", []string{"top", "controversial", "hot"})
	viper.SetDefault("reddit.max_posts_per_method", 100)

	// Mention extraction
	viper.SetDefault("mentions.top_n", 5)
	viper.SetDefault("mentions.max_matches", 64)

	// Backtest
	viper.SetDefault("backtest.benchmarks", []string{"SPY", "QQQ"})
	viper.SetDefault("backtest.initial_capital", 100_000.0)
	viper.SetDefault("backtest.risk_free_rate", 0.0)
}

var rootCmd = &cobra.Command{
	Use:     "hindsight",
	Version: common.CurrentVersion.String(),
	Short:   "Hindsight backtests Reddit ticker hype against the S&P 500",
	Long: `Hindsight reconstructs historical S&P 500 membership week by week,
counts ticker mentions on Reddit filtered to each week's actual index
members, and backtests a weekly top-mentions portfolio against benchmark
ETFs.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		common.SetupLogging()
		common.SetupCache()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
