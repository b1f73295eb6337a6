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
	"os"

	"github.com/hindsight-labs/hindsight/backtest"
	"github.com/hindsight-labs/hindsight/common"
	"github.com/hindsight-labs/hindsight/data"
	"github.com/hindsight-labs/hindsight/mentions"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var backtestMentions string

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVarP(&backtestMentions, "mentions", "m", "weekly_mentions.csv", "weekly top mentions file produced by the scrape command")

	backtestCmd.Flags().StringSlice("benchmark", nil, "benchmark symbols to compare against (may be repeated)")
	viper.BindPFlag("backtest.benchmarks", backtestCmd.Flags().Lookup("benchmark"))

	backtestCmd.Flags().Float64("initial-capital", 0, "starting capital for the growth chart")
	viper.BindPFlag("backtest.initial_capital", backtestCmd.Flags().Lookup("initial-capital"))

	backtestCmd.Flags().Float64("risk-free-rate", 0, "annual risk free rate used for the Sharpe ratio")
	viper.BindPFlag("backtest.risk_free_rate", backtestCmd.Flags().Lookup("risk-free-rate"))
}

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Backtest the weekly top-mention portfolio against benchmarks",
	Long: `Backtest buys each week's top mentioned tickers at the open of the
week's first trading day, equal weighted, sells at the close of the last
trading day, and reports performance against benchmark ETFs.`,
	Run: func(_ *cobra.Command, _ []string) {
		ctx := context.Background()

		selections, err := mentions.LoadSelections(backtestMentions)
		if err != nil {
			log.Fatal().Err(err).Str("FileName", backtestMentions).Msg("could not load weekly mentions")
		}
		if len(selections) == 0 {
			log.Fatal().Str("FileName", backtestMentions).Msg("mentions file has no weeks")
		}

		benchmarks := viper.GetStringSlice("backtest.benchmarks")
		common.ArrToUpper(benchmarks)

		bt := backtest.New(backtest.Config{
			Provider:       data.NewYahoo(),
			Benchmarks:     benchmarks,
			InitialCapital: viper.GetFloat64("backtest.initial_capital"),
		})

		if err := bt.Run(ctx, selections); err != nil {
			log.Fatal().Err(err).Msg("simulation failed")
		}
		if len(bt.Weeks) == 0 {
			log.Fatal().Msg("no weeks could be simulated; check price data availability")
		}

		bt.Report(os.Stdout, viper.GetFloat64("backtest.risk_free_rate"))
	},
}
