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
	"errors"
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var configForce bool

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)

	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "overwrite an existing config file")
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the hindsight configuration file",
}

type logConfig struct {
	Level        string `toml:"level"`
	Output       string `toml:"output"`
	Pretty       bool   `toml:"pretty"`
	ReportCaller bool   `toml:"report_caller"`
}

type cacheConfig struct {
	Redis   string `toml:"redis"`
	LRUSize int    `toml:"lru_size"`
	TTL     int    `toml:"ttl"`
}

type redditConfig struct {
	ClientID          string   `toml:"client_id"`
	ClientSecret      string   `toml:"client_secret"`
	Username          string   `toml:"username"`
	Password          string   `toml:"password"`
	UserAgent         string   `toml:"user_agent"`
	Subreddits        []string `toml:"subreddits"`
	Methods           []string `toml:"methods"`
	MaxPostsPerMethod int      `toml:"max_posts_per_method"`
}

type mentionsConfig struct {
	TopN       int `toml:"top_n"`
	MaxMatches int `toml:"max_matches"`
}

type backtestConfig struct {
	Benchmarks     []string `toml:"benchmarks"`
	InitialCapital float64  `toml:"initial_capital"`
	RiskFreeRate   float64  `toml:"risk_free_rate"`
}

type configFile struct {
	Log      logConfig      `toml:"log"`
	Cache    cacheConfig    `toml:"cache"`
	Reddit   redditConfig   `toml:"reddit"`
	Mentions mentionsConfig `toml:"mentions"`
	Backtest backtestConfig `toml:"backtest"`
}

var configInitCmd = &cobra.Command{
	Use:   "init [filename]",
	Short: "Write a config file populated with defaults",
	Args:  cobra.MaximumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		fileName := "config.toml"
		if len(args) == 1 {
			fileName = args[0]
		}

		if !configForce {
			if _, err := os.Stat(fileName); !errors.Is(err, os.ErrNotExist) {
				log.Fatal().Str("FileName", fileName).Msg("config file already exists; use --force to overwrite")
			}
		}

		defaults := configFile{
			Log: logConfig{
				Level:  "info",
				Output: "stdout",
			},
			Cache: cacheConfig{
				LRUSize: 256,
				TTL:     86400,
			},
			Reddit: redditConfig{
				UserAgent:         "hindsight",
				Subreddits:        []string{"wallstreetbets"},
				Methods:           []string{"top", "controversial", "hot"},
				MaxPostsPerMethod: 100,
			},
			Mentions: mentionsConfig{
				TopN:       5,
				MaxMatches: 64,
			},
			Backtest: backtestConfig{
				Benchmarks:     []string{"SPY", "QQQ"},
				InitialCapital: 100_000,
			},
		}

		raw, err := toml.Marshal(defaults)
		if err != nil {
			log.Fatal().Err(err).Msg("could not marshal default config")
		}
		if err := os.WriteFile(fileName, raw, 0600); err != nil {
			log.Fatal().Err(err).Str("FileName", fileName).Msg("could not write config file")
		}

		fmt.Printf("wrote %s\n", fileName)
	},
}
