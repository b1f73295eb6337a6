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

// Package data retrieves end-of-day price history for the backtester. The
// only bundled provider downloads daily bars from Yahoo Finance; everything
// downstream consumes the Provider interface so another source can be
// swapped in.
package data

import (
	"context"
	"time"

	dataframe "github.com/rocketlaunchr/dataframe-go"
	"github.com/rs/zerolog/log"
)

const (
	MetricOpen     = "Open"
	MetricLow      = "Low"
	MetricHigh     = "High"
	MetricClose    = "Close"
	MetricAdjClose = "Adj Close"
	MetricVolume   = "Volume"
)

// DateIdx names the date column of every EOD dataframe.
const DateIdx = "Date"

// Provider retrieves daily bars for a single symbol over a period. The
// returned dataframe has a Date column plus the metric columns above, one
// row per trading day in ascending date order.
type Provider interface {
	DataType() string
	GetEOD(ctx context.Context, symbol string, begin time.Time, end time.Time) (*dataframe.DataFrame, error)
}

type quoteResult struct {
	Ticker string
	Data   *dataframe.DataFrame
	Err    error
}

// GetEODBatch downloads several symbols through provider, fanning out a
// bounded number of concurrent downloads. Symbols that fail are logged and
// omitted from the result rather than failing the batch; the backtester
// treats a missing symbol as an untradeable week.
func GetEODBatch(ctx context.Context, provider Provider, symbols []string, begin time.Time, end time.Time) map[string]*dataframe.DataFrame {
	res := make(map[string]*dataframe.DataFrame, len(symbols))
	ch := make(chan quoteResult)

	for _, chunk := range partitionArray(symbols, 5) {
		for ii := range chunk {
			go downloadWorker(ctx, ch, provider, chunk[ii], begin, end)
		}

		for range chunk {
			v := <-ch
			if v.Err != nil {
				log.Warn().Err(v.Err).Str("Ticker", v.Ticker).Msg("cannot download ticker data")
				continue
			}
			res[v.Ticker] = v.Data
		}
	}

	return res
}

func downloadWorker(ctx context.Context, result chan<- quoteResult, provider Provider, symbol string, begin time.Time, end time.Time) {
	df, err := provider.GetEOD(ctx, symbol, begin, end)
	result <- quoteResult{
		Ticker: symbol,
		Data:   df,
		Err:    err,
	}
}

func partitionArray(xs []string, chunkSize int) [][]string {
	if len(xs) == 0 {
		return nil
	}
	divided := make([][]string, (len(xs)+chunkSize-1)/chunkSize)
	prev := 0
	i := 0
	till := len(xs) - chunkSize
	for prev < till {
		next := prev + chunkSize
		divided[i] = xs[prev:next]
		prev = next
		i++
	}
	divided[i] = xs[prev:]
	return divided
}
