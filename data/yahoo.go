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

package data

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hindsight-labs/hindsight/common"
	dataframe "github.com/rocketlaunchr/dataframe-go"
	imports "github.com/rocketlaunchr/dataframe-go/imports"
	"github.com/rs/zerolog/log"
)

var yahooURL = "https://query1.finance.yahoo.com"

type yahoo struct{}

// NewYahoo creates a new Yahoo Finance data provider
func NewYahoo() Provider {
	return &yahoo{}
}

func (y *yahoo) DataType() string {
	return "eod"
}

// GetEOD downloads daily bars for symbol. Responses are cached through the
// common cache so repeated backtest runs do not re-download the same range.
func (y *yahoo) GetEOD(ctx context.Context, symbol string, begin time.Time, end time.Time) (*dataframe.DataFrame, error) {
	symbol = strings.ToUpper(symbol)

	cacheKey := fmt.Sprintf("yahoo:eod:%s:%s:%s", symbol, begin.Format("2006-01-02"), end.Format("2006-01-02"))
	if body, err := common.CacheGet(cacheKey); err == nil {
		return parseEODCSV(body)
	}

	downloadURL := fmt.Sprintf("%s/v7/finance/download/%s?period1=%d&period2=%d&interval=1d&events=history&includeAdjustedClose=true",
		yahooURL, url.PathEscape(symbol), begin.Unix(), end.Unix())

	subLog := log.With().Str("Ticker", symbol).Logger()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "hindsight/"+common.CurrentVersion.String())

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		subLog.Error().Err(err).Msg("yahoo http request failed")
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		subLog.Error().Int("HTTPResponseStatusCode", resp.StatusCode).Msg("yahoo returned invalid response code")
		return nil, fmt.Errorf("HTTP request returned invalid status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		subLog.Error().Err(err).Msg("could not read yahoo body")
		return nil, err
	}

	if err := common.CacheSet(cacheKey, body); err != nil {
		subLog.Warn().Err(err).Msg("could not cache yahoo response")
	}

	return parseEODCSV(body)
}

func parseEODCSV(body []byte) (*dataframe.DataFrame, error) {
	tz := common.GetTimezone()

	floatConverter := imports.Converter{
		ConcreteType: float64(0),
		ConverterFunc: func(in interface{}) (interface{}, error) {
			v, err := strconv.ParseFloat(in.(string), 64)
			if err != nil {
				// yahoo emits the literal string null for missing bars
				return math.NaN(), nil
			}
			return v, nil
		},
	}

	return imports.LoadFromCSV(context.TODO(), bytes.NewReader(body), imports.CSVLoadOptions{
		DictateDataType: map[string]interface{}{
			DateIdx: imports.Converter{
				ConcreteType: time.Time{},
				ConverterFunc: func(in interface{}) (interface{}, error) {
					return time.ParseInLocation("2006-01-02", in.(string), tz)
				},
			},
			MetricOpen:     floatConverter,
			MetricHigh:     floatConverter,
			MetricLow:      floatConverter,
			MetricClose:    floatConverter,
			MetricAdjClose: floatConverter,
			MetricVolume:   floatConverter,
		},
	})
}
