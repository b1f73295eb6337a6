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

// Package wikipedia fetches the public S&P 500 constituents page and parses
// its two tables: the current roster and the historical changes log. The
// page is an unreliable community-maintained source; rows that do not parse
// are passed through as-is and filtered downstream.
package wikipedia

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/hindsight-labs/hindsight/common"
	"github.com/hindsight-labs/hindsight/sp500"
	"github.com/rs/zerolog/log"
)

var constituentsURL = "https://en.wikipedia.org/wiki/List_of_S%26P_500_companies"

type Client struct {
	url string
}

func NewClient() *Client {
	return &Client{
		url: constituentsURL,
	}
}

// Constituents downloads the constituents page and returns the current
// roster rows and the raw historical change rows.
func (wiki *Client) Constituents(ctx context.Context) ([]sp500.CurrentRow, []sp500.ChangeRow, error) {
	subLog := log.With().Str("Url", wiki.url).Logger()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, wiki.url, nil)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("User-Agent", fmt.Sprintf("hindsight/%s (https://github.com/hindsight-labs/hindsight)", common.CurrentVersion.String()))

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		subLog.Error().Err(err).Msg("wikipedia http request failed")
		return nil, nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		subLog.Error().Int("HTTPResponseStatusCode", resp.StatusCode).Msg("wikipedia returned invalid response code")
		return nil, nil, fmt.Errorf("HTTP request returned invalid status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		subLog.Error().Err(err).Msg("could not parse wikipedia html")
		return nil, nil, err
	}

	current := parseCurrentTable(doc)
	changes := parseChangesTable(doc)
	subLog.Info().Int("CurrentRows", len(current)).Int("ChangeRows", len(changes)).Msg("parsed constituents page")

	if len(current) == 0 {
		return nil, nil, fmt.Errorf("no current constituents found; page layout may have changed")
	}

	return current, changes, nil
}

func parseCurrentTable(doc *goquery.Document) []sp500.CurrentRow {
	rows := []sp500.CurrentRow{}

	doc.Find("table#constituents tbody tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < 2 {
			return // header row
		}
		rows = append(rows, sp500.CurrentRow{
			Symbol:   cellText(cells.Eq(0)),
			Security: cellText(cells.Eq(1)),
		})
	})

	return rows
}

// parseChangesTable flattens the changes table. The date cell spans multiple
// rows when several tickers changed on the same day, so short rows inherit
// the previous row's date.
func parseChangesTable(doc *goquery.Document) []sp500.ChangeRow {
	rows := []sp500.ChangeRow{}
	lastDate := ""

	doc.Find("table#changes tbody tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")

		var fields []string
		cells.Each(func(_ int, td *goquery.Selection) {
			fields = append(fields, cellText(td))
		})

		switch {
		case len(fields) >= 6:
			lastDate = fields[0]
		case len(fields) == 5:
			// rowspan continuation
			fields = append([]string{lastDate}, fields...)
		default:
			return // header or malformed row
		}

		rows = append(rows, sp500.ChangeRow{
			Date:           fields[0],
			AddedTickers:   fields[1],
			AddedNames:     fields[2],
			RemovedTickers: fields[3],
			RemovedNames:   fields[4],
			Notes:          fields[5],
		})
	})

	return rows
}

func cellText(sel *goquery.Selection) string {
	return strings.TrimSpace(sel.Text())
}
