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

// Package mentions extracts ticker-symbol candidates from free text and
// tallies them per week, filtered against that week's index membership
// snapshot so a mention only counts if the ticker was actually a member
// during that specific week.
package mentions

import (
	"strings"
	"unicode"
)

// DefaultMaxMatches caps candidates extracted from a single text item.
const DefaultMaxMatches = 64

// ticker-shaped words that are almost always ordinary English in posts
var stopwords = map[string]bool{
	"A": true, "I": true, "AN": true, "AND": true, "ALL": true, "ARE": true,
	"AT": true, "BE": true, "BY": true, "BUY": true, "CAN": true, "CEO": true,
	"DD": true, "EDIT": true, "ETF": true, "FOR": true, "GAIN": true,
	"GO": true, "HOLD": true, "IMO": true, "IN": true, "IPO": true, "IT": true,
	"LOSS": true, "NEWS": true, "NOW": true, "ON": true, "ONE": true,
	"OR": true, "OUT": true, "SEE": true, "SELL": true, "SO": true,
	"THE": true, "TLDR": true, "USA": true, "USD": true, "WSB": true,
	"YOLO": true,
}

// Extractor finds ticker-symbol candidates in unstructured text. A candidate
// is an all-caps token of one to five letters (optionally a $-prefixed
// cashtag, optionally with a class suffix like BRK.B) that is not a common
// English word. Membership validation is not the extractor's job; the weekly
// filter intersects candidates with the active snapshot.
type Extractor struct {
	maxMatches int
}

// NewExtractor returns an extractor that yields at most maxMatches distinct
// candidates per call. maxMatches <= 0 selects DefaultMaxMatches.
func NewExtractor(maxMatches int) *Extractor {
	if maxMatches <= 0 {
		maxMatches = DefaultMaxMatches
	}
	return &Extractor{maxMatches: maxMatches}
}

// Extract returns the distinct ticker candidates mentioned in text, in first
// occurrence order. Each candidate appears once no matter how many times the
// word repeats, which keeps a single rambling post from inflating counts.
func (extractor *Extractor) Extract(text string) []string {
	seen := map[string]bool{}
	candidates := []string{}

	for _, token := range strings.FieldsFunc(text, splitToken) {
		cashtag := strings.HasPrefix(token, "$")
		token = strings.TrimPrefix(token, "$")
		token = strings.Trim(token, ".")

		if !tickerShaped(token) {
			continue
		}
		// a cashtag is an explicit mention even for stopword symbols ($A)
		if !cashtag && stopwords[token] {
			continue
		}
		if seen[token] {
			continue
		}

		seen[token] = true
		candidates = append(candidates, token)
		if len(candidates) >= extractor.maxMatches {
			break
		}
	}

	return candidates
}

func splitToken(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.' && r != '$'
}

func tickerShaped(token string) bool {
	if token == "" {
		return false
	}

	base := token
	// class shares trade as TICKER.X
	if idx := strings.IndexRune(token, '.'); idx >= 0 {
		base = token[:idx]
		suffix := token[idx+1:]
		if len(suffix) != 1 || suffix[0] < 'A' || suffix[0] > 'Z' {
			return false
		}
	}

	if len(base) < 1 || len(base) > 5 {
		return false
	}
	for _, r := range base {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
