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

// Package reddit is a minimal Reddit API client covering what the mention
// scraper needs: script-app authentication and subreddit listing pulls with
// a bounded number of posts per listing method.
package reddit

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

var (
	tokenURL = "https://www.reddit.com/api/v1/access_token"
	apiURL   = "https://oauth.reddit.com"
)

// listing methods used for historical scraping; "new" is useless for
// multi-year lookbacks so top and controversial carry the weight
var DefaultMethods = []string{"top", "controversial", "hot"}

const pageSize = 100

// Credentials holds script-app credentials for the password grant.
type Credentials struct {
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
	UserAgent    string
}

// Post is a single submission's text payload.
type Post struct {
	ID       string
	Title    string
	SelfText string
	Created  time.Time
}

// Text returns the full searchable text of the post.
func (p *Post) Text() string {
	if p.SelfText == "" {
		return p.Title
	}
	return p.Title + "\n" + p.SelfText
}

type Client struct {
	creds   Credentials
	token   string
	expires time.Time
}

func NewClient(creds Credentials) *Client {
	return &Client{creds: creds}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	Error       string `json:"error"`
}

type listingResponse struct {
	Data struct {
		After    string `json:"after"`
		Children []struct {
			Data struct {
				ID         string  `json:"id"`
				Title      string  `json:"title"`
				SelfText   string  `json:"selftext"`
				CreatedUTC float64 `json:"created_utc"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// authenticate fetches (or refreshes) the OAuth token using the password
// grant for script apps.
func (client *Client) authenticate(ctx context.Context) error {
	if client.token != "" && time.Now().Before(client.expires) {
		return nil
	}

	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", client.creds.Username)
	form.Set("password", client.creds.Password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(client.creds.ClientID, client.creds.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", client.creds.UserAgent)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Error().Err(err).Msg("reddit token request failed")
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		log.Error().Int("HTTPResponseStatusCode", resp.StatusCode).Msg("reddit token endpoint returned invalid response code")
		return fmt.Errorf("HTTP request returned invalid status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	token := tokenResponse{}
	if err := json.Unmarshal(body, &token); err != nil {
		return err
	}
	if token.Error != "" || token.AccessToken == "" {
		return fmt.Errorf("reddit authentication rejected: %s", token.Error)
	}

	client.token = token.AccessToken
	client.expires = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second).Add(-time.Minute)
	log.Debug().Msg("authenticated with reddit")
	return nil
}

// Listing pulls up to limit posts from one subreddit listing method
// (top, controversial, hot), following the after cursor as needed.
func (client *Client) Listing(ctx context.Context, subreddit, method string, limit int) ([]*Post, error) {
	if err := client.authenticate(ctx); err != nil {
		return nil, err
	}

	subLog := log.With().Str("Subreddit", subreddit).Str("Method", method).Logger()

	posts := make([]*Post, 0, limit)
	after := ""

	for len(posts) < limit {
		pageLimit := limit - len(posts)
		if pageLimit > pageSize {
			pageLimit = pageSize
		}

		listingURL := fmt.Sprintf("%s/r/%s/%s?t=all&limit=%d", apiURL, subreddit, method, pageLimit)
		if after != "" {
			listingURL += "&after=" + after
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, listingURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "bearer "+client.token)
		req.Header.Set("User-Agent", client.creds.UserAgent)

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			subLog.Error().Err(err).Msg("reddit listing request failed")
			return nil, err
		}

		if resp.StatusCode >= 400 {
			resp.Body.Close()
			subLog.Error().Int("HTTPResponseStatusCode", resp.StatusCode).Msg("reddit returned invalid response code")
			return nil, fmt.Errorf("HTTP request returned invalid status code: %d", resp.StatusCode)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, err
		}

		listing := listingResponse{}
		if err := json.Unmarshal(body, &listing); err != nil {
			return nil, err
		}

		for _, child := range listing.Data.Children {
			posts = append(posts, &Post{
				ID:       child.Data.ID,
				Title:    child.Data.Title,
				SelfText: child.Data.SelfText,
				Created:  time.Unix(int64(child.Data.CreatedUTC), 0).UTC(),
			})
		}

		after = listing.Data.After
		if after == "" || len(listing.Data.Children) == 0 {
			break
		}
	}

	if len(posts) > limit {
		posts = posts[:limit]
	}
	subLog.Debug().Int("NumPosts", len(posts)).Msg("fetched listing")
	return posts, nil
}

// FetchWeek pulls every configured listing method for a subreddit, dedupes
// posts by id, and keeps only those created during the week. weekEnd names
// the week's final calendar day, so posts are kept through the end of that
// day regardless of the time-of-day on weekEnd itself. Back-pressure is the
// caller's problem only in so far as maxPerMethod bounds each pull.
func (client *Client) FetchWeek(ctx context.Context, subreddit string, methods []string, maxPerMethod int, weekStart, weekEnd time.Time) ([]*Post, error) {
	seen := map[string]bool{}
	week := []*Post{}

	cutoff := time.Date(weekEnd.Year(), weekEnd.Month(), weekEnd.Day(), 0, 0, 0, 0, weekEnd.Location()).AddDate(0, 0, 1)

	for _, method := range methods {
		posts, err := client.Listing(ctx, subreddit, method, maxPerMethod)
		if err != nil {
			return nil, err
		}

		for _, post := range posts {
			if seen[post.ID] {
				continue
			}
			seen[post.ID] = true
			if post.Created.Before(weekStart) || !post.Created.Before(cutoff) {
				continue
			}
			week = append(week, post)
		}
	}

	return week, nil
}
