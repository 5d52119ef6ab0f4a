// SPDX-License-Identifier: GPL-3.0-only

// Package igdb is a thin client for the IGDB v4 API. Queries are Apicalypse
// bodies POSTed to the games endpoint with a static client-id and bearer
// token; there is no retry and, by default, no timeout.
package igdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"game-library-server/commons"
)

const defaultBaseURL = "https://api.igdb.com/v4"

const gameFields = "id,name,summary,storyline,rating,first_release_date," +
	"cover.url,screenshots.url,genres.name,platforms.name," +
	"involved_companies.company.name,involved_companies.developer," +
	"involved_companies.publisher"

type Client struct {
	// BaseURL is overridable for tests.
	BaseURL     string
	httpc       *http.Client
	clientID    string
	accessToken string
}

// NewClient builds a client from static credentials. IGDB_HTTP_TIMEOUT
// (seconds) bounds each request; the default of 0 means no timeout, so a
// hung provider call blocks its request indefinitely.
func NewClient(clientID, accessToken string) *Client {
	var timeout time.Duration
	if v := commons.GetEnv("IGDB_HTTP_TIMEOUT", "0"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			timeout = time.Duration(secs) * time.Second
		}
	}
	return &Client{
		BaseURL:     defaultBaseURL,
		httpc:       &http.Client{Timeout: timeout},
		clientID:    clientID,
		accessToken: accessToken,
	}
}

func (c *Client) query(ctx context.Context, body string) ([]Game, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/games", strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build IGDB request: %w", err)
	}
	req.Header.Set("Client-ID", c.clientID)
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("IGDB request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("IGDB API request failed: %s", resp.Status)
	}

	var games []Game
	if err := json.NewDecoder(resp.Body).Decode(&games); err != nil {
		return nil, fmt.Errorf("failed to decode IGDB response: %w", err)
	}
	return games, nil
}

// SearchGames runs a fuzzy name search, returning at most limit records.
func (c *Client) SearchGames(ctx context.Context, query string, limit int) ([]Game, error) {
	body := fmt.Sprintf("search %q; fields %s; limit %d;", query, gameFields, limit)
	return c.query(ctx, body)
}

// GetGameByID fetches one record by IGDB id, or nil when the id is unknown.
func (c *Client) GetGameByID(ctx context.Context, igdbID int64) (*Game, error) {
	body := fmt.Sprintf("fields %s; where id = %d;", gameFields, igdbID)
	games, err := c.query(ctx, body)
	if err != nil {
		return nil, err
	}
	if len(games) == 0 {
		return nil, nil
	}
	return &games[len(games)-1], nil
}
