// Copyright Jordan Morrow, 2026. All rights reserved.

package gitsource

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/jmorrow/gitpress/pkg/types"
)

// trendingAPIBase is the OSS Insight trending endpoint. Declared as a var so
// tests can substitute an httptest server.
var trendingAPIBase = "https://api.ossinsight.io/v1/trends/repos/"

// trendingResponse mirrors the OSS Insight trends payload. Numeric columns
// arrive as strings.
type trendingResponse struct {
	Data struct {
		Rows []trendingRow `json:"rows"`
	} `json:"data"`
}

type trendingRow struct {
	RepoName        string `json:"repo_name"`
	Description     string `json:"description"`
	PrimaryLanguage string `json:"primary_language"`
	Stars           string `json:"stars"`
	Forks           string `json:"forks"`
}

// Trending fetches the external trending aggregate for the last 24 hours.
// The aggregator reports no usable timestamps, so returned candidates carry
// SyntheticTimestamps and stamped-now time fields; the scorer ignores their
// velocity and recency terms.
func (c *Client) Trending(ctx context.Context) ([]types.RepositoryCandidate, error) {
	body, err := c.get(ctx, trendingAPIBase+"?period=past_24_hours", "application/json")
	if err != nil {
		return nil, fmt.Errorf("trending aggregator: %w", err)
	}

	var tr trendingResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, fmt.Errorf("parsing trending response: %w", err)
	}

	now := time.Now()
	candidates := make([]types.RepositoryCandidate, 0, len(tr.Data.Rows))
	for _, row := range tr.Data.Rows {
		if row.RepoName == "" {
			continue
		}
		lang := row.PrimaryLanguage
		if lang == "" {
			lang = "Unknown"
		}
		candidates = append(candidates, types.RepositoryCandidate{
			FullName:            row.RepoName,
			Description:         row.Description,
			URL:                 "https://github.com/" + row.RepoName,
			Language:            lang,
			Stars:               atoiLoose(row.Stars),
			Forks:               atoiLoose(row.Forks),
			CreatedAt:           now,
			PushedAt:            now,
			SyntheticTimestamps: true,
		})
	}
	return candidates, nil
}

// atoiLoose parses an integer column, treating anything unparseable as zero.
func atoiLoose(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
