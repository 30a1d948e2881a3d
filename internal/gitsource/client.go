// Copyright Jordan Morrow, 2026. All rights reserved.

// Package gitsource is the code-hosting collaborator: repository search,
// readme and release fetches against the GitHub REST API, and the external
// trending aggregator. Transient failures (network, 5xx, 429) are retried
// with randomized backoff; 4xx responses abort immediately.
package gitsource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/codeGROOVE-dev/retry"

	"github.com/jmorrow/gitpress/pkg/types"
)

// apiBase is the GitHub REST endpoint. Declared as a var so tests can
// substitute an httptest server.
var apiBase = "https://api.github.com"

// retryBaseDelay is the starting backoff for transient failures. Tests
// override this to avoid real sleeps.
var retryBaseDelay = time.Second

const maxAttempts = 3

// Client talks to the GitHub REST API.
type Client struct {
	cfg        types.SourceConfig
	httpClient *http.Client
}

// New builds a Client from the source configuration.
func New(cfg types.SourceConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// statusError reports a non-2xx HTTP response.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.code)
}

// IsNotFound reports whether err is an HTTP 404 from the source.
func IsNotFound(err error) bool {
	var se *statusError
	return errors.As(err, &se) && se.code == http.StatusNotFound
}

// get issues a GET with retry. 5xx and 429 responses are retried up to
// maxAttempts with randomized exponential backoff; other 4xx responses are
// permanent and abort the budget.
func (c *Client) get(ctx context.Context, rawURL string, accept string) ([]byte, error) {
	var body []byte
	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			req.Header.Set("User-Agent", c.cfg.UserAgent)
			if accept != "" {
				req.Header.Set("Accept", accept)
			}
			if c.cfg.Token != "" {
				req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
			}

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			switch {
			case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
				io.Copy(io.Discard, resp.Body)
				return &statusError{code: resp.StatusCode}
			case resp.StatusCode >= 400:
				io.Copy(io.Discard, resp.Body)
				return retry.Unrecoverable(&statusError{code: resp.StatusCode})
			}

			body, err = io.ReadAll(resp.Body)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(maxAttempts),
		retry.Delay(retryBaseDelay),
		retry.MaxJitter(retryBaseDelay/2),
		retry.DelayType(retry.CombineDelay(retry.BackOffDelay, retry.RandomDelay)),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}
	return body, nil
}

// searchResponse mirrors the /search/repositories payload.
type searchResponse struct {
	Items []searchItem `json:"items"`
}

type searchItem struct {
	FullName    string   `json:"full_name"`
	Description string   `json:"description"`
	HTMLURL     string   `json:"html_url"`
	Language    string   `json:"language"`
	Topics      []string `json:"topics"`
	Stars       int      `json:"stargazers_count"`
	Forks       int      `json:"forks_count"`
	OpenIssues  int      `json:"open_issues_count"`
	CreatedAt   string   `json:"created_at"`
	PushedAt    string   `json:"pushed_at"`
}

// Search runs one repository search query (GitHub search syntax) and returns
// candidates in result order, best-starred first.
func (c *Client) Search(ctx context.Context, query string) ([]types.RepositoryCandidate, error) {
	perPage := c.cfg.PerQuery
	if perPage <= 0 {
		perPage = 30
	}

	u := fmt.Sprintf("%s/search/repositories?q=%s&sort=stars&order=desc&per_page=%d",
		apiBase, url.QueryEscape(query), perPage)

	body, err := c.get(ctx, u, "application/vnd.github+json")
	if err != nil {
		return nil, fmt.Errorf("repository search: %w", err)
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}

	candidates := make([]types.RepositoryCandidate, 0, len(sr.Items))
	for _, item := range sr.Items {
		candidates = append(candidates, item.toCandidate())
	}
	return candidates, nil
}

func (it searchItem) toCandidate() types.RepositoryCandidate {
	lang := it.Language
	if lang == "" {
		lang = "Unknown"
	}
	c := types.RepositoryCandidate{
		FullName:    it.FullName,
		Description: it.Description,
		URL:         it.HTMLURL,
		Language:    lang,
		Topics:      it.Topics,
		Stars:       it.Stars,
		Forks:       it.Forks,
		OpenIssues:  it.OpenIssues,
	}
	if t, err := time.Parse(time.RFC3339, it.CreatedAt); err == nil {
		c.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339, it.PushedAt); err == nil {
		c.PushedAt = t
	}
	return c
}

// Readme fetches the repository readme as plain text. A repo without a
// readme returns "" and no error.
func (c *Client) Readme(ctx context.Context, fullName string) (string, error) {
	u := fmt.Sprintf("%s/repos/%s/readme", apiBase, fullName)
	body, err := c.get(ctx, u, "application/vnd.github.raw+json")
	if err != nil {
		if IsNotFound(err) {
			return "", nil
		}
		return "", fmt.Errorf("fetching readme for %s: %w", fullName, err)
	}
	return string(body), nil
}

// releaseResponse mirrors the /releases/latest payload.
type releaseResponse struct {
	TagName     string `json:"tag_name"`
	Name        string `json:"name"`
	Body        string `json:"body"`
	PublishedAt string `json:"published_at"`
}

// LatestRelease fetches the most recent release. A repo without releases
// returns nil and no error.
func (c *Client) LatestRelease(ctx context.Context, fullName string) (*types.Release, error) {
	u := fmt.Sprintf("%s/repos/%s/releases/latest", apiBase, fullName)
	body, err := c.get(ctx, u, "application/vnd.github+json")
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetching latest release for %s: %w", fullName, err)
	}

	var rr releaseResponse
	if err := json.Unmarshal(body, &rr); err != nil {
		return nil, fmt.Errorf("parsing release response: %w", err)
	}

	rel := &types.Release{
		Tag:   rr.TagName,
		Name:  rr.Name,
		Notes: rr.Body,
	}
	if t, err := time.Parse(time.RFC3339, rr.PublishedAt); err == nil {
		rel.PublishedAt = t
	}
	return rel, nil
}
