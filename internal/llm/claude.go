// Copyright Jordan Morrow, 2026. All rights reserved.

// Package llm is the generative text collaborator. It wraps the Anthropic
// messages API behind a single Complete call, retries transient failures
// within its own budget, and bounds in-flight completions globally so a
// whole edition run never exceeds the upstream concurrency allowance.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/codeGROOVE-dev/retry"

	"github.com/jmorrow/gitpress/pkg/types"
)

// apiURL is the messages endpoint. Package-level var for test substitution.
var apiURL = "https://api.anthropic.com/v1/messages"

// retryBaseDelay is the starting backoff between attempts. Tests override
// this to avoid real sleeps.
var retryBaseDelay = 2 * time.Second

const (
	maxAttempts = 2

	// maxInFlight bounds concurrent completions across the whole run.
	maxInFlight = 3
)

// Client calls the Anthropic messages API.
type Client struct {
	cfg        types.AIConfig
	httpClient *http.Client
	sem        chan struct{}
}

// New builds a Client from the AI configuration.
func New(cfg types.AIConfig) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 90 * time.Second},
		sem:        make(chan struct{}, maxInFlight),
	}
}

// request is the request body for the messages API.
type request struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

// message is a single message in the API conversation.
type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// response is the response body from the messages API.
type response struct {
	Content []contentBlock `json:"content"`
}

// contentBlock is a content block in the API response.
type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Complete sends one prompt and returns the model's text. Transient failures
// (network, 5xx, 429) are retried once after a backoff; 4xx responses abort
// immediately. Callers treat a returned error as a terminal backend failure.
func (c *Client) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	select {
	case c.sem <- struct{}{}:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	defer func() { <-c.sem }()

	var text string
	err := retry.Do(
		func() error {
			out, err := c.complete(ctx, prompt, maxTokens)
			if err != nil {
				return err
			}
			text = out
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(maxAttempts),
		retry.Delay(retryBaseDelay),
		retry.MaxJitter(retryBaseDelay/2),
		retry.DelayType(retry.CombineDelay(retry.BackOffDelay, retry.RandomDelay)),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return "", fmt.Errorf("text backend: %w", err)
	}
	return text, nil
}

func (c *Client) complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	reqBody := request{
		Model:     c.cfg.Model,
		MaxTokens: maxTokens,
		Messages:  []message{{Role: "user", Content: prompt}},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", retry.Unrecoverable(fmt.Errorf("marshaling request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", retry.Unrecoverable(fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.cfg.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling messages API: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("messages API returned %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(resp.Body)
		return "", retry.Unrecoverable(fmt.Errorf("messages API returned %d: %s", resp.StatusCode, string(body)))
	}

	var r response
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	for _, block := range r.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in response")
}
