// Copyright Jordan Morrow, 2026. All rights reserved.

package types

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"
)

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "gitpress/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SourceConfig holds settings for the repository source.
type SourceConfig struct {
	HTTPConfig `yaml:",inline"`

	// Token is the API token for the code-hosting source; usually supplied
	// via secrets rather than the config file.
	Token string `json:"token,omitempty" yaml:"token,omitempty"`

	// StarFloor is the minimum star count for section queries (default 50).
	StarFloor int `json:"star_floor" yaml:"star_floor"`

	// PushedWithin restricts section queries to repos pushed within this
	// window (default 72h).
	PushedWithin time.Duration `json:"pushed_within" yaml:"pushed_within"`

	// PerQuery is the page size requested per search query (default 30).
	PerQuery int `json:"per_query" yaml:"per_query"`

	// EnableTrending controls whether the front page also consults the
	// external trending aggregator.
	EnableTrending bool `json:"enable_trending" yaml:"enable_trending"`
}

// AIConfig holds settings for the generative text backend.
type AIConfig struct {
	// Model is the model identifier (e.g. "claude-sonnet-4-5-20250929").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxTokens is the completion budget for full articles (default 1200).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`
}

// Budget is the slot budget for one section beyond its single lead slot.
type Budget struct {
	Secondary int `json:"secondary" yaml:"secondary"`
	QuickHits int `json:"quick_hits" yaml:"quick_hits"`
}

// SectionSpec configures one topical section. Topics beyond the first three
// are ignored at fetch time.
type SectionSpec struct {
	ID        string   `json:"id" yaml:"id"`
	Title     string   `json:"title" yaml:"title"`
	Topics    []string `json:"topics,omitempty" yaml:"topics,omitempty"`
	Languages []string `json:"languages,omitempty" yaml:"languages,omitempty"`
	Budget    Budget   `json:"budget" yaml:"budget"`
}

// EditionConfig holds the section layout and run-level settings.
type EditionConfig struct {
	// FrontPageBudget sizes the distinguished front-page section, which runs
	// first and uses broad queries instead of topic filters.
	FrontPageBudget Budget `json:"front_page_budget" yaml:"front_page_budget"`

	// Sections are processed sequentially in declared order after the front page.
	Sections []SectionSpec `json:"sections" yaml:"sections"`

	// HistoryWindow is how many past editions feed the repeat-headline
	// penalty (default 3).
	HistoryWindow int `json:"history_window" yaml:"history_window"`

	// OutputDir is the directory the publisher writes into (default "site").
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// ArchiveDB is the sqlite file recording which repos each edition used
	// (default "gitpress.db").
	ArchiveDB string `json:"archive_db" yaml:"archive_db"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Source  SourceConfig  `json:"source" yaml:"source"`
	AI      AIConfig      `json:"ai" yaml:"ai"`
	Edition EditionConfig `json:"edition" yaml:"edition"`
}

// DefaultConfig returns a PipelineConfig with defaults applied and a stock
// section layout.
func DefaultConfig() PipelineConfig {
	return PipelineConfig{
		Source: SourceConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   30 * time.Second,
				UserAgent: "gitpress/0.1",
			},
			StarFloor:      50,
			PushedWithin:   72 * time.Hour,
			PerQuery:       30,
			EnableTrending: true,
		},
		AI: AIConfig{
			Model:     "claude-sonnet-4-5-20250929",
			MaxTokens: 1200,
		},
		Edition: EditionConfig{
			FrontPageBudget: Budget{Secondary: 3, QuickHits: 8},
			Sections: []SectionSpec{
				{ID: "ai", Title: "AI & Machine Learning", Topics: []string{"llm", "machine-learning", "ai"}, Budget: Budget{Secondary: 2, QuickHits: 6}},
				{ID: "systems", Title: "Systems & Infrastructure", Topics: []string{"database", "kubernetes"}, Languages: []string{"rust", "go"}, Budget: Budget{Secondary: 2, QuickHits: 6}},
				{ID: "web", Title: "Web & Frontend", Topics: []string{"react", "webdev"}, Languages: []string{"typescript"}, Budget: Budget{Secondary: 2, QuickHits: 6}},
			},
			HistoryWindow: 3,
			OutputDir:     "site",
			ArchiveDB:     "gitpress.db",
		},
	}
}

// LoadConfig reads a YAML config file over the defaults. A missing file is
// not an error; the defaults are returned unchanged.
func LoadConfig(path string) (PipelineConfig, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
