// Copyright Jordan Morrow, 2026. All rights reserved.

// Package types defines shared data structures for the gitpress pipeline:
// repository candidates flowing out of the source, scored and enriched
// projections, and the per-section content that makes up an edition.
package types

import (
	"strings"
	"time"
)

// ReleaseRef is the lightweight release signal attached to a candidate at
// search time. PublishedAt may be zero when the source omits the timestamp.
type ReleaseRef struct {
	Tag         string    `json:"tag" yaml:"tag"`
	PublishedAt time.Time `json:"published_at,omitempty" yaml:"published_at,omitempty"`
}

// Release holds the full release detail fetched during enrichment.
type Release struct {
	Tag         string    `json:"tag" yaml:"tag"`
	Name        string    `json:"name" yaml:"name"`
	Notes       string    `json:"notes" yaml:"notes"`
	PublishedAt time.Time `json:"published_at,omitempty" yaml:"published_at,omitempty"`
}

// RepositoryCandidate carries the raw signals for one repository as returned
// by the source. FullName (owner/repo) is the globally unique key. Candidates
// are immutable once scoring begins.
type RepositoryCandidate struct {
	// FullName is the owner/repo identifier, e.g. "torvalds/linux".
	FullName string `json:"full_name" yaml:"full_name"`

	// Description is the repository description, possibly empty.
	Description string `json:"description" yaml:"description"`

	// URL is the human-facing repository page.
	URL string `json:"url" yaml:"url"`

	// Language is the primary language; "Unknown" when the source reports none.
	Language string `json:"language" yaml:"language"`

	Topics []string `json:"topics,omitempty" yaml:"topics,omitempty"`

	Stars      int `json:"stars" yaml:"stars"`
	Forks      int `json:"forks" yaml:"forks"`
	OpenIssues int `json:"open_issues" yaml:"open_issues"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	PushedAt  time.Time `json:"pushed_at" yaml:"pushed_at"`

	// Release is the latest release reference, nil when the repo has none.
	Release *ReleaseRef `json:"release,omitempty" yaml:"release,omitempty"`

	// SyntheticTimestamps marks candidates from aggregated trending sources
	// whose CreatedAt/PushedAt are fabricated and must not feed time-based
	// scoring terms.
	SyntheticTimestamps bool `json:"synthetic_timestamps,omitempty" yaml:"synthetic_timestamps,omitempty"`
}

// ShortName returns the repo part of the full name ("linux" for "torvalds/linux").
func (c RepositoryCandidate) ShortName() string {
	if i := strings.LastIndex(c.FullName, "/"); i >= 0 {
		return c.FullName[i+1:]
	}
	return c.FullName
}

// ScoredCandidate decorates a candidate with its computed rank score.
// Ordering is descending by score with ties broken by original fetch order.
type ScoredCandidate struct {
	RepositoryCandidate `yaml:",inline"`

	Score float64 `json:"score" yaml:"score"`
}

// EnrichedRepo is the display-ready projection of a candidate. Lead and
// secondary slots additionally carry a readme excerpt and release notes;
// quick-hit slots get the lightweight fields only.
type EnrichedRepo struct {
	FullName    string   `json:"full_name" yaml:"full_name"`
	ShortName   string   `json:"short_name" yaml:"short_name"`
	Description string   `json:"description" yaml:"description"`
	URL         string   `json:"url" yaml:"url"`
	Language    string   `json:"language" yaml:"language"`
	Topics      []string `json:"topics,omitempty" yaml:"topics,omitempty"`

	Stars      int `json:"stars" yaml:"stars"`
	Forks      int `json:"forks" yaml:"forks"`
	OpenIssues int `json:"open_issues" yaml:"open_issues"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	PushedAt  time.Time `json:"pushed_at" yaml:"pushed_at"`

	// ReadmeExcerpt is capped at 2000 characters.
	ReadmeExcerpt string `json:"readme_excerpt,omitempty" yaml:"readme_excerpt,omitempty"`

	// ReleaseNotes is capped at 1500 characters.
	ReleaseNotes string `json:"release_notes,omitempty" yaml:"release_notes,omitempty"`
	ReleaseName  string `json:"release_name,omitempty" yaml:"release_name,omitempty"`
}

// Project converts a candidate to its lightweight display projection.
// Readme and release fields are filled by enrichment separately.
func Project(c RepositoryCandidate) EnrichedRepo {
	return EnrichedRepo{
		FullName:    c.FullName,
		ShortName:   c.ShortName(),
		Description: c.Description,
		URL:         c.URL,
		Language:    c.Language,
		Topics:      c.Topics,
		Stars:       c.Stars,
		Forks:       c.Forks,
		OpenIssues:  c.OpenIssues,
		CreatedAt:   c.CreatedAt,
		PushedAt:    c.PushedAt,
	}
}
