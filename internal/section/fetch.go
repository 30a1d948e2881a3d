// Copyright Jordan Morrow, 2026. All rights reserved.

// Package section fetches, deduplicates, scores, and allocates the candidate
// pool for one section of an edition. It owns the cross-section claim
// protocol that keeps a repository from headlining two sections.
package section

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/jmorrow/gitpress/internal/allocate"
	"github.com/jmorrow/gitpress/internal/score"
	"github.com/jmorrow/gitpress/pkg/types"
)

// Source abstracts the code-hosting collaborator. Implementations handle
// pagination, auth, and transient retries; the orchestrator only sees plain
// data or an error.
type Source interface {
	Search(ctx context.Context, query string) ([]types.RepositoryCandidate, error)
	Readme(ctx context.Context, fullName string) (string, error)
	LatestRelease(ctx context.Context, fullName string) (*types.Release, error)
}

// TrendingSource is the optional external trending aggregator consulted by
// the front page.
type TrendingSource interface {
	Trending(ctx context.Context) ([]types.RepositoryCandidate, error)
}

const (
	// maxTopics caps how many of a section's topic tags become queries.
	maxTopics = 3

	// searchConcurrency bounds in-flight section queries; enrichConcurrency
	// bounds in-flight readme/release fetches. Both exist for upstream rate
	// limits, not correctness.
	searchConcurrency = 3
	enrichConcurrency = 5

	readmeExcerptLen = 2000
	releaseNotesLen  = 1500
)

// Picks is a section's slot assignment after enrichment, ready for article
// generation. QuickHits carry only the lightweight projection.
type Picks struct {
	Lead      *types.EnrichedRepo
	Secondary []types.EnrichedRepo
	QuickHits []types.EnrichedRepo
}

// Orchestrator fetches and ranks candidates for sections of one run.
type Orchestrator struct {
	Source   Source
	Trending TrendingSource
	Cfg      types.SourceConfig

	// Warn receives per-query failure notices; a failed query degrades to
	// zero results instead of aborting the section.
	Warn io.Writer
}

func (o *Orchestrator) warnf(format string, args ...any) {
	if o.Warn != nil {
		fmt.Fprintf(o.Warn, format, args...)
	}
}

// FetchSection runs a topical section's queries and returns its enriched
// slot assignment. An exhausted pool (all candidates claimed, or nothing
// returned) yields empty Picks, not an error.
func (o *Orchestrator) FetchSection(ctx context.Context, spec types.SectionSpec, claimed *Claimed, penalty map[string]bool, now time.Time) Picks {
	queries := o.sectionQueries(spec, now)
	pool := o.runQueries(ctx, queries)
	return o.rank(ctx, pool, spec.Budget, claimed, penalty, now)
}

// FetchFrontPage builds the front page pool from two broad searches plus the
// trending aggregator when one is configured. It runs before any topical
// section and seeds the claim registry through the shared rank step.
func (o *Orchestrator) FetchFrontPage(ctx context.Context, budget types.Budget, claimed *Claimed, penalty map[string]bool, now time.Time) Picks {
	pushed := now.Add(-o.pushedWithin()).Format("2006-01-02")
	queries := []string{
		fmt.Sprintf("stars:>=500 pushed:>%s", pushed),
		fmt.Sprintf("stars:>=100 created:>%s", now.AddDate(0, 0, -30).Format("2006-01-02")),
	}

	pool := o.runQueries(ctx, queries)

	if o.Trending != nil {
		trending, err := o.Trending.Trending(ctx)
		if err != nil {
			o.warnf("warning: trending aggregator failed: %v\n", err)
		} else {
			pool = append(pool, trending...)
		}
	}

	return o.rank(ctx, dedupe(pool), budget, claimed, penalty, now)
}

// sectionQueries builds one query per topic tag (max 3) and one per language
// filter, each bounded by the star floor and the pushed-within window.
func (o *Orchestrator) sectionQueries(spec types.SectionSpec, now time.Time) []string {
	pushed := now.Add(-o.pushedWithin()).Format("2006-01-02")
	floor := o.starFloor()

	topics := spec.Topics
	if len(topics) > maxTopics {
		topics = topics[:maxTopics]
	}

	var queries []string
	for _, topic := range topics {
		queries = append(queries, fmt.Sprintf("topic:%s pushed:>%s stars:>=%d", topic, pushed, floor))
	}
	for _, lang := range spec.Languages {
		queries = append(queries, fmt.Sprintf("language:%s pushed:>%s stars:>=%d", lang, pushed, floor))
	}
	return queries
}

// runQueries fans the queries out with bounded concurrency and merges the
// results in query order, deduplicating by full name with the first
// occurrence winning. A failed query contributes zero results.
func (o *Orchestrator) runQueries(ctx context.Context, queries []string) []types.RepositoryCandidate {
	results := make([][]types.RepositoryCandidate, len(queries))
	sem := make(chan struct{}, searchConcurrency)
	var wg sync.WaitGroup

	for i, q := range queries {
		wg.Add(1)
		go func(i int, q string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			found, err := o.Source.Search(ctx, q)
			if err != nil {
				o.warnf("warning: query %q failed: %v\n", q, err)
				return
			}
			results[i] = found
		}(i, q)
	}
	wg.Wait()

	var merged []types.RepositoryCandidate
	for _, r := range results {
		merged = append(merged, r...)
	}
	return dedupe(merged)
}

// dedupe keeps the first occurrence of each full name, preserving order.
func dedupe(candidates []types.RepositoryCandidate) []types.RepositoryCandidate {
	seen := make(map[string]bool, len(candidates))
	var out []types.RepositoryCandidate
	for _, c := range candidates {
		if seen[c.FullName] {
			continue
		}
		seen[c.FullName] = true
		out = append(out, c)
	}
	return out
}

// rank is the shared tail of both fetch paths: drop claimed names, score,
// allocate, claim the new headliners, and enrich the promoted set.
func (o *Orchestrator) rank(ctx context.Context, pool []types.RepositoryCandidate, budget types.Budget, claimed *Claimed, penalty map[string]bool, now time.Time) Picks {
	var open []types.RepositoryCandidate
	for _, c := range pool {
		if !claimed.Has(c.FullName) {
			open = append(open, c)
		}
	}
	if len(open) == 0 {
		return Picks{}
	}

	ranked := score.Rank(open, score.Context{Now: now, HistoryPenaltySet: penalty})
	res := allocate.Allocate(ranked, budget)
	if res.Lead == nil {
		return Picks{}
	}

	// Lead and secondary names are claimed for the rest of the run; quick
	// hits are low-commitment mentions and may repeat across sections.
	claimed.Add(res.Lead.FullName)
	for _, c := range res.Secondary {
		claimed.Add(c.FullName)
	}

	promoted := append([]types.ScoredCandidate{*res.Lead}, res.Secondary...)
	enriched := o.enrich(ctx, promoted)

	picks := Picks{
		Lead:      &enriched[0],
		Secondary: enriched[1:],
	}
	for _, q := range res.QuickHits {
		picks.QuickHits = append(picks.QuickHits, types.Project(q.RepositoryCandidate))
	}
	return picks
}

// enrich fetches readme and release detail for the promoted candidates with
// bounded concurrency. Fetch failures degrade to missing data.
func (o *Orchestrator) enrich(ctx context.Context, promoted []types.ScoredCandidate) []types.EnrichedRepo {
	enriched := make([]types.EnrichedRepo, len(promoted))
	sem := make(chan struct{}, enrichConcurrency)
	var wg sync.WaitGroup

	for i, c := range promoted {
		wg.Add(1)
		go func(i int, c types.ScoredCandidate) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			repo := types.Project(c.RepositoryCandidate)

			readme, err := o.Source.Readme(ctx, c.FullName)
			if err != nil {
				o.warnf("warning: readme fetch failed for %s: %v\n", c.FullName, err)
			} else {
				repo.ReadmeExcerpt = truncate(readme, readmeExcerptLen)
			}

			rel, err := o.Source.LatestRelease(ctx, c.FullName)
			if err != nil {
				o.warnf("warning: release fetch failed for %s: %v\n", c.FullName, err)
			} else if rel != nil {
				repo.ReleaseNotes = truncate(rel.Notes, releaseNotesLen)
				repo.ReleaseName = rel.Name
				if repo.ReleaseName == "" {
					repo.ReleaseName = rel.Tag
				}
			}

			enriched[i] = repo
		}(i, c)
	}
	wg.Wait()
	return enriched
}

func (o *Orchestrator) pushedWithin() time.Duration {
	if o.Cfg.PushedWithin > 0 {
		return o.Cfg.PushedWithin
	}
	return 72 * time.Hour
}

func (o *Orchestrator) starFloor() int {
	if o.Cfg.StarFloor > 0 {
		return o.Cfg.StarFloor
	}
	return 50
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
