// Copyright Jordan Morrow, 2026. All rights reserved.

// Package article turns enriched repositories into section content by way of
// the generative text backend. Generation never fails outward: backend
// failures and unparseable output degrade to a deterministic fallback, and
// the section-level routing (promotion, demotion) runs only after every
// per-repo generation has completed.
package article

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/jmorrow/gitpress/pkg/types"
)

// Backend abstracts the generative text collaborator so tests can supply a
// stub. A returned error means the backend exhausted its own retry budget.
type Backend interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// quickHitMaxTokens bounds the single batched quick-hit completion.
const quickHitMaxTokens = 500

// Generator drives article generation for one run.
type Generator struct {
	Backend   Backend
	MaxTokens int

	// Warn receives progress and degradation notices.
	Warn io.Writer
}

func (g *Generator) maxTokens() int {
	if g.MaxTokens > 0 {
		return g.MaxTokens
	}
	return 1200
}

func (g *Generator) warnf(format string, args ...any) {
	if g.Warn != nil {
		fmt.Fprintf(g.Warn, format, args...)
	}
}

// Article generates one full article for a repository. On a parse failure it
// retries exactly once with the identical prompt; transport errors are not
// retried here because the backend already retried them internally. A
// terminal failure yields the deterministic fallback, never an error.
func (g *Generator) Article(ctx context.Context, repo types.EnrichedRepo) types.Article {
	prompt, err := articlePrompt(repo)
	if err != nil {
		g.warnf("warning: %s: %v\n", repo.FullName, err)
		return fallback(repo)
	}

	for attempt := 0; attempt < 2; attempt++ {
		raw, err := g.Backend.Complete(ctx, prompt, g.maxTokens())
		if err != nil {
			g.warnf("warning: generation failed for %s: %v\n", repo.FullName, err)
			return fallback(repo)
		}
		if art, ok := parseArticle(raw); ok {
			art.Repo = repo
			return art
		}
		g.warnf("warning: unparseable output for %s (attempt %d)\n", repo.FullName, attempt+1)
	}
	return fallback(repo)
}

// Section generates the full content for one section: the lead and every
// secondary concurrently, then quick hits in one batched call, then the
// promotion and demotion routing. A section with no lead candidate
// short-circuits without touching the backend.
func (g *Generator) Section(ctx context.Context, lead *types.EnrichedRepo, secondary, quickHits []types.EnrichedRepo) types.SectionContent {
	if lead == nil {
		return types.SectionContent{
			QuickHits: describeAll(quickHits),
			IsEmpty:   true,
		}
	}

	// Scatter/gather: all promoted articles are generated concurrently and
	// every result is in hand before any routing decision.
	promoted := append([]types.EnrichedRepo{*lead}, secondary...)
	articles := make([]types.Article, len(promoted))
	var wg sync.WaitGroup
	for i, repo := range promoted {
		wg.Add(1)
		go func(i int, repo types.EnrichedRepo) {
			defer wg.Done()
			articles[i] = g.Article(ctx, repo)
		}(i, repo)
	}
	wg.Wait()

	leadArt := articles[0]
	var keep []types.Article
	var demoted []types.QuickHit

	// Fallback secondaries are never shown as full articles.
	for _, a := range articles[1:] {
		if a.IsFallback {
			demoted = append(demoted, types.QuickHit{Repo: a.Repo, Summary: a.Repo.Description})
			continue
		}
		keep = append(keep, a)
	}

	// A fallback lead yields its slot to the first healthy secondary. With
	// no healthy secondary the degraded lead stays: a weak lead beats none.
	if leadArt.IsFallback && len(keep) > 0 {
		demoted = append(demoted, types.QuickHit{Repo: leadArt.Repo, Summary: leadArt.Repo.Description})
		leadArt = keep[0]
		keep = keep[1:]
	}

	hits := append(g.QuickHits(ctx, quickHits), demoted...)

	return types.SectionContent{
		Lead:      &leadArt,
		Secondary: keep,
		QuickHits: hits,
	}
}

// ordinalLine matches a numbered digest line like "3. Something concise.".
var ordinalLine = regexp.MustCompile(`^\s*(\d+)\.\s+(.+)$`)

// QuickHits annotates the quick-hit candidates with one-line summaries from
// a single batched completion. A candidate whose numbered line is missing,
// or the whole batch when the backend fails, falls back to the repo's own
// description.
func (g *Generator) QuickHits(ctx context.Context, repos []types.EnrichedRepo) []types.QuickHit {
	if len(repos) == 0 {
		return nil
	}

	prompt, err := quickHitsPrompt(repos)
	if err != nil {
		g.warnf("warning: %v\n", err)
		return describeAll(repos)
	}

	raw, err := g.Backend.Complete(ctx, prompt, quickHitMaxTokens)
	if err != nil {
		g.warnf("warning: quick-hit generation failed: %v\n", err)
		return describeAll(repos)
	}

	summaries := make(map[int]string)
	for _, line := range strings.Split(raw, "\n") {
		m := ordinalLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 || n > len(repos) {
			continue
		}
		summaries[n] = strings.TrimSpace(m[2])
	}

	hits := make([]types.QuickHit, 0, len(repos))
	for i, repo := range repos {
		summary := summaries[i+1]
		if summary == "" {
			summary = repo.Description
		}
		hits = append(hits, types.QuickHit{Repo: repo, Summary: summary})
	}
	return hits
}

func describeAll(repos []types.EnrichedRepo) []types.QuickHit {
	hits := make([]types.QuickHit, 0, len(repos))
	for _, repo := range repos {
		hits = append(hits, types.QuickHit{Repo: repo, Summary: repo.Description})
	}
	return hits
}
