// Copyright Jordan Morrow, 2026. All rights reserved.

package section

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmorrow/gitpress/pkg/types"
)

var now = time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)

// mockSource serves canned candidates keyed by a substring of the query and
// counts readme/release fetches per repo.
type mockSource struct {
	mu          sync.Mutex
	byQuery     map[string][]types.RepositoryCandidate
	failQueries map[string]bool
	readmes     map[string]int
	releases    map[string]int
	trending    []types.RepositoryCandidate
	trendingErr error
}

func newMockSource() *mockSource {
	return &mockSource{
		byQuery:     make(map[string][]types.RepositoryCandidate),
		failQueries: make(map[string]bool),
		readmes:     make(map[string]int),
		releases:    make(map[string]int),
	}
}

func (m *mockSource) Search(_ context.Context, query string) ([]types.RepositoryCandidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.failQueries {
		if strings.Contains(query, key) {
			return nil, fmt.Errorf("query failed")
		}
	}
	for key, found := range m.byQuery {
		if strings.Contains(query, key) {
			return found, nil
		}
	}
	return nil, nil
}

func (m *mockSource) Readme(_ context.Context, fullName string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readmes[fullName]++
	return "# readme for " + fullName, nil
}

func (m *mockSource) LatestRelease(_ context.Context, fullName string) (*types.Release, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.releases[fullName]++
	return &types.Release{Tag: "v1.0.0", Name: "one point oh", Notes: "notes", PublishedAt: now.AddDate(0, 0, -2)}, nil
}

func (m *mockSource) Trending(_ context.Context) ([]types.RepositoryCandidate, error) {
	return m.trending, m.trendingErr
}

func cand(name, lang string, stars int) types.RepositoryCandidate {
	return types.RepositoryCandidate{
		FullName:    name,
		Description: "about " + name,
		Language:    lang,
		Stars:       stars,
		Forks:       stars / 10,
		CreatedAt:   now.AddDate(0, -3, 0),
		PushedAt:    now.Add(-12 * time.Hour),
	}
}

func orch(src *mockSource) *Orchestrator {
	return &Orchestrator{Source: src, Trending: src, Warn: io.Discard}
}

func spec(topics ...string) types.SectionSpec {
	return types.SectionSpec{
		ID:     "test",
		Topics: topics,
		Budget: types.Budget{Secondary: 2, QuickHits: 4},
	}
}

func TestFetchSectionDedupFirstOccurrenceWins(t *testing.T) {
	src := newMockSource()
	shared := cand("a/shared", "Go", 900)
	src.byQuery["topic:one"] = []types.RepositoryCandidate{cand("a/top", "Go", 1000), shared}
	src.byQuery["topic:two"] = []types.RepositoryCandidate{shared, cand("b/other", "Rust", 800)}

	picks := orch(src).FetchSection(context.Background(), spec("one", "two"), NewClaimed(), nil, now)

	require.NotNil(t, picks.Lead)
	total := 1 + len(picks.Secondary) + len(picks.QuickHits)
	assert.Equal(t, 3, total, "shared candidate must appear once")
}

func TestFetchSectionFailedQueryTolerated(t *testing.T) {
	src := newMockSource()
	src.byQuery["topic:good"] = []types.RepositoryCandidate{cand("a/x", "Go", 500)}
	src.failQueries["topic:bad"] = true

	picks := orch(src).FetchSection(context.Background(), spec("good", "bad"), NewClaimed(), nil, now)

	require.NotNil(t, picks.Lead)
	assert.Equal(t, "a/x", picks.Lead.FullName)
}

func TestFetchSectionClaimedPoolExhausted(t *testing.T) {
	src := newMockSource()
	src.byQuery["topic:one"] = []types.RepositoryCandidate{cand("a/x", "Go", 500)}

	claimed := NewClaimed()
	claimed.Add("a/x")

	picks := orch(src).FetchSection(context.Background(), spec("one"), claimed, nil, now)
	assert.Nil(t, picks.Lead)
	assert.Empty(t, picks.Secondary)
	assert.Empty(t, picks.QuickHits)
}

func TestFetchSectionClaimsHeadlinersOnly(t *testing.T) {
	src := newMockSource()
	src.byQuery["topic:one"] = []types.RepositoryCandidate{
		cand("a/1", "Go", 1000),
		cand("a/2", "Rust", 900),
		cand("a/3", "Python", 800),
		cand("a/4", "Go", 700),
		cand("a/5", "Rust", 600),
	}

	claimed := NewClaimed()
	picks := orch(src).FetchSection(context.Background(), spec("one"), claimed, nil, now)

	require.NotNil(t, picks.Lead)
	assert.True(t, claimed.Has(picks.Lead.FullName))
	for _, s := range picks.Secondary {
		assert.True(t, claimed.Has(s.FullName))
	}
	for _, q := range picks.QuickHits {
		assert.False(t, claimed.Has(q.FullName), "quick hits are not claimed")
	}
	assert.Equal(t, 3, claimed.Len())
}

func TestCrossSectionDedup(t *testing.T) {
	src := newMockSource()
	overlap := []types.RepositoryCandidate{
		cand("a/1", "Go", 1000),
		cand("a/2", "Rust", 900),
		cand("a/3", "Python", 800),
		cand("a/4", "Go", 700),
	}
	src.byQuery["topic:one"] = overlap
	src.byQuery["topic:two"] = overlap

	o := orch(src)
	claimed := NewClaimed()

	first := o.FetchSection(context.Background(), spec("one"), claimed, nil, now)
	second := o.FetchSection(context.Background(), spec("two"), claimed, nil, now)

	headliners := func(p Picks) map[string]bool {
		names := make(map[string]bool)
		if p.Lead != nil {
			names[p.Lead.FullName] = true
		}
		for _, s := range p.Secondary {
			names[s.FullName] = true
		}
		return names
	}

	a, b := headliners(first), headliners(second)
	for name := range a {
		assert.False(t, b[name], "%s headlines both sections", name)
	}
}

func TestEnrichmentOnlyForPromoted(t *testing.T) {
	src := newMockSource()
	src.byQuery["topic:one"] = []types.RepositoryCandidate{
		cand("a/1", "Go", 1000),
		cand("a/2", "Rust", 900),
		cand("a/3", "Python", 800),
		cand("a/4", "Go", 700),
		cand("a/5", "Rust", 600),
		cand("a/6", "Python", 500),
	}

	picks := orch(src).FetchSection(context.Background(), spec("one"), NewClaimed(), nil, now)

	require.NotNil(t, picks.Lead)
	assert.Contains(t, picks.Lead.ReadmeExcerpt, picks.Lead.FullName)
	assert.Equal(t, "one point oh", picks.Lead.ReleaseName)
	for _, s := range picks.Secondary {
		assert.NotEmpty(t, s.ReadmeExcerpt)
	}
	for _, q := range picks.QuickHits {
		assert.Empty(t, q.ReadmeExcerpt, "quick hits receive no readme fetch")
		assert.Zero(t, src.readmes[q.FullName])
	}
	assert.Len(t, src.readmes, 1+len(picks.Secondary))
}

func TestFrontPageMergesTrending(t *testing.T) {
	src := newMockSource()
	src.byQuery["stars:>=500"] = []types.RepositoryCandidate{cand("a/broad", "Go", 2000)}
	trend := cand("hot/new", "Rust", 1500)
	trend.SyntheticTimestamps = true
	src.trending = []types.RepositoryCandidate{trend}

	claimed := NewClaimed()
	picks := orch(src).FetchFrontPage(context.Background(), types.Budget{Secondary: 1, QuickHits: 4}, claimed, nil, now)

	require.NotNil(t, picks.Lead)
	all := []string{picks.Lead.FullName}
	for _, s := range picks.Secondary {
		all = append(all, s.FullName)
	}
	for _, q := range picks.QuickHits {
		all = append(all, q.FullName)
	}
	assert.Contains(t, all, "hot/new")
	assert.Contains(t, all, "a/broad")

	// Trusted-timestamp candidates outrank synthetic ones with similar stars.
	assert.Equal(t, "a/broad", picks.Lead.FullName)
}

func TestFrontPageTrendingFailureTolerated(t *testing.T) {
	src := newMockSource()
	src.byQuery["stars:>=500"] = []types.RepositoryCandidate{cand("a/broad", "Go", 2000)}
	src.trendingErr = fmt.Errorf("aggregator down")

	picks := orch(src).FetchFrontPage(context.Background(), types.Budget{Secondary: 1, QuickHits: 4}, NewClaimed(), nil, now)
	require.NotNil(t, picks.Lead)
	assert.Equal(t, "a/broad", picks.Lead.FullName)
}

func TestHistoryPenaltyDemotesRepeatHeadliner(t *testing.T) {
	src := newMockSource()
	src.byQuery["topic:one"] = []types.RepositoryCandidate{
		cand("a/yesterday", "Go", 1000),
		cand("a/fresh", "Rust", 950),
	}

	penalty := map[string]bool{"a/yesterday": true}
	picks := orch(src).FetchSection(context.Background(), spec("one"), NewClaimed(), penalty, now)

	require.NotNil(t, picks.Lead)
	assert.Equal(t, "a/fresh", picks.Lead.FullName)
}
