// Copyright Jordan Morrow, 2026. All rights reserved.

// Package score turns a repository candidate's raw signals into a comparable
// rank score. Scoring is a pure function of the candidate and the run context;
// given the same inputs it always produces the same score.
package score

import (
	"math"
	"sort"
	"time"

	"github.com/jmorrow/gitpress/pkg/types"
)

// Term weights. Velocity and recency dominate because the pipeline hunts for
// repos that are moving right now; release and engagement refine the order.
const (
	velocityWeight   = 0.35
	recencyWeight    = 0.25
	releaseWeight    = 0.15
	engagementWeight = 0.10

	// historyPenalty is subtracted flat when the repo headlined a recent
	// edition. No floor is applied afterwards; negative scores simply rank low.
	historyPenalty = 0.5
)

// Context carries the run-level inputs to scoring.
type Context struct {
	// Now anchors all age computations so a whole run scores against one instant.
	Now time.Time

	// HistoryPenaltySet holds full names that appeared in recent editions.
	// Scoring only reads it.
	HistoryPenaltySet map[string]bool
}

// Score computes the rank score for one candidate.
//
// The score is a weighted sum of four independently normalized terms:
// velocity (log-dampened stars per day of age), recency (linear decay over 7
// days since last push), release freshness (linear decay over 30 days, flat
// 0.5 credit when a release exists without a timestamp), and engagement
// (forks plus 0.3 per issue, relative to stars). Candidates with synthetic
// timestamps contribute nothing through velocity and recency.
func Score(c types.RepositoryCandidate, sc Context) float64 {
	velocity := velocityTerm(c, sc.Now)
	recency := recencyTerm(c, sc.Now)
	if c.SyntheticTimestamps {
		velocity, recency = 0, 0
	}

	s := velocityWeight*velocity +
		recencyWeight*recency +
		releaseWeight*releaseTerm(c, sc.Now) +
		engagementWeight*engagementTerm(c)

	if sc.HistoryPenaltySet[c.FullName] {
		s -= historyPenalty
	}
	return s
}

// velocityTerm is log1p(stars/ageDays)/5 clamped to [0,1]. The log keeps a
// 100k-star repo within ~1.0 of a 10-star repo instead of orders of magnitude.
func velocityTerm(c types.RepositoryCandidate, now time.Time) float64 {
	ageDays := now.Sub(c.CreatedAt).Hours() / 24
	if ageDays < 1 {
		ageDays = 1
	}
	return clamp01(math.Log1p(float64(c.Stars)/ageDays) / 5)
}

// recencyTerm decays linearly from 1.0 at "just pushed" to 0.0 at 7+ days.
func recencyTerm(c types.RepositoryCandidate, now time.Time) float64 {
	days := now.Sub(c.PushedAt).Hours() / 24
	return clamp01(1 - days/7)
}

// releaseTerm decays linearly from 1.0 at "released today" to 0.0 at 30+
// days. A release without a timestamp earns a flat 0.5: the decay cannot be
// computed but the release itself is still a positive signal.
func releaseTerm(c types.RepositoryCandidate, now time.Time) float64 {
	if c.Release == nil {
		return 0
	}
	if c.Release.PublishedAt.IsZero() {
		return 0.5
	}
	days := now.Sub(c.Release.PublishedAt).Hours() / 24
	return clamp01(1 - days/30)
}

// engagementTerm is min((forks + issues*0.3)/stars, 1). Forks weigh more than
// issues per unit because a fork indicates deeper adoption than issue volume.
func engagementTerm(c types.RepositoryCandidate) float64 {
	if c.Stars <= 0 {
		return 0
	}
	ratio := (float64(c.Forks) + float64(c.OpenIssues)*0.3) / float64(c.Stars)
	return math.Min(ratio, 1)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Rank scores every candidate and returns them sorted descending by score.
// The sort is stable: equal-score candidates keep their fetch order.
func Rank(candidates []types.RepositoryCandidate, sc Context) []types.ScoredCandidate {
	scored := make([]types.ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		scored = append(scored, types.ScoredCandidate{
			RepositoryCandidate: c,
			Score:               Score(c, sc),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}
