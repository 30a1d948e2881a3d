// Copyright Jordan Morrow, 2026. All rights reserved.

// Package allocate partitions a score-sorted candidate list into lead,
// secondary, and quick-hit slots while bounding how many promoted slots any
// single language may take.
package allocate

import (
	"github.com/jmorrow/gitpress/pkg/types"
)

// topPoolSize is how many top-scored candidates are inspected to measure
// language diversity. The cap is calibrated against this pool, not the full
// candidate list.
const topPoolSize = 15

// minPerLanguage is the floor of the adaptive per-language cap.
const minPerLanguage = 2

// Result is the slot assignment for one section, pre-generation.
type Result struct {
	Lead      *types.ScoredCandidate
	Secondary []types.ScoredCandidate
	QuickHits []types.ScoredCandidate
}

// Allocate walks the descending-scored candidates and fills 1+budget.Secondary
// promoted slots, capping each language at max(2, ceil(slots/distinctLangs))
// where distinctLangs counts languages in the top-15 pool. When the cap leaves
// promoted slots unfilled, they are backfilled from the overflow in score
// order, ignoring the cap. Overflow beyond budget.QuickHits is dropped.
func Allocate(sorted []types.ScoredCandidate, budget types.Budget) Result {
	if len(sorted) == 0 {
		return Result{}
	}

	total := 1 + budget.Secondary
	cap := maxPerLanguage(sorted, total)

	var promoted, overflow []types.ScoredCandidate
	perLang := make(map[string]int)
	for _, c := range sorted {
		lang := language(c)
		if len(promoted) < total && perLang[lang] < cap {
			promoted = append(promoted, c)
			perLang[lang]++
			continue
		}
		overflow = append(overflow, c)
	}

	// Backfill: with a small pool too many languages can cap out before the
	// promoted slots fill. Take the best of the overflow regardless of
	// language rather than leaving slots empty.
	if len(promoted) < total {
		need := total - len(promoted)
		if need > len(overflow) {
			need = len(overflow)
		}
		promoted = append(promoted, overflow[:need]...)
		overflow = overflow[need:]
	}

	res := Result{
		Lead:      &promoted[0],
		Secondary: promoted[1:],
	}
	if len(overflow) > budget.QuickHits {
		overflow = overflow[:budget.QuickHits]
	}
	res.QuickHits = overflow
	return res
}

// maxPerLanguage computes the adaptive cap from the top-of-pool language
// spread. A diverse pool keeps the floor of 2; a pool dominated by one or two
// languages relaxes the cap so slots don't go unfilled.
func maxPerLanguage(sorted []types.ScoredCandidate, totalSlots int) int {
	pool := sorted
	if len(pool) > topPoolSize {
		pool = pool[:topPoolSize]
	}

	langs := make(map[string]bool)
	for _, c := range pool {
		langs[language(c)] = true
	}

	cap := ceilDiv(totalSlots, len(langs))
	if cap < minPerLanguage {
		cap = minPerLanguage
	}
	return cap
}

// language normalizes a missing primary language to "Unknown", which counts
// as one language for capping purposes.
func language(c types.ScoredCandidate) string {
	if c.Language == "" {
		return "Unknown"
	}
	return c.Language
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
