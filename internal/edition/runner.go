// Copyright Jordan Morrow, 2026. All rights reserved.

// Package edition assembles one day's complete edition: the front page first,
// then each configured section in declared order, sharing a single claim
// registry so no repository headlines twice in a run.
package edition

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jmorrow/gitpress/internal/section"
	"github.com/jmorrow/gitpress/pkg/types"
)

// FrontPageID keys the distinguished front-page section in
// Edition.Sections; it always renders first.
const FrontPageID = "front-page"

// taglines rotate by day of year so reruns on the same date produce the
// same masthead.
var taglines = []string{
	"All the commits fit to print",
	"Yesterday's pushes, this morning's news",
	"Fresh from the default branch",
	"Stars rise in the east",
	"Hot takes, warm caches",
}

// Fetcher supplies enriched candidate picks for the front page and for
// topical sections.
type Fetcher interface {
	FetchFrontPage(ctx context.Context, budget types.Budget, claimed *section.Claimed, penalty map[string]bool, now time.Time) section.Picks
	FetchSection(ctx context.Context, spec types.SectionSpec, claimed *section.Claimed, penalty map[string]bool, now time.Time) section.Picks
}

// Composer turns a section's picks into finished articles and quick hits.
type Composer interface {
	Section(ctx context.Context, lead *types.EnrichedRepo, secondary, quickHits []types.EnrichedRepo) types.SectionContent
}

// Runner drives one edition end to end.
type Runner struct {
	Fetch   Fetcher
	Compose Composer
	Cfg     types.EditionConfig

	// Warn receives progress and degradation notices.
	Warn io.Writer
}

func (r *Runner) warnf(format string, args ...any) {
	if r.Warn != nil {
		fmt.Fprintf(r.Warn, format, args...)
	}
}

// Run builds the edition for the given day. The front page must produce a
// lead; an edition with nothing to lead with is not worth publishing and
// Run returns an error. Topical sections degrade to empty content instead.
func (r *Runner) Run(ctx context.Context, now time.Time, penalty map[string]bool) (types.Edition, error) {
	claimed := section.NewClaimed()

	ed := types.Edition{
		Date:     now,
		Tagline:  Tagline(now),
		Sections: make(map[string]types.SectionContent),
	}

	r.warnf("fetching front page\n")
	front := r.Fetch.FetchFrontPage(ctx, r.Cfg.FrontPageBudget, claimed, penalty, now)
	if front.Lead == nil {
		return types.Edition{}, fmt.Errorf("front page produced no lead; nothing to publish")
	}
	ed.SectionOrder = append(ed.SectionOrder, FrontPageID)
	ed.Sections[FrontPageID] = r.Compose.Section(ctx, front.Lead, front.Secondary, front.QuickHits)

	for _, spec := range r.Cfg.Sections {
		r.warnf("fetching section %s\n", spec.ID)
		picks := r.Fetch.FetchSection(ctx, spec, claimed, penalty, now)

		content := r.Compose.Section(ctx, picks.Lead, picks.Secondary, picks.QuickHits)
		if content.IsEmpty {
			r.warnf("section %s is empty today\n", spec.ID)
		}
		ed.SectionOrder = append(ed.SectionOrder, spec.ID)
		ed.Sections[spec.ID] = content
	}

	return ed, nil
}

// HeadlinerNames collects every lead and secondary repo name across the
// edition, the set recorded to history for the repeat-headline penalty.
func HeadlinerNames(ed types.Edition) []string {
	var names []string
	for _, id := range ed.SectionOrder {
		names = append(names, ed.Sections[id].HeadlineNames()...)
	}
	return names
}

// Tagline picks the masthead tagline for a date, rotating by day of year.
func Tagline(now time.Time) string {
	return taglines[now.YearDay()%len(taglines)]
}
