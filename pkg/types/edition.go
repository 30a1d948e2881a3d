// Copyright Jordan Morrow, 2026. All rights reserved.

package types

import "time"

// Article is a generated newspaper-style piece about one repository.
// IsFallback marks articles whose fields were synthesized from the repo's own
// description after generation failed; it is never shown to readers but
// quality tooling may inspect it in the archived edition.
type Article struct {
	Headline     string `json:"headline" yaml:"headline"`
	Subheadline  string `json:"subheadline,omitempty" yaml:"subheadline,omitempty"`
	Body         string `json:"body" yaml:"body"`
	BuildersTake string `json:"builders_take,omitempty" yaml:"builders_take,omitempty"`

	IsFallback bool `json:"is_fallback,omitempty" yaml:"is_fallback,omitempty"`

	Repo EnrichedRepo `json:"repo" yaml:"repo"`
}

// QuickHit is a one-line digest of a repository, cheaper than a full Article.
type QuickHit struct {
	Repo    EnrichedRepo `json:"repo" yaml:"repo"`
	Summary string       `json:"summary" yaml:"summary"`
}

// SectionContent is one section of a finished edition.
// Invariant: IsEmpty holds exactly when Lead is nil, and Secondary never
// contains fallback articles (they are demoted before the section is final).
type SectionContent struct {
	Lead      *Article   `json:"lead,omitempty" yaml:"lead,omitempty"`
	Secondary []Article  `json:"secondary,omitempty" yaml:"secondary,omitempty"`
	QuickHits []QuickHit `json:"quick_hits,omitempty" yaml:"quick_hits,omitempty"`
	IsEmpty   bool       `json:"is_empty" yaml:"is_empty"`
}

// HeadlineNames returns the full names of the lead and secondary repos, the
// set a section claims so later sections cannot reuse them.
func (s SectionContent) HeadlineNames() []string {
	var names []string
	if s.Lead != nil {
		names = append(names, s.Lead.Repo.FullName)
	}
	for _, a := range s.Secondary {
		names = append(names, a.Repo.FullName)
	}
	return names
}

// Edition is one complete generated output for a given day.
type Edition struct {
	Date    time.Time `json:"date" yaml:"date"`
	Tagline string    `json:"tagline" yaml:"tagline"`

	// SectionOrder preserves the declared section order for rendering;
	// Sections is keyed by section id.
	SectionOrder []string                  `json:"section_order" yaml:"section_order"`
	Sections     map[string]SectionContent `json:"sections" yaml:"sections"`
}
