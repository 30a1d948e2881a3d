// Copyright Jordan Morrow, 2026. All rights reserved.

package article

import (
	"strings"

	"github.com/jmorrow/gitpress/pkg/types"
)

// Field markers the backend is instructed to emit. A verbose backend may echo
// the formatting instructions before producing real output, so every field is
// read from the LAST genuine occurrence of its marker.
const (
	markerHeadline     = "HEADLINE:"
	markerSubheadline  = "SUBHEADLINE:"
	markerBody         = "BODY:"
	markerBuildersTake = "BUILDERS_TAKE:"
)

// parseArticle scans semi-structured backend text for the field markers.
// It returns ok=false when the headline or body cannot be located; the
// caller decides whether to retry or fall back.
func parseArticle(raw string) (types.Article, bool) {
	var art types.Article

	art.Headline = lineAfter(raw, markerHeadline)
	art.Subheadline = lineAfter(raw, markerSubheadline)

	bodyStart := lastMarker(raw, markerBody)
	if bodyStart >= 0 {
		body := raw[bodyStart+len(markerBody):]
		// The body spans to the last builders-take marker when that marker
		// follows it; otherwise it runs to the end of the text.
		if take := lastMarker(raw, markerBuildersTake); take > bodyStart {
			body = raw[bodyStart+len(markerBody) : take]
			art.BuildersTake = strings.TrimSpace(raw[take+len(markerBuildersTake):])
		}
		art.Body = strings.TrimSpace(body)
	}

	if art.Headline == "" || art.Body == "" {
		return types.Article{}, false
	}
	return art, true
}

// lineAfter returns the trimmed remainder of the line holding the last
// genuine occurrence of marker, or "".
func lineAfter(raw, marker string) string {
	pos := lastMarker(raw, marker)
	if pos < 0 {
		return ""
	}
	rest := raw[pos+len(marker):]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[:nl]
	}
	return strings.TrimSpace(rest)
}

// lastMarker returns the byte offset of the last genuine occurrence of
// marker in raw, or -1. An occurrence is genuine only when it is not embedded
// in a longer word: "HEADLINE:" inside "SUBHEADLINE:" does not count.
func lastMarker(raw, marker string) int {
	last := -1
	for i := 0; ; {
		j := strings.Index(raw[i:], marker)
		if j < 0 {
			break
		}
		pos := i + j
		if pos == 0 || !isWordByte(raw[pos-1]) {
			last = pos
		}
		i = pos + len(marker)
	}
	return last
}

func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}

// fallbackHeadlineLen caps the synthesized fallback headline.
const fallbackHeadlineLen = 80

// fallback synthesizes a deterministic article from the repo's own
// description after generation has terminally failed.
func fallback(repo types.EnrichedRepo) types.Article {
	headline := repo.ShortName + ": " + repo.Description
	if len(headline) > fallbackHeadlineLen {
		headline = headline[:fallbackHeadlineLen]
	}
	return types.Article{
		Headline:   headline,
		Body:       repo.Description,
		IsFallback: true,
		Repo:       repo,
	}
}
