// Copyright Jordan Morrow, 2026. All rights reserved.

package publish

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmorrow/gitpress/pkg/types"
)

type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Xmlns   string      `xml:"xmlns,attr"`
	Title   string      `xml:"title"`
	ID      string      `xml:"id"`
	Updated string      `xml:"updated"`
	Link    []atomLink  `xml:"link"`
	Entries []atomEntry `xml:"entry"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr,omitempty"`
}

type atomEntry struct {
	Title   string   `xml:"title"`
	ID      string   `xml:"id"`
	Updated string   `xml:"updated"`
	Link    atomLink `xml:"link"`
	Summary string   `xml:"summary"`
}

// writeFeed renders feed.xml with one entry per headline article in this
// edition, lead and secondary alike, in section order.
func (p *Publisher) writeFeed(ed types.Edition) error {
	updated := ed.Date.UTC().Format(time.RFC3339)
	day := ed.Date.Format(editionDateFormat)

	feed := atomFeed{
		Xmlns:   "http://www.w3.org/2005/Atom",
		Title:   "gitpress",
		ID:      p.BaseURL + "/",
		Updated: updated,
		Link: []atomLink{
			{Href: p.BaseURL + "/feed.xml", Rel: "self"},
			{Href: p.BaseURL + "/"},
		},
	}

	addEntry := func(a types.Article) {
		summary := a.Subheadline
		if summary == "" {
			summary = a.Repo.Description
		}
		feed.Entries = append(feed.Entries, atomEntry{
			Title:   a.Headline,
			ID:      fmt.Sprintf("%s/editions/%s#%s", p.BaseURL, day, a.Repo.FullName),
			Updated: updated,
			Link:    atomLink{Href: a.Repo.URL},
			Summary: summary,
		})
	}

	for _, id := range ed.SectionOrder {
		content := ed.Sections[id]
		if content.Lead != nil {
			addEntry(*content.Lead)
		}
		for _, a := range content.Secondary {
			addEntry(a)
		}
	}

	data, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling feed: %w", err)
	}
	data = append([]byte(xml.Header), data...)

	path := filepath.Join(p.OutputDir, "feed.xml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
