// Copyright Jordan Morrow, 2026. All rights reserved.

// Package publish renders a finished edition to disk: a YAML archive copy,
// static HTML pages, and an Atom feed.
package publish

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/jmorrow/gitpress/pkg/types"
)

const (
	editionsDir = "editions"
	sectionsDir = "sections"

	editionDateFormat = "2006-01-02"
)

// Publisher writes editions under OutputDir. Titles maps section ids to
// display titles; ids without an entry render as-is.
type Publisher struct {
	OutputDir string
	BaseURL   string
	Titles    map[string]string
}

// Publish writes the edition's YAML archive copy, the HTML pages, and the
// Atom feed. archiveDates lists previously published edition dates (newest
// first) for the archive page; the current edition's date is added if absent.
func (p *Publisher) Publish(ed types.Edition, archiveDates []string) error {
	for _, dir := range []string{p.OutputDir, filepath.Join(p.OutputDir, editionsDir), filepath.Join(p.OutputDir, sectionsDir)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	if err := p.writeYAML(ed); err != nil {
		return err
	}
	if err := p.writeHTML(ed); err != nil {
		return err
	}
	if err := p.writeArchive(ed, archiveDates); err != nil {
		return err
	}
	return p.writeFeed(ed)
}

func (p *Publisher) writeYAML(ed types.Edition) error {
	data, err := yaml.Marshal(ed)
	if err != nil {
		return fmt.Errorf("marshaling edition: %w", err)
	}
	path := filepath.Join(p.OutputDir, editionsDir, ed.Date.Format(editionDateFormat)+".yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// title resolves a section id to its display title.
func (p *Publisher) title(id string) string {
	if t, ok := p.Titles[id]; ok {
		return t
	}
	return id
}
