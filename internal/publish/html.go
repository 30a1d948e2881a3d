// Copyright Jordan Morrow, 2026. All rights reserved.

package publish

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/jmorrow/gitpress/internal/edition"
	"github.com/jmorrow/gitpress/pkg/types"
)

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}} — gitpress</title>
<style>
body { max-width: 72rem; margin: 0 auto; padding: 1rem; font-family: Georgia, serif; }
header { border-bottom: 3px double #222; margin-bottom: 1.5rem; }
h1.masthead { font-size: 3rem; margin-bottom: 0; }
p.tagline { font-style: italic; color: #555; margin-top: 0.25rem; }
article.lead h2 { font-size: 2rem; }
article h2 a, article h3 a { color: inherit; text-decoration: none; }
p.subhead { font-size: 1.1rem; color: #444; }
p.take { border-left: 3px solid #999; padding-left: 0.75rem; color: #333; }
ul.quickhits li { margin-bottom: 0.4rem; }
p.empty { font-style: italic; color: #777; }
nav a { margin-right: 1rem; }
</style>
</head>
<body>
<header>
<h1 class="masthead">gitpress</h1>
<p class="tagline">{{.Tagline}} — {{.Date}}</p>
<nav>{{range .Nav}}<a href="{{.Href}}">{{.Label}}</a>{{end}}</nav>
</header>
{{range .Sections}}
<section>
<h2>{{.Title}}</h2>
{{if .Content.IsEmpty}}
<p class="empty">Nothing found today. The repositories are resting.</p>
{{else}}
<article class="lead">
<h2><a href="{{.Content.Lead.Repo.URL}}">{{.Content.Lead.Headline}}</a></h2>
{{with .Content.Lead.Subheadline}}<p class="subhead">{{.}}</p>{{end}}
{{range .Content.Lead.BodyParagraphs}}<p>{{.}}</p>{{end}}
{{with .Content.Lead.BuildersTake}}<p class="take">{{.}}</p>{{end}}
</article>
{{range .Content.Secondary}}
<article>
<h3><a href="{{.Repo.URL}}">{{.Headline}}</a></h3>
{{range .BodyParagraphs}}<p>{{.}}</p>{{end}}
</article>
{{end}}
{{if .Content.QuickHits}}
<h4>Quick hits</h4>
<ul class="quickhits">
{{range .Content.QuickHits}}<li><a href="{{.Repo.URL}}">{{.Repo.FullName}}</a> — {{.Summary}}</li>
{{end}}</ul>
{{end}}
{{end}}
</section>
{{end}}
</body>
</html>
`))

var archiveTmpl = template.Must(template.New("archive").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Archive — gitpress</title></head>
<body>
<h1>Past editions</h1>
<ul>
{{range .}}<li><a href="editions/{{.}}.yaml">{{.}}</a></li>
{{end}}</ul>
</body>
</html>
`))

type navLink struct {
	Href  string
	Label string
}

// renderedArticle wraps an Article with its body split into paragraphs for
// the template.
type renderedArticle struct {
	types.Article
	BodyParagraphs []string
}

type renderedSection struct {
	ID      string
	Title   string
	Content renderedContent
}

type renderedContent struct {
	IsEmpty   bool
	Lead      *renderedArticle
	Secondary []renderedArticle
	QuickHits []types.QuickHit
}

type pageData struct {
	Title    string
	Tagline  string
	Date     string
	Nav      []navLink
	Sections []renderedSection
}

func render(content types.SectionContent) renderedContent {
	out := renderedContent{IsEmpty: content.IsEmpty, QuickHits: content.QuickHits}
	if content.Lead != nil {
		lead := renderedArticle{Article: *content.Lead, BodyParagraphs: paragraphs(content.Lead.Body)}
		out.Lead = &lead
	}
	for _, a := range content.Secondary {
		out.Secondary = append(out.Secondary, renderedArticle{Article: a, BodyParagraphs: paragraphs(a.Body)})
	}
	return out
}

// writeHTML renders index.html with every section inline, plus one
// standalone page per section.
func (p *Publisher) writeHTML(ed types.Edition) error {
	nav := []navLink{{Href: "index.html", Label: "Front Page"}}
	for _, id := range ed.SectionOrder {
		if id == edition.FrontPageID {
			continue
		}
		nav = append(nav, navLink{Href: sectionsDir + "/" + id + ".html", Label: p.title(id)})
	}
	nav = append(nav, navLink{Href: "archive.html", Label: "Archive"})

	index := pageData{
		Title:   "Front Page",
		Tagline: ed.Tagline,
		Date:    ed.Date.Format("Monday, January 2, 2006"),
	}
	for _, id := range ed.SectionOrder {
		index.Nav = nav
		index.Sections = append(index.Sections, renderedSection{
			ID:      id,
			Title:   p.title(id),
			Content: render(ed.Sections[id]),
		})
	}
	if err := p.writePage(filepath.Join(p.OutputDir, "index.html"), index); err != nil {
		return err
	}

	// Section pages link back to the root, so their nav drops a level.
	sectionNav := make([]navLink, len(nav))
	for i, l := range nav {
		sectionNav[i] = navLink{Href: "../" + l.Href, Label: l.Label}
	}

	for _, id := range ed.SectionOrder {
		page := pageData{
			Title:   p.title(id),
			Tagline: ed.Tagline,
			Date:    ed.Date.Format("Monday, January 2, 2006"),
			Nav:     sectionNav,
			Sections: []renderedSection{{
				ID:      id,
				Title:   p.title(id),
				Content: render(ed.Sections[id]),
			}},
		}
		path := filepath.Join(p.OutputDir, sectionsDir, id+".html")
		if err := p.writePage(path, page); err != nil {
			return err
		}
	}
	return nil
}

func (p *Publisher) writePage(path string, data pageData) error {
	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("rendering %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func (p *Publisher) writeArchive(ed types.Edition, dates []string) error {
	today := ed.Date.Format(editionDateFormat)
	have := false
	for _, d := range dates {
		if d == today {
			have = true
			break
		}
	}
	if !have {
		dates = append([]string{today}, dates...)
	}

	var buf bytes.Buffer
	if err := archiveTmpl.Execute(&buf, dates); err != nil {
		return fmt.Errorf("rendering archive: %w", err)
	}
	path := filepath.Join(p.OutputDir, "archive.html")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// paragraphs splits a body on blank lines.
func paragraphs(body string) []string {
	var out []string
	start := 0
	for i := 0; i+1 < len(body); i++ {
		if body[i] == '\n' && body[i+1] == '\n' {
			if p := body[start:i]; p != "" {
				out = append(out, p)
			}
			start = i + 2
		}
	}
	if p := body[start:]; p != "" {
		out = append(out, p)
	}
	return out
}
