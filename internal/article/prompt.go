// Copyright Jordan Morrow, 2026. All rights reserved.

package article

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/jmorrow/gitpress/pkg/types"
)

// articlePromptTmpl asks the backend for a newspaper-style article with the
// field markers the parser scans for.
var articlePromptTmpl = template.Must(template.New("article").Parse(`You are a technology newspaper writer covering open-source software. Write a short newspaper-style article about the following repository.

Respond using exactly this structure, with each marker at the start of its line:

HEADLINE: a punchy headline, at most 12 words
SUBHEADLINE: one supporting sentence
BODY: two or three short paragraphs describing what the project does, why it is trending, and who should care
BUILDERS_TAKE: one paragraph of practical advice for developers considering it

Repository: {{.FullName}}
Description: {{.Description}}
Language: {{.Language}}
Stars: {{.Stars}} | Forks: {{.Forks}} | Open issues: {{.OpenIssues}}
{{- if .ReleaseName}}
Latest release: {{.ReleaseName}}
{{- end}}
{{- if .ReleaseNotes}}
Release notes:
{{.ReleaseNotes}}
{{- end}}
{{- if .ReadmeExcerpt}}
Readme excerpt:
{{.ReadmeExcerpt}}
{{- end}}
`))

// quickHitsPromptTmpl asks for one numbered line per repository so each
// output line can be matched back to its candidate by ordinal.
var quickHitsPromptTmpl = template.Must(template.New("quickhits").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(`You are a technology newspaper writer. For each repository below, write exactly one line: a single-sentence digest of what it is and why it matters. Prefix each line with the repository's number followed by a period, like "1. ".

{{range $i, $r := .}}{{inc $i}}. {{$r.FullName}} ({{$r.Language}}, {{$r.Stars}} stars): {{$r.Description}}
{{end}}`))

func articlePrompt(repo types.EnrichedRepo) (string, error) {
	var buf bytes.Buffer
	if err := articlePromptTmpl.Execute(&buf, repo); err != nil {
		return "", fmt.Errorf("rendering article prompt: %w", err)
	}
	return buf.String(), nil
}

func quickHitsPrompt(repos []types.EnrichedRepo) (string, error) {
	var buf bytes.Buffer
	if err := quickHitsPromptTmpl.Execute(&buf, repos); err != nil {
		return "", fmt.Errorf("rendering quick-hits prompt: %w", err)
	}
	return buf.String(), nil
}
