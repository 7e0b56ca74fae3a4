// Package export renders fetched lessons into standalone HTML pages
// and serves the export directory for local preview.
package export

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/cahier-numerique/cahier/internal/api"
	"github.com/cahier-numerique/cahier/internal/subject"
)

// Generator writes lesson pages into OutputDir.
type Generator struct {
	OutputDir string
}

// NewGenerator creates a Generator targeting the given directory.
func NewGenerator(outputDir string) *Generator {
	return &Generator{OutputDir: outputDir}
}

// pageData holds the data passed to the HTML template for each lesson.
type pageData struct {
	Title       string
	SubjectName string
	Icon        string
	Accent      string
	Level       string
	Content     template.HTML
	Sources     []api.Source
}

// Write renders one lesson to a standalone HTML file and returns its
// path. The filename is derived from the lesson title.
func (g *Generator) Write(lesson *api.LessonDetail) (string, error) {
	if err := os.MkdirAll(g.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating export dir: %w", err)
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)

	var rendered bytes.Buffer
	if err := md.Convert([]byte(lesson.FullContent), &rendered); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}

	tmpl, err := template.New("lesson").Parse(lessonTemplate)
	if err != nil {
		return "", fmt.Errorf("parsing lesson template: %w", err)
	}

	subj, _ := subject.Get(lesson.Subject)
	data := pageData{
		Title:       lesson.Title,
		SubjectName: subj.Name,
		Icon:        subj.Icon,
		Accent:      subj.Color,
		Level:       lesson.Level,
		Content:     template.HTML(rendered.String()),
	}
	if lesson.URL != "" {
		data.Sources = []api.Source{{Title: lesson.Source, URL: lesson.URL, Subject: lesson.Subject}}
	}

	var page bytes.Buffer
	if err := tmpl.Execute(&page, data); err != nil {
		return "", fmt.Errorf("rendering page: %w", err)
	}

	outPath := filepath.Join(g.OutputDir, Slug(lesson.Subject, lesson.Title)+".html")
	if err := os.WriteFile(outPath, page.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", outPath, err)
	}
	return outPath, nil
}

// Slug builds a filesystem-safe name for a lesson page.
func Slug(subj, title string) string {
	folded := subject.Fold(subj + "-" + title)
	var b strings.Builder
	lastDash := true
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

const lessonTemplate = `<!DOCTYPE html>
<html lang="fr">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}} — {{.SubjectName}}</title>
<style>
:root { --accent: {{.Accent}}; }
body { font-family: system-ui, sans-serif; max-width: 760px; margin: 2rem auto; padding: 0 1rem; line-height: 1.6; color: #222; }
header { border-bottom: 3px solid var(--accent); padding-bottom: .5rem; margin-bottom: 1.5rem; }
header h1 { margin: 0; }
header .meta { color: #666; font-size: .9rem; }
pre { background: #f6f8fa; padding: 1rem; overflow-x: auto; border-radius: 6px; }
code { font-size: .95em; }
blockquote { border-left: 4px solid var(--accent); margin-left: 0; padding-left: 1rem; color: #555; }
footer { margin-top: 2rem; border-top: 1px solid #ddd; padding-top: .5rem; font-size: .85rem; color: #666; }
</style>
</head>
<body>
<header>
<h1>{{.Icon}} {{.Title}}</h1>
<div class="meta">{{.SubjectName}}{{if .Level}} · {{.Level}}{{end}}</div>
</header>
<main>
{{.Content}}
</main>
{{if .Sources}}
<footer>
Sources :
<ul>
{{range .Sources}}<li><a href="{{.URL}}">{{.Title}}</a></li>{{end}}
</ul>
</footer>
{{end}}
</body>
</html>
`
