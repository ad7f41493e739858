package ui

import (
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// renderMarkdown converts page text to HTML. Links open in a new tab.
func renderMarkdown(src []byte) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.HrefTargetBlank | html.SkipHTML,
	})
	return template.HTML(markdown.ToHTML(src, p, renderer))
}

// loadContent renders every content/<slug>.md file, keyed by slug
func loadContent(fsys fs.FS) (map[string]template.HTML, error) {
	files, err := fs.Glob(fsys, "content/*.md")
	if err != nil {
		return nil, fmt.Errorf("failed to glob content: %w", err)
	}
	out := make(map[string]template.HTML, len(files))
	for _, file := range files {
		src, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		slug := strings.TrimSuffix(path.Base(file), ".md")
		out[slug] = renderMarkdown(src)
	}
	return out, nil
}
