package mdpreview

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/alnah/go-mdpreview/internal/assets"
)

// defaultTitle is used when a page has no title and no heading.
const defaultTitle = "Preview"

// pageData is the view model of the page template.
type pageData struct {
	Title           string
	CSS             template.CSS
	Body            template.HTML
	DiagramLanguage string
}

// loadPage parses the page template and assembles the page stylesheet
// (base style followed by the chroma classes of the highlight style).
func (r *Renderer) loadPage() error {
	raw, err := r.assets.Load(assets.KindTemplate, assets.DefaultPageTemplate)
	if err != nil {
		return fmt.Errorf("loading page template: %w", err)
	}
	page, err := template.New("page").Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPageRender, err)
	}

	css, err := r.assets.Load(assets.KindStyle, r.cfg.style)
	if err != nil {
		return fmt.Errorf("loading style: %w", err)
	}
	highlightCSS, err := HighlightCSS(r.cfg.highlightStyle)
	if err != nil {
		return err
	}

	r.page = page
	r.pageCSS = css + "\n" + highlightCSS
	return nil
}

// HighlightCSS returns the stylesheet for chroma's class-based output in
// the named style. Unknown names fall back to chroma's default style.
func HighlightCSS(style string) (string, error) {
	var buf bytes.Buffer
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&buf, styles.Get(style)); err != nil {
		return "", fmt.Errorf("generating highlight CSS: %w", err)
	}
	return buf.String(), nil
}

// HighlightStyles lists the chroma style names accepted by
// WithHighlightStyle.
func HighlightStyles() []string {
	return styles.Names()
}

// BuildPage wraps a rendered fragment in a standalone HTML page. An empty
// title is replaced by the text of the first heading, if any.
func (r *Renderer) BuildPage(fragment, title string) (string, error) {
	if title == "" {
		title = firstHeading(fragment)
	}
	if title == "" {
		title = defaultTitle
	}

	var buf bytes.Buffer
	err := r.page.Execute(&buf, pageData{
		Title: title,
		// #nosec G203 -- CSS comes from trusted assets and chroma
		CSS: template.CSS(r.pageCSS),
		// #nosec G203 -- fragment is sanitized before math resolution
		Body:            template.HTML(fragment),
		DiagramLanguage: r.cfg.diagramLanguage,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPageRender, err)
	}
	return buf.String(), nil
}

// firstHeading extracts the plain text of the first <h1>..<h6>.
func firstHeading(fragment string) string {
	start := -1
	for i := 1; i <= 6; i++ {
		idx := strings.Index(fragment, fmt.Sprintf("<h%d", i))
		if idx >= 0 && (start < 0 || idx < start) {
			start = idx
		}
	}
	if start < 0 {
		return ""
	}
	open := strings.IndexByte(fragment[start:], '>')
	if open < 0 {
		return ""
	}
	rest := fragment[start+open+1:]
	end := strings.Index(rest, "</h")
	if end < 0 {
		return ""
	}
	return stripTags(rest[:end])
}

// stripTags drops markup and unescapes entities, leaving display text.
func stripTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(html.UnescapeString(b.String()))
}
