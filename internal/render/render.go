// Package render turns note markdown into the HTML shown in the content
// pane.
package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// Document is a rendered note.
type Document struct {
	HTML template.HTML
}

// Renderer converts GitHub-flavoured markdown with embedded raw HTML into
// styled HTML. Raw HTML is passed through untouched: notes are trusted
// content and are not sanitized.
type Renderer struct {
	md goldmark.Markdown
}

// New returns a Renderer using the given chroma style for fenced code.
func New(codeStyle string) *Renderer {
	if codeStyle == "" {
		codeStyle = "github"
	}
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle(codeStyle),
				highlighting.WithWrapperRenderer(wrapCodeBlock),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(
				util.Prioritized(classTransformer{}, 100),
			),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
			renderer.WithNodeRenderers(
				util.Prioritized(&imageRenderer{}, 100),
				util.Prioritized(&codeBlockRenderer{}, 100),
			),
		),
	)
	return &Renderer{md: md}
}

// Render converts markdown to a Document. Empty input renders to empty
// HTML.
func (r *Renderer) Render(markdown []byte) (Document, error) {
	if len(bytes.TrimSpace(markdown)) == 0 {
		return Document{}, nil
	}
	var buf bytes.Buffer
	if err := r.md.Convert(markdown, &buf); err != nil {
		return Document{}, fmt.Errorf("converting markdown: %w", err)
	}
	return Document{HTML: template.HTML(buf.String())}, nil
}

// wrapCodeBlock puts fenced code inside a scrollable, padded box. Blocks
// chroma could not highlight get no <pre> from chroma, so one is added.
func wrapCodeBlock(w util.BufWriter, c highlighting.CodeBlockContext, entering bool) {
	if entering {
		_, _ = w.WriteString(`<div class="md-pre">`)
		if !c.Highlighted() {
			_, _ = w.WriteString("<pre><code>")
		}
		return
	}
	if !c.Highlighted() {
		_, _ = w.WriteString("</code></pre>")
	}
	_, _ = w.WriteString("</div>\n")
}
