package render

import (
	"bytes"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Class names attached to rendered nodes. The stylesheet gives each one
// its fixed presentation.
const (
	ClassList       = "md-list"
	ClassListItem   = "md-li"
	ClassParagraph  = "md-p"
	ClassLink       = "md-link"
	ClassBlockquote = "md-quote"
	ClassCode       = "md-code"
	ClassTable      = "md-table"
	ClassImage      = "md-img"
)

var headingClasses = [...]string{"", "md-h1", "md-h2", "md-h3", "md-h4", "md-h5", "md-h6"}

// HeadingClass returns the class for a heading level, clamped to 1..6.
func HeadingClass(level int) string {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	return headingClasses[level]
}

// classTransformer tags each markdown node kind with its class.
type classTransformer struct{}

func (classTransformer) Transform(doc *ast.Document, _ text.Reader, _ parser.Context) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			addClass(n, HeadingClass(node.Level))
		case *ast.List:
			addClass(n, ClassList)
		case *ast.ListItem:
			addClass(n, ClassListItem)
		case *ast.Paragraph:
			addClass(n, ClassParagraph)
		case *ast.Link, *ast.AutoLink:
			addClass(n, ClassLink)
		case *ast.Blockquote:
			addClass(n, ClassBlockquote)
		case *ast.CodeSpan:
			addClass(n, ClassCode)
		case *east.Table:
			addClass(n, ClassTable)
		}
		return ast.WalkContinue, nil
	})
}

func addClass(n ast.Node, class string) {
	if existing, ok := n.AttributeString("class"); ok {
		if b, ok := existing.([]byte); ok && len(b) > 0 {
			n.SetAttributeString("class", append(append(append([]byte{}, b...), ' '), class...))
			return
		}
	}
	n.SetAttributeString("class", []byte(class))
}

// imageRenderer emits lazily loaded images that remove themselves from the
// layout when their source fails to load.
type imageRenderer struct{}

func (r *imageRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindImage, r.renderImage)
}

func (r *imageRenderer) renderImage(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.Image)

	_, _ = w.WriteString(`<img src="`)
	_, _ = w.Write(util.EscapeHTML(util.URLEscape(n.Destination, true)))
	_, _ = w.WriteString(`" alt="`)
	_, _ = w.Write(util.EscapeHTML(plainText(n, source)))
	_ = w.WriteByte('"')
	if n.Title != nil {
		_, _ = w.WriteString(` title="`)
		_, _ = w.Write(util.EscapeHTML(n.Title))
		_ = w.WriteByte('"')
	}
	_, _ = w.WriteString(` class="` + ClassImage + `" loading="lazy" onerror="this.style.display='none'">`)
	return ast.WalkSkipChildren, nil
}

// codeBlockRenderer gives indented code the same scrollable box as fenced
// code.
type codeBlockRenderer struct{}

func (r *codeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindCodeBlock, r.renderCodeBlock)
}

func (r *codeBlockRenderer) renderCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString(`<div class="md-pre"><pre><code>`)
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		_, _ = w.Write(util.EscapeHTML(line.Value(source)))
	}
	_, _ = w.WriteString("</code></pre></div>\n")
	return ast.WalkSkipChildren, nil
}

// plainText concatenates the text below n, used for alt attributes.
func plainText(n ast.Node, source []byte) []byte {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(source))
		case *ast.String:
			buf.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return buf.Bytes()
}
