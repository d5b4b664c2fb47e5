package richtext

import (
	"bytes"
	"html/template"
	"log/slog"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/net/html"

	"github.com/3-lines-studio/postpage/internal/core"
)

func (r *Renderer) highlightedCodeBlock(n core.Node, children []*html.Node) []*html.Node {
	code := n.PlainText()
	out, err := highlight(code, r.style)
	if err != nil {
		slog.Warn("code highlighting failed, rendering plain block", "error", err)
		return codeBlock(n, children)
	}
	return []*html.Node{{Type: html.RawNode, Data: out}}
}

// Code blocks carry no language, so the lexer is guessed from the content.
func highlight(code, style string) (string, error) {
	lexer := lexers.Analyse(code)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	formatter := chromahtml.New(chromahtml.TabWidth(2))
	if err := formatter.Format(&buf, styles.Get(style), iterator); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func newMarkdown(highlight bool, style string) goldmark.Markdown {
	extensions := []goldmark.Extender{extension.GFM}
	if highlight {
		extensions = append(extensions, highlighting.NewHighlighting(highlighting.WithStyle(style)))
	}
	return goldmark.New(goldmark.WithExtensions(extensions...))
}

// RenderMarkdown renders the markdown form of a rich-text field. Raw HTML in
// the source is omitted.
func (r *Renderer) RenderMarkdown(source string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
