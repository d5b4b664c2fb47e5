// Package richtext renders rich-text documents from the content API to HTML.
//
// Every node type has a renderer that turns the node and its already rendered
// children into HTML nodes. Callers replace renderers per type; everything
// else falls back to the defaults in defaults.go.
package richtext

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/3-lines-studio/postpage/internal/core"
)

type ElementRenderer func(n core.Node, children []*html.Node) []*html.Node

type Renderer struct {
	renderers map[string]ElementRenderer
	highlight bool
	style     string
	markdown  goldmark.Markdown
}

type Option func(*Renderer)

func WithRenderer(nodeType string, fn ElementRenderer) Option {
	return func(r *Renderer) {
		r.renderers[nodeType] = fn
	}
}

// WithHighlighting colors code blocks with the named chroma style.
func WithHighlighting(style string) Option {
	return func(r *Renderer) {
		r.highlight = true
		r.style = style
	}
}

func New(opts ...Option) *Renderer {
	r := &Renderer{
		renderers: defaultRenderers(),
		style:     "github",
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.highlight {
		r.renderers[core.NodeCodeBlock] = r.highlightedCodeBlock
	}
	r.markdown = newMarkdown(r.highlight, r.style)
	return r
}

// dropWhenEmpty lists the types that render nothing when all their text is
// empty. The editor leaves such blocks behind after deletions.
var dropWhenEmpty = map[string]bool{
	core.NodeParagraph:    true,
	core.NodeHeadingOne:   true,
	core.NodeHeadingTwo:   true,
	core.NodeHeadingThree: true,
	core.NodeHeadingFour:  true,
	core.NodeHeadingFive:  true,
	core.NodeHeadingSix:   true,
}

func (r *Renderer) Nodes(doc *core.Document) []*html.Node {
	if doc == nil {
		return nil
	}
	return r.renderAll(doc.Children)
}

func (r *Renderer) renderAll(nodes []core.Node) []*html.Node {
	var out []*html.Node
	for _, n := range nodes {
		out = append(out, r.render(n)...)
	}
	return out
}

func (r *Renderer) render(n core.Node) []*html.Node {
	if n.IsText() {
		return renderText(n)
	}

	if dropWhenEmpty[n.Type] && n.IsEmpty() {
		return nil
	}

	fn, ok := r.renderers[n.Type]
	if !ok {
		fn = fragment
	}
	return fn(n, r.renderAll(n.Children))
}

func renderText(n core.Node) []*html.Node {
	var nodes []*html.Node
	for i, line := range strings.Split(n.Text, "\n") {
		if i > 0 {
			nodes = append(nodes, element(atom.Br, nil, nil))
		}
		if line != "" {
			nodes = append(nodes, &html.Node{Type: html.TextNode, Data: line})
		}
	}
	if len(nodes) == 0 {
		return nil
	}

	wrap := func(tag atom.Atom, on bool) {
		if on {
			nodes = []*html.Node{element(tag, nil, nodes)}
		}
	}
	wrap(atom.Code, n.Code)
	wrap(atom.U, n.Underline)
	wrap(atom.I, n.Italic)
	wrap(atom.B, n.Bold)

	return nodes
}

// Render renders the document AST.
func (r *Renderer) Render(doc *core.Document) (template.HTML, error) {
	return renderNodes(r.Nodes(doc))
}

// RenderRichText renders the AST of rt, or its markdown when the AST is
// missing.
func (r *Renderer) RenderRichText(rt *core.RichText) (template.HTML, error) {
	if rt == nil {
		return "", nil
	}
	if rt.JSON != nil {
		return r.Render(rt.JSON)
	}
	if rt.Markdown != "" {
		return r.RenderMarkdown(rt.Markdown)
	}
	return "", nil
}

func renderNodes(nodes []*html.Node) (template.HTML, error) {
	var buf bytes.Buffer
	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			return "", fmt.Errorf("render rich text: %w", err)
		}
	}
	return template.HTML(buf.String()), nil
}
