package richtext

import (
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/3-lines-studio/postpage/internal/core"
)

func defaultRenderers() map[string]ElementRenderer {
	return map[string]ElementRenderer{
		core.NodeParagraph:     wrapIn(atom.P),
		core.NodeHeadingOne:    wrapIn(atom.H1),
		core.NodeHeadingTwo:    wrapIn(atom.H2),
		core.NodeHeadingThree:  wrapIn(atom.H3),
		core.NodeHeadingFour:   wrapIn(atom.H4),
		core.NodeHeadingFive:   wrapIn(atom.H5),
		core.NodeHeadingSix:    wrapIn(atom.H6),
		core.NodeBlockQuote:    wrapIn(atom.Blockquote),
		core.NodeBulletedList:  wrapIn(atom.Ul),
		core.NodeNumberedList:  wrapIn(atom.Ol),
		core.NodeListItem:      wrapIn(atom.Li),
		core.NodeListItemChild: fragment,
		core.NodeTable:         wrapIn(atom.Table),
		core.NodeTableHead:     wrapIn(atom.Thead),
		core.NodeTableBody:     wrapIn(atom.Tbody),
		core.NodeTableRow:      wrapIn(atom.Tr),
		core.NodeTableHeader:   wrapIn(atom.Th),
		core.NodeTableCell:     wrapIn(atom.Td),
		core.NodeLink:          link,
		core.NodeImage:         image,
		core.NodeVideo:         video,
		core.NodeIframe:        iframe,
		core.NodeClass:         class,
		core.NodeCodeBlock:     codeBlock,
		core.NodeEmbed:         omit,
	}
}

func element(tag atom.Atom, attrs []html.Attribute, children []*html.Node) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag.String(),
		DataAtom: tag,
		Attr:     attrs,
	}
	for _, child := range children {
		n.AppendChild(child)
	}
	return n
}

// Element builds an HTML element; custom renderers use it to wrap children.
func Element(tag atom.Atom, attrs []html.Attribute, children []*html.Node) []*html.Node {
	return []*html.Node{element(tag, attrs, children)}
}

// Attrs builds an attribute list from key/value pairs, skipping empty values.
func Attrs(pairs ...string) []html.Attribute {
	var attrs []html.Attribute
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			continue
		}
		attrs = append(attrs, html.Attribute{Key: pairs[i], Val: pairs[i+1]})
	}
	return attrs
}

func dimension(v int) string {
	if v <= 0 {
		return ""
	}
	return strconv.Itoa(v)
}

func wrapIn(tag atom.Atom) ElementRenderer {
	return func(_ core.Node, children []*html.Node) []*html.Node {
		return Element(tag, nil, children)
	}
}

func fragment(_ core.Node, children []*html.Node) []*html.Node {
	return children
}

func omit(core.Node, []*html.Node) []*html.Node {
	return nil
}

func link(n core.Node, children []*html.Node) []*html.Node {
	target, rel := "", ""
	if n.OpenInNewTab {
		target, rel = "_blank", "noreferrer"
	}
	return Element(atom.A, Attrs("href", n.Href, "title", n.Title, "target", target, "rel", rel), children)
}

func image(n core.Node, _ []*html.Node) []*html.Node {
	if n.Src == "" {
		return nil
	}
	alt := n.AltText
	if alt == "" {
		alt = n.Title
	}
	attrs := Attrs(
		"src", n.Src,
		"alt", alt,
		"title", n.Title,
		"width", dimension(n.Width),
		"height", dimension(n.Height),
		"loading", "lazy",
	)
	return Element(atom.Img, attrs, nil)
}

func video(n core.Node, _ []*html.Node) []*html.Node {
	if n.Src == "" {
		return nil
	}
	attrs := Attrs("src", n.Src, "title", n.Title, "width", dimension(n.Width), "height", dimension(n.Height))
	attrs = append(attrs, html.Attribute{Key: "controls"})
	return Element(atom.Video, attrs, nil)
}

func iframe(n core.Node, _ []*html.Node) []*html.Node {
	if n.URL == "" {
		return nil
	}
	attrs := Attrs("src", n.URL, "width", dimension(n.Width), "height", dimension(n.Height), "loading", "lazy")
	return Element(atom.Iframe, attrs, nil)
}

func class(n core.Node, children []*html.Node) []*html.Node {
	return Element(atom.Div, Attrs("class", n.ClassName), children)
}

func codeBlock(n core.Node, _ []*html.Node) []*html.Node {
	code := element(atom.Code, nil, []*html.Node{{Type: html.TextNode, Data: n.PlainText()}})
	return Element(atom.Pre, nil, []*html.Node{code})
}
