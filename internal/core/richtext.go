package core

import (
	"bytes"
	"encoding/json"
)

// Document is a rich-text AST. The content API sends either {"children": [...]}
// or a bare array of element nodes; both decode to the same value.
type Document struct {
	Children []Node `json:"children"`
}

func (d *Document) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var children []Node
		if err := json.Unmarshal(trimmed, &children); err != nil {
			return err
		}
		d.Children = children
		return nil
	}

	type plain Document
	var p plain
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return err
	}
	*d = Document(p)
	return nil
}

// Node is either an element (Type set) or a text leaf (Type empty).
type Node struct {
	Type     string `json:"type,omitempty"`
	Children []Node `json:"children,omitempty"`

	Text      string `json:"text,omitempty"`
	Bold      bool   `json:"bold,omitempty"`
	Italic    bool   `json:"italic,omitempty"`
	Underline bool   `json:"underline,omitempty"`
	Code      bool   `json:"code,omitempty"`

	Href         string `json:"href,omitempty"`
	OpenInNewTab bool   `json:"openInNewTab,omitempty"`
	Src          string `json:"src,omitempty"`
	URL          string `json:"url,omitempty"`
	Title        string `json:"title,omitempty"`
	AltText      string `json:"altText,omitempty"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
	MimeType     string `json:"mimeType,omitempty"`
	ClassName    string `json:"className,omitempty"`
}

const (
	NodeParagraph     = "paragraph"
	NodeHeadingOne    = "heading-one"
	NodeHeadingTwo    = "heading-two"
	NodeHeadingThree  = "heading-three"
	NodeHeadingFour   = "heading-four"
	NodeHeadingFive   = "heading-five"
	NodeHeadingSix    = "heading-six"
	NodeBlockQuote    = "block-quote"
	NodeBulletedList  = "bulleted-list"
	NodeNumberedList  = "numbered-list"
	NodeListItem      = "list-item"
	NodeListItemChild = "list-item-child"
	NodeLink          = "link"
	NodeImage         = "image"
	NodeVideo         = "video"
	NodeIframe        = "iframe"
	NodeClass         = "class"
	NodeCodeBlock     = "code-block"
	NodeEmbed         = "embed"
	NodeTable         = "table"
	NodeTableHead     = "table_head"
	NodeTableBody     = "table_body"
	NodeTableRow      = "table_row"
	NodeTableHeader   = "table_header_cell"
	NodeTableCell     = "table_cell"
)

func (n Node) IsText() bool {
	return n.Type == ""
}

// IsEmpty reports whether every text leaf below n is empty.
func (n Node) IsEmpty() bool {
	if n.IsText() {
		return n.Text == ""
	}
	for _, child := range n.Children {
		if !child.IsEmpty() {
			return false
		}
	}
	return true
}

// PlainText concatenates the text leaves below n.
func (n Node) PlainText() string {
	if n.IsText() {
		return n.Text
	}
	var buf bytes.Buffer
	for _, child := range n.Children {
		buf.WriteString(child.PlainText())
	}
	return buf.String()
}
