package core

import "time"

const (
	SiteName = "Brasil Concursos"

	DefaultStaleAfter = 30 * time.Minute
	DefaultBasePath   = "/aberto"
	DefaultSlug       = "como-desenvolver-um-blog-com-nextjs"
)

type Asset struct {
	URL string `json:"url"`
}

type Author struct {
	Name string `json:"name"`
}

// RichText is a rich-text field as returned by the content API. JSON holds the
// AST; Markdown is only consulted when the AST is missing.
type RichText struct {
	JSON     *Document `json:"json,omitempty"`
	Markdown string    `json:"markdown,omitempty"`
}

func (r *RichText) IsPresent() bool {
	return r != nil && r.JSON != nil
}

type Post struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Subtitle    string    `json:"subtitle"`
	CoverImage  *Asset    `json:"coverImage,omitempty"`
	Content     RichText  `json:"content"`
	CoverImage2 *Asset    `json:"coverImage2,omitempty"`
	Content2    *RichText `json:"content2,omitempty"`
	Author      Author    `json:"author"`
	CreatedAt   string    `json:"createdAt"`
}

// CoverImageURL returns "" when the first cover image must not be rendered.
func (p *Post) CoverImageURL() string {
	if p.CoverImage == nil {
		return ""
	}
	return p.CoverImage.URL
}

func (p *Post) CoverImage2URL() string {
	if p.CoverImage2 == nil {
		return ""
	}
	return p.CoverImage2.URL
}
