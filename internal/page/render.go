package page

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"log/slog"
	"time"

	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/3-lines-studio/postpage/internal/core"
	"github.com/3-lines-studio/postpage/internal/richtext"
)

// ParagraphClass styles rich-text paragraphs on post pages.
const ParagraphClass = "text-zinc-600 text-sm sm:text-base text-justify lg:text-left mt-1"

type Renderer struct {
	rich     *richtext.Renderer
	location *time.Location
	siteName string
	logger   *slog.Logger
}

type Option func(*Renderer)

func WithLocation(loc *time.Location) Option {
	return func(r *Renderer) {
		r.location = loc
	}
}

func WithSiteName(name string) Option {
	return func(r *Renderer) {
		r.siteName = name
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		r.logger = logger
	}
}

func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		location: time.UTC,
		siteName: core.SiteName,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.rich = richtext.New(
		richtext.WithRenderer(core.NodeParagraph, paragraph),
		richtext.WithHighlighting("github"),
	)
	return r
}

func paragraph(_ core.Node, children []*xhtml.Node) []*xhtml.Node {
	return richtext.Element(atom.P, richtext.Attrs("class", ParagraphClass), children)
}

type layoutData struct {
	Title       string
	Description string
	SiteName    string
}

type postData struct {
	layoutData
	PostTitle   string
	Subtitle    string
	CoverImage  string
	CoverImage2 string
	AuthorName  string
	CreatedAt   string
	Content     template.HTML
	Content2    template.HTML
	HasContent2 bool
}

func (r *Renderer) PageTitle(post *core.Post) string {
	return post.Title + " | " + r.siteName
}

// RenderPost renders the full post page. Optional sections are appended only
// when their content is present.
func (r *Renderer) RenderPost(post *core.Post) ([]byte, error) {
	if post == nil {
		return nil, fmt.Errorf("render post: nil post")
	}

	content, err := r.rich.RenderRichText(&post.Content)
	if err != nil {
		return nil, fmt.Errorf("render content of %q: %w", post.Slug, err)
	}

	data := postData{
		layoutData: layoutData{
			Title:       r.PageTitle(post),
			Description: post.Subtitle,
			SiteName:    r.siteName,
		},
		PostTitle:   post.Title,
		Subtitle:    post.Subtitle,
		CoverImage:  post.CoverImageURL(),
		CoverImage2: post.CoverImage2URL(),
		AuthorName:  post.Author.Name,
		CreatedAt:   r.createdAt(post),
		Content:     content,
	}

	if post.Content2.IsPresent() {
		content2, err := r.rich.Render(post.Content2.JSON)
		if err != nil {
			return nil, fmt.Errorf("render content2 of %q: %w", post.Slug, err)
		}
		data.Content2 = content2
		data.HasContent2 = true
	}

	var buf bytes.Buffer
	if err := PostTemplate.ExecuteTemplate(&buf, "layout", data); err != nil {
		return nil, fmt.Errorf("execute post template: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) createdAt(post *core.Post) string {
	formatted, err := core.FormatCreatedAt(post.CreatedAt, r.location)
	if err != nil {
		r.logger.Warn("invalid post timestamp, rendering it verbatim", "slug", post.Slug, "error", err)
		return post.CreatedAt
	}
	return formatted
}

func (r *Renderer) RenderNotFound() ([]byte, error) {
	data := layoutData{
		Title:    "Página não encontrada | " + r.siteName,
		SiteName: r.siteName,
	}

	var buf bytes.Buffer
	if err := NotFoundTemplate.ExecuteTemplate(&buf, "layout", data); err != nil {
		return nil, fmt.Errorf("execute not found template: %w", err)
	}
	return buf.Bytes(), nil
}

type errorData struct {
	Message string
	IsDev   bool
}

// RenderError renders the 500 page; the message is only shown in dev mode.
func RenderError(err error, isDev bool) []byte {
	data := errorData{
		Message: err.Error(),
		IsDev:   isDev,
	}

	var buf bytes.Buffer
	if execErr := ErrorTemplate.Execute(&buf, data); execErr != nil {
		return []byte("<!doctype html><html><body><pre>" + html.EscapeString(data.Message) + "</pre></body></html>")
	}
	return buf.Bytes()
}
