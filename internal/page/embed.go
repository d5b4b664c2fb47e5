package page

import (
	"embed"
	"html/template"
	"io/fs"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed all:public
var publicFS embed.FS

var (
	PostTemplate     = template.Must(template.ParseFS(templatesFS, "templates/layout.html", "templates/post.html"))
	NotFoundTemplate = template.Must(template.ParseFS(templatesFS, "templates/layout.html", "templates/notfound.html"))
	ErrorTemplate    = template.Must(template.ParseFS(templatesFS, "templates/error.html"))
)

// PublicFS holds the static assets served next to the pages.
func PublicFS() fs.FS {
	sub, err := fs.Sub(publicFS, "public")
	if err != nil {
		panic(err)
	}
	return sub
}
