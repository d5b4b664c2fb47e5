package core

import (
	"fmt"
	"path"
	"strings"
)

func NormalizePath(p string) string {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if p != "/" && strings.HasSuffix(p, "/") {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}

func ValidateSlug(slug string) error {
	if slug == "" {
		return fmt.Errorf("slug cannot be empty")
	}

	if strings.ContainsAny(slug, "/?#") {
		return fmt.Errorf("slug cannot contain path separators, query strings or fragments")
	}

	if strings.Contains(slug, "..") {
		return fmt.Errorf("slug cannot contain parent directory references")
	}

	if strings.TrimSpace(slug) != slug {
		return fmt.Errorf("slug cannot start or end with whitespace")
	}

	return nil
}

// PostPath is the public URL path of the post page for slug.
func PostPath(basePath, slug string) string {
	return NormalizePath(path.Join(NormalizePath(basePath), slug))
}

// ExportFile is the file a static export writes the post page to.
func ExportFile(basePath, slug string) string {
	return strings.TrimPrefix(path.Join(PostPath(basePath, slug), "index.html"), "/")
}
