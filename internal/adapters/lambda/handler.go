// Package lambda serves post pages from an API Gateway proxy integration.
package lambda

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"github.com/3-lines-studio/postpage/internal/core"
	"github.com/3-lines-studio/postpage/internal/page"
)

type PageSource interface {
	Get(ctx context.Context, slug string) (core.PageResult, error)
}

type NotFoundRenderer interface {
	RenderNotFound() ([]byte, error)
}

type Handler struct {
	pages    PageSource
	notFound NotFoundRenderer
	basePath string
	isDev    bool
	logger   *slog.Logger
}

func NewHandler(pages PageSource, notFound NotFoundRenderer, basePath string, isDev bool, logger *slog.Logger) *Handler {
	if basePath == "" {
		basePath = core.DefaultBasePath
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		pages:    pages,
		notFound: notFound,
		basePath: strings.TrimSuffix(core.NormalizePath(basePath), "/"),
		isDev:    isDev,
		logger:   logger,
	}
}

func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if req.HTTPMethod != http.MethodGet && req.HTTPMethod != http.MethodHead {
		return jsonResponse(http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"}), nil
	}

	path := req.Path
	if path == "/healthz" {
		return textResponse(http.StatusOK, "ok"), nil
	}

	slug, ok := h.slugFromPath(path)
	if !ok {
		return h.renderNotFound(), nil
	}

	result, err := h.pages.Get(ctx, slug)
	if err != nil {
		h.logger.Error("failed to serve post", "slug", slug, "error", err)
		return htmlResponse(http.StatusInternalServerError, page.RenderError(err, h.isDev), noStore()), nil
	}
	if !result.Found() {
		return h.renderNotFound(), nil
	}

	headers := map[string]string{
		"Cache-Control": core.CacheControl(result.StaleAfter),
		"ETag":          result.ETag,
	}
	if core.ETagMatches(header(req.Headers, "If-None-Match"), result.ETag) {
		return notModified(headers), nil
	}

	body := result.HTML
	if req.HTTPMethod == http.MethodHead {
		body = nil
	}
	return htmlResponse(http.StatusOK, body, headers), nil
}

func (h *Handler) slugFromPath(path string) (string, bool) {
	rest, ok := strings.CutPrefix(path, h.basePath+"/")
	if !ok {
		return "", false
	}
	rest = strings.TrimSuffix(rest, "/")
	if core.ValidateSlug(rest) != nil {
		return "", false
	}
	return rest, true
}

func (h *Handler) renderNotFound() events.APIGatewayProxyResponse {
	body, err := h.notFound.RenderNotFound()
	if err != nil {
		return htmlResponse(http.StatusInternalServerError, page.RenderError(err, h.isDev), noStore())
	}
	return htmlResponse(http.StatusNotFound, body, noStore())
}

func noStore() map[string]string {
	return map[string]string{"Cache-Control": "no-store"}
}

// header looks a header up case-insensitively; API Gateway forwards names as
// the client sent them.
func header(headers map[string]string, name string) string {
	if v, ok := headers[name]; ok {
		return v
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}
