package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/3-lines-studio/postpage/internal/core"
	"github.com/3-lines-studio/postpage/internal/page"
)

type PageSource interface {
	Get(ctx context.Context, slug string) (core.PageResult, error)
}

type NotFoundRenderer interface {
	RenderNotFound() ([]byte, error)
}

type PostHandler struct {
	pages    PageSource
	notFound NotFoundRenderer
	isDev    bool
	logger   *slog.Logger
}

func NewPostHandler(pages PageSource, notFound NotFoundRenderer, isDev bool, logger *slog.Logger) *PostHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostHandler{
		pages:    pages,
		notFound: notFound,
		isDev:    isDev,
		logger:   logger,
	}
}

func (h *PostHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	slug := chi.URLParam(req, "slug")

	result, err := h.pages.Get(req.Context(), slug)
	if err != nil {
		h.logger.Error("failed to serve post", "slug", slug, "error", err)
		h.serveError(w, err)
		return
	}

	if !result.Found() {
		h.serveNotFound(w)
		return
	}

	h.servePage(w, req, result)
}

func (h *PostHandler) servePage(w http.ResponseWriter, req *http.Request, result core.PageResult) {
	header := w.Header()
	header.Set("Content-Type", "text/html; charset=utf-8")
	header.Set("Cache-Control", core.CacheControl(result.StaleAfter))
	if result.ETag != "" {
		header.Set("ETag", result.ETag)
	}
	if !result.GeneratedAt.IsZero() {
		header.Set("Last-Modified", result.GeneratedAt.UTC().Format(http.TimeFormat))
	}

	if core.ETagMatches(req.Header.Get("If-None-Match"), result.ETag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.WriteHeader(http.StatusOK)
	if req.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(result.HTML)
}

// NotFound answers any path no route matched with the same 404 page a
// missing post gets.
func (h *PostHandler) NotFound(w http.ResponseWriter, _ *http.Request) {
	h.serveNotFound(w)
}

func (h *PostHandler) serveNotFound(w http.ResponseWriter) {
	body, err := h.notFound.RenderNotFound()
	if err != nil {
		h.serveError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write(body)
}

func (h *PostHandler) serveError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write(page.RenderError(err, h.isDev))
}
