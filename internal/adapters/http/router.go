package http

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/3-lines-studio/postpage/internal/core"
)

type RouterConfig struct {
	BasePath         string
	Pages            PageSource
	Refresher        Refresher
	NotFound         NotFoundRenderer
	Public           fs.FS
	RevalidateSecret string
	IsDev            bool
	Logger           *slog.Logger
}

// Mount registers the post routes on r and returns a handler that serves the
// public files in front of it.
func Mount(r chi.Router, cfg RouterConfig) http.Handler {
	basePath := core.NormalizePath(cfg.BasePath)
	if cfg.BasePath == "" {
		basePath = core.DefaultBasePath
	}
	if basePath == "/" {
		basePath = ""
	}

	posts := NewPostHandler(cfg.Pages, cfg.NotFound, cfg.IsDev, cfg.Logger)
	for _, pattern := range []string{basePath + "/{slug}", basePath + "/{slug}/"} {
		r.Method(http.MethodGet, pattern, posts)
		r.Method(http.MethodHead, pattern, posts)
	}
	r.NotFound(posts.NotFound)
	r.Get("/healthz", Healthz)

	if cfg.Refresher != nil {
		r.Method(http.MethodPost, "/api/revalidate", NewRevalidateHandler(cfg.Refresher, cfg.RevalidateSecret, cfg.Logger))
	}

	if cfg.Public == nil {
		return r
	}
	return NewPublicHandler(cfg.Public, r, cfg.IsDev)
}

func Healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
