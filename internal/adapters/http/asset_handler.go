package http

import (
	"io/fs"
	"net/http"
	"strings"

	"github.com/3-lines-studio/postpage/internal/core"
)

// PublicHandler serves files from the public directory and hands every
// other request to next.
type PublicHandler struct {
	public fs.FS
	next   http.Handler
	isDev  bool
}

func NewPublicHandler(public fs.FS, next http.Handler, isDev bool) http.Handler {
	return &PublicHandler{
		public: public,
		next:   next,
		isDev:  isDev,
	}
}

func (h *PublicHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	path := strings.TrimPrefix(req.URL.Path, "/")
	if path == "" || (req.Method != http.MethodGet && req.Method != http.MethodHead) {
		h.next.ServeHTTP(w, req)
		return
	}

	if !fs.ValidPath(path) {
		h.next.ServeHTTP(w, req)
		return
	}

	info, err := fs.Stat(h.public, path)
	if err != nil || info.IsDir() {
		h.next.ServeHTTP(w, req)
		return
	}

	data, err := fs.ReadFile(h.public, path)
	if err != nil {
		http.NotFound(w, req)
		return
	}

	w.Header().Set("Content-Type", core.GetContentType(path))
	if h.isDev {
		w.Header().Set("Cache-Control", "no-cache")
	} else {
		w.Header().Set("Cache-Control", "public, max-age=3600")
	}
	if req.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(data)
}
