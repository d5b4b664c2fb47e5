package http

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/3-lines-studio/postpage/internal/core"
)

type Refresher interface {
	Refresh(ctx context.Context, slug string) (core.PageResult, error)
}

type revalidateResponse struct {
	Revalidated bool   `json:"revalidated"`
	Slug        string `json:"slug,omitempty"`
	Found       bool   `json:"found"`
	Message     string `json:"message,omitempty"`
}

// RevalidateHandler regenerates one page on demand. It answers 404 for every
// request when no secret is configured.
type RevalidateHandler struct {
	pages  Refresher
	secret string
	logger *slog.Logger
}

func NewRevalidateHandler(pages Refresher, secret string, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RevalidateHandler{pages: pages, secret: secret, logger: logger}
}

func (h *RevalidateHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if h.secret == "" {
		http.NotFound(w, req)
		return
	}

	query := req.URL.Query()
	if subtle.ConstantTimeCompare([]byte(query.Get("secret")), []byte(h.secret)) != 1 {
		writeJSON(w, http.StatusUnauthorized, revalidateResponse{Message: "invalid secret"})
		return
	}

	slug := query.Get("slug")
	if err := core.ValidateSlug(slug); err != nil {
		writeJSON(w, http.StatusBadRequest, revalidateResponse{Slug: slug, Message: err.Error()})
		return
	}

	result, err := h.pages.Refresh(req.Context(), slug)
	if err != nil {
		h.logger.Error("on-demand revalidation failed", "slug", slug, "error", err)
		writeJSON(w, http.StatusInternalServerError, revalidateResponse{Slug: slug, Message: "revalidation failed"})
		return
	}

	h.logger.Info("page revalidated on demand", "slug", slug, "outcome", result.Outcome.String())
	writeJSON(w, http.StatusOK, revalidateResponse{Revalidated: true, Slug: slug, Found: result.Found()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
