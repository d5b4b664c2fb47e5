package lambda

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3-lines-studio/postpage/internal/core"
)

type stubPages struct {
	results map[string]core.PageResult
	err     error
	asked   []string
}

func (s *stubPages) Get(_ context.Context, slug string) (core.PageResult, error) {
	s.asked = append(s.asked, slug)
	if s.err != nil {
		return core.PageResult{}, s.err
	}
	return s.results[slug], nil
}

type stubNotFound struct{}

func (stubNotFound) RenderNotFound() ([]byte, error) {
	return []byte("<h1>Página não encontrada</h1>"), nil
}

func newHandler(pages *stubPages) *Handler {
	return NewHandler(pages, stubNotFound{}, "/aberto", false, nil)
}

func renderedPage() core.PageResult {
	html := []byte("<html>post</html>")
	return core.PageResult{
		Slug:       core.DefaultSlug,
		Outcome:    core.OutcomeRendered,
		HTML:       html,
		ETag:       core.ETag(html),
		StaleAfter: core.DefaultStaleAfter,
	}
}

func request(method, path string, headers map[string]string) events.APIGatewayProxyRequest {
	return events.APIGatewayProxyRequest{HTTPMethod: method, Path: path, Headers: headers}
}

func TestHandleRendered(t *testing.T) {
	page := renderedPage()
	h := newHandler(&stubPages{results: map[string]core.PageResult{core.DefaultSlug: page}})

	resp, err := h.Handle(context.Background(), request(http.MethodGet, "/aberto/"+core.DefaultSlug, nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, string(page.HTML), resp.Body)
	assert.Equal(t, "text/html; charset=utf-8", resp.Headers["Content-Type"])
	assert.Equal(t, "s-maxage=1800, stale-while-revalidate", resp.Headers["Cache-Control"])
	assert.Equal(t, page.ETag, resp.Headers["ETag"])
}

func TestHandleNotModified(t *testing.T) {
	page := renderedPage()
	h := newHandler(&stubPages{results: map[string]core.PageResult{core.DefaultSlug: page}})

	resp, err := h.Handle(context.Background(), request(http.MethodGet, "/aberto/"+core.DefaultSlug,
		map[string]string{"if-none-match": page.ETag}))
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotModified, resp.StatusCode)
	assert.Empty(t, resp.Body)
}

func TestHandleNotFound(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		asked bool
	}{
		{"unknown post", "/aberto/sumido", true},
		{"outside base path", "/outro/sumido", false},
		{"nested path", "/aberto/a/b", false},
		{"nested path with trailing slash", "/aberto/a/b/", false},
		{"empty slug", "/aberto/", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages := &stubPages{}
			resp, err := newHandler(pages).Handle(context.Background(), request(http.MethodGet, tt.path, nil))
			require.NoError(t, err)

			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
			assert.Contains(t, resp.Body, "Página não encontrada")
			assert.Equal(t, "no-store", resp.Headers["Cache-Control"])
			assert.Equal(t, tt.asked, len(pages.asked) > 0)
		})
	}
}

func TestHandleTrailingSlash(t *testing.T) {
	page := renderedPage()
	pages := &stubPages{results: map[string]core.PageResult{core.DefaultSlug: page}}

	resp, err := newHandler(pages).Handle(context.Background(), request(http.MethodGet, "/aberto/"+core.DefaultSlug+"/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHandleError(t *testing.T) {
	h := newHandler(&stubPages{err: errors.New("template exploded")})

	resp, err := h.Handle(context.Background(), request(http.MethodGet, "/aberto/"+core.DefaultSlug, nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.NotContains(t, resp.Body, "template exploded")
}

func TestHandleHealthAndMethods(t *testing.T) {
	h := newHandler(&stubPages{})

	resp, err := h.Handle(context.Background(), request(http.MethodGet, "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", resp.Body)

	resp, err = h.Handle(context.Background(), request(http.MethodPost, "/aberto/"+core.DefaultSlug, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.JSONEq(t, `{"error":"method not allowed"}`, resp.Body)
}

func TestHeaderLookup(t *testing.T) {
	headers := map[string]string{"IF-NONE-MATCH": "x"}
	assert.Equal(t, "x", header(headers, "If-None-Match"))
	assert.Empty(t, header(headers, "ETag"))
}
