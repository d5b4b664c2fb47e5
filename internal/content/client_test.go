package content

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3-lines-studio/postpage/internal/core"
)

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

func newFakeAPI(t *testing.T, handler func(w http.ResponseWriter, req graphQLRequest, r *http.Request)) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req graphQLRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		handler(w, req, r)
	}))
	t.Cleanup(server.Close)
	return server
}

const postPayload = `{"data":{"post":{
	"id":"ck1",
	"title":"Como desenvolver um blog com Next.js",
	"slug":"como-desenvolver-um-blog-com-nextjs",
	"subtitle":"Passo a passo",
	"coverImage":{"url":"https://media.example.com/cover.png"},
	"content":{"json":{"children":[{"type":"paragraph","children":[{"text":"Olá"}]}]}},
	"coverImage2":null,
	"content2":null,
	"author":{"name":"Ana Souza"},
	"createdAt":"2024-03-15T12:00:00.000Z"
}}}`

func TestClientGetPostFound(t *testing.T) {
	var gotSlug any
	var gotAuth, gotRequestID string
	server := newFakeAPI(t, func(w http.ResponseWriter, req graphQLRequest, r *http.Request) {
		gotSlug = req.Variables["slugPost"]
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		_, _ = w.Write([]byte(postPayload))
	})

	client := NewClient(server.URL, WithToken("secret"))
	post, err := client.GetPost(context.Background(), "como-desenvolver-um-blog-com-nextjs")
	require.NoError(t, err)
	require.NotNil(t, post)

	assert.Equal(t, "como-desenvolver-um-blog-com-nextjs", gotSlug)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.NotEmpty(t, gotRequestID)

	assert.Equal(t, "como-desenvolver-um-blog-com-nextjs", post.Slug)
	assert.Equal(t, "Ana Souza", post.Author.Name)
	assert.Equal(t, "https://media.example.com/cover.png", post.CoverImageURL())
	assert.True(t, post.Content.IsPresent())
	assert.False(t, post.Content2.IsPresent())
	require.Len(t, post.Content.JSON.Children, 1)
	assert.Equal(t, core.NodeParagraph, post.Content.JSON.Children[0].Type)
}

func TestClientGetPostMissing(t *testing.T) {
	server := newFakeAPI(t, func(w http.ResponseWriter, req graphQLRequest, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"post":null}}`))
	})

	post, err := NewClient(server.URL).GetPost(context.Background(), "missing-post")
	require.ErrorIs(t, err, core.ErrPostNotFound)
	assert.False(t, core.IsFetchError(err))
	assert.Nil(t, post)
}

func TestClientGetPostErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler func(w http.ResponseWriter, req graphQLRequest, r *http.Request)
	}{
		{
			name: "graphql error",
			handler: func(w http.ResponseWriter, req graphQLRequest, r *http.Request) {
				_, _ = w.Write([]byte(`{"errors":[{"message":"field post not found"}]}`))
			},
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, req graphQLRequest, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = w.Write([]byte(`<html>bad gateway</html>`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newFakeAPI(t, tt.handler)

			post, err := NewClient(server.URL).GetPost(context.Background(), "any")
			require.Error(t, err)
			assert.Nil(t, post)

			var fetchErr *core.FetchError
			require.True(t, errors.As(err, &fetchErr))
			assert.Equal(t, "any", fetchErr.Slug)
		})
	}
}

func TestClientTimeout(t *testing.T) {
	release := make(chan struct{})
	server := newFakeAPI(t, func(w http.ResponseWriter, req graphQLRequest, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	client := NewClient(server.URL, WithTimeout(50*time.Millisecond))
	_, err := client.GetPost(context.Background(), "slow")
	require.Error(t, err)
	assert.True(t, core.IsFetchError(err))
}

func TestMemory(t *testing.T) {
	mem := NewMemory(core.Post{Slug: "a", Title: "A"})

	post, err := mem.GetPost(context.Background(), "a")
	require.NoError(t, err)
	require.NotNil(t, post)
	assert.Equal(t, "A", post.Title)

	post, err = mem.GetPost(context.Background(), "b")
	require.ErrorIs(t, err, core.ErrPostNotFound)
	assert.Nil(t, post)

	mem.FailWith(errors.New("offline"))
	_, err = mem.GetPost(context.Background(), "a")
	assert.True(t, core.IsFetchError(err))

	mem.FailWith(nil)
	mem.Delete("a")
	post, err = mem.GetPost(context.Background(), "a")
	require.ErrorIs(t, err, core.ErrPostNotFound)
	assert.Nil(t, post)
	assert.Equal(t, 4, mem.Calls())
}

func TestLoadFixtures(t *testing.T) {
	mem, err := LoadFixtures("testdata/posts.json")
	require.NoError(t, err)

	post, err := mem.GetPost(context.Background(), "como-desenvolver-um-blog-com-nextjs")
	require.NoError(t, err)
	require.NotNil(t, post)
	assert.Equal(t, "Ana Souza", post.Author.Name)
	assert.Len(t, post.Content.JSON.Children, 3)

	_, err = LoadFixtures("testdata/nope.json")
	assert.Error(t, err)
}
