package content

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/machinebox/graphql"

	"github.com/3-lines-studio/postpage/internal/core"
)

const getPostQuery = `
  query GetPost($slugPost: String) {
    post(where: { slug: $slugPost }) {
      id
      title
      slug
      subtitle
      coverImage {
        url
      }
      content {
        json
        markdown
      }
      coverImage2 {
        url
      }
      content2 {
        json
        markdown
      }
      author {
        name
      }
      createdAt
    }
  }
`

type getPostResponse struct {
	Post *core.Post `json:"post"`
}

// Client queries the headless content API. It holds no global state; build
// one per process and inject it.
type Client struct {
	gql        *graphql.Client
	httpClient *http.Client
	token      string
	timeout    time.Duration
	logger     *slog.Logger
}

type Option func(*Client)

func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		timeout: 10 * time.Second,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	httpClient := c.httpClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	c.gql = graphql.NewClient(endpoint, graphql.WithHTTPClient(httpClient))
	c.gql.Log = func(s string) {
		c.logger.Debug(s, "component", "graphql")
	}

	return c
}

// GetPost returns core.ErrPostNotFound when the API has no post for slug.
func (c *Client) GetPost(ctx context.Context, slug string) (*core.Post, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req := graphql.NewRequest(getPostQuery)
	req.Var("slugPost", slug)
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	var resp getPostResponse
	if err := c.gql.Run(ctx, req, &resp); err != nil {
		return nil, &core.FetchError{Slug: slug, Err: err}
	}
	c.logger.Debug("content query", "slug", slug, "request_id", requestID, "found", resp.Post != nil, "duration", time.Since(start))

	if resp.Post == nil {
		return nil, core.ErrPostNotFound
	}
	return resp.Post, nil
}
