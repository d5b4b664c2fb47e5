package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/3-lines-studio/postpage/internal/clock"
	"github.com/3-lines-studio/postpage/internal/core"
)

type PostServiceConfig struct {
	Prerender  []string
	Fallback   core.Fallback
	StaleAfter time.Duration
}

type PostService struct {
	content    ContentClient
	renderer   PageRenderer
	paths      core.StaticPaths
	staleAfter time.Duration
	clock      clock.Clock
	logger     *slog.Logger
}

type PostServiceOption func(*PostService)

func WithClock(c clock.Clock) PostServiceOption {
	return func(s *PostService) {
		s.clock = c
	}
}

func WithLogger(logger *slog.Logger) PostServiceOption {
	return func(s *PostService) {
		s.logger = logger
	}
}

func NewPostService(content ContentClient, renderer PageRenderer, cfg PostServiceConfig, opts ...PostServiceOption) *PostService {
	staleAfter := cfg.StaleAfter
	if staleAfter <= 0 {
		staleAfter = core.DefaultStaleAfter
	}

	slugs := cfg.Prerender
	if slugs == nil {
		slugs = []string{core.DefaultSlug}
	}

	s := &PostService{
		content:  content,
		renderer: renderer,
		paths: core.StaticPaths{
			Slugs:    append([]string(nil), slugs...),
			Fallback: cfg.Fallback,
		},
		staleAfter: staleAfter,
		clock:      clock.NewReal(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ResolvePathsToPrerender lists the slugs generated eagerly and how unlisted
// slugs are handled.
func (s *PostService) ResolvePathsToPrerender() core.StaticPaths {
	return core.StaticPaths{
		Slugs:    append([]string(nil), s.paths.Slugs...),
		Fallback: s.paths.Fallback,
	}
}

func (s *PostService) StaleAfter() time.Duration {
	return s.staleAfter
}

// LoadPostData makes a single attempt to fetch the post. A missing post and a
// failed query both come back as Found == false; failures are only logged.
func (s *PostService) LoadPostData(ctx context.Context, slug string) core.LoadResult {
	if slug == "" {
		s.logger.Warn("load post called without slug")
		return core.LoadResult{}
	}

	post, err := s.content.GetPost(ctx, slug)
	switch {
	case errors.Is(err, core.ErrPostNotFound):
		s.logger.Info("post not found", "slug", slug)
		return core.LoadResult{}
	case core.IsFetchError(err):
		s.logger.Error("Error fetching post data", "slug", slug, "error", err)
		return core.LoadResult{}
	case err != nil:
		s.logger.Error("Error fetching post data", "slug", slug, "error", err, "unexpected", true)
		return core.LoadResult{}
	case post == nil:
		s.logger.Error("content client returned no post and no error", "slug", slug)
		return core.LoadResult{}
	}

	return core.LoadResult{
		Found:      true,
		Post:       post,
		StaleAfter: s.staleAfter,
	}
}

func (s *PostService) Render(post *core.Post) ([]byte, error) {
	return s.renderer.RenderPost(post)
}

// Generate runs one full page generation for slug. The error is reserved for
// rendering failures; missing posts are a NotFound result.
func (s *PostService) Generate(ctx context.Context, slug string) (core.PageResult, error) {
	start := time.Now()
	result := core.PageResult{
		Slug:        slug,
		Outcome:     core.OutcomeNotFound,
		GeneratedAt: s.clock.Now(),
	}

	if err := core.ValidateSlug(slug); err != nil {
		s.logger.Debug("rejected slug", "slug", slug, "error", err)
		return result, nil
	}

	if s.paths.Fallback == core.FallbackNone && !s.paths.Contains(slug) {
		return result, nil
	}

	data := s.LoadPostData(ctx, slug)
	if !data.Found {
		s.logger.Info("page generated", "slug", slug, "outcome", result.Outcome.String(), "duration", time.Since(start))
		return result, nil
	}

	body, err := s.Render(data.Post)
	if err != nil {
		return result, fmt.Errorf("render %q: %w", slug, err)
	}

	result.Outcome = core.OutcomeRendered
	result.HTML = body
	result.ETag = core.ETag(body)
	result.StaleAfter = data.StaleAfter

	s.logger.Info("page generated", "slug", slug, "outcome", result.Outcome.String(), "bytes", len(body), "duration", time.Since(start))
	return result, nil
}

func (s *PostService) RenderNotFound() ([]byte, error) {
	return s.renderer.RenderNotFound()
}
