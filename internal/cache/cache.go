// Package cache keeps generated pages and regenerates them in the background
// once they go stale.
package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/3-lines-studio/postpage/internal/clock"
	"github.com/3-lines-studio/postpage/internal/core"
)

type Generator func(ctx context.Context, slug string) (core.PageResult, error)

type PageCache struct {
	mu           sync.RWMutex
	entries      map[string]core.PageResult
	revalidating map[string]bool
	closed       bool

	generate Generator
	group    singleflight.Group
	clock    clock.Clock
	logger   *slog.Logger
	timeout  time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type Option func(*PageCache)

func WithClock(c clock.Clock) Option {
	return func(pc *PageCache) {
		pc.clock = c
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(pc *PageCache) {
		pc.logger = logger
	}
}

// WithTimeout bounds every generation, including background ones.
func WithTimeout(timeout time.Duration) Option {
	return func(pc *PageCache) {
		pc.timeout = timeout
	}
}

func New(generate Generator, opts ...Option) *PageCache {
	ctx, cancel := context.WithCancel(context.Background())
	c := &PageCache{
		entries:      make(map[string]core.PageResult),
		revalidating: make(map[string]bool),
		generate:     generate,
		clock:        clock.NewReal(),
		logger:       slog.Default(),
		timeout:      30 * time.Second,
		ctx:          ctx,
		cancel:       cancel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the page for slug. Fresh entries are served as is; stale
// entries are served while one background regeneration runs; missing entries
// are generated before returning.
func (c *PageCache) Get(ctx context.Context, slug string) (core.PageResult, error) {
	c.mu.RLock()
	entry, exists := c.entries[slug]
	c.mu.RUnlock()

	if !exists {
		return c.load(ctx, slug)
	}

	if !c.clock.Now().Before(entry.StaleAt()) {
		c.revalidate(slug)
	}
	return entry, nil
}

// Refresh regenerates slug now, regardless of its age.
func (c *PageCache) Refresh(ctx context.Context, slug string) (core.PageResult, error) {
	return c.load(ctx, slug)
}

// Warm generates slugs concurrently. Pages that are not found are simply not
// cached; the first render error is returned.
func (c *PageCache) Warm(ctx context.Context, slugs []string, concurrency int) (int, error) {
	if concurrency <= 0 {
		concurrency = 4
	}

	var (
		mu       sync.Mutex
		rendered int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, slug := range slugs {
		g.Go(func() error {
			result, err := c.load(gctx, slug)
			if err != nil {
				return err
			}
			if result.Found() {
				mu.Lock()
				rendered++
				mu.Unlock()
			}
			return nil
		})
	}

	err := g.Wait()
	return rendered, err
}

func (c *PageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops accepting background work and waits for running regenerations.
func (c *PageCache) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
}

func (c *PageCache) load(ctx context.Context, slug string) (core.PageResult, error) {
	ch := c.group.DoChan(slug, func() (any, error) {
		// Other callers may be waiting on this generation, so it is bound to
		// the cache lifetime rather than to ctx.
		genCtx := c.ctx
		if c.timeout > 0 {
			var cancel context.CancelFunc
			genCtx, cancel = context.WithTimeout(genCtx, c.timeout)
			defer cancel()
		}

		result, err := c.generate(genCtx, slug)
		if err != nil {
			return core.PageResult{}, err
		}
		c.store(slug, result)
		return result, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return core.PageResult{Slug: slug}, res.Err
		}
		return res.Val.(core.PageResult), nil
	case <-ctx.Done():
		return core.PageResult{Slug: slug}, ctx.Err()
	}
}

func (c *PageCache) store(slug string, result core.PageResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if result.Found() {
		c.entries[slug] = result
		return
	}
	delete(c.entries, slug)
}

func (c *PageCache) revalidate(slug string) {
	c.mu.Lock()
	if c.closed || c.revalidating[slug] {
		c.mu.Unlock()
		return
	}
	c.revalidating[slug] = true
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()
		defer func() {
			c.mu.Lock()
			delete(c.revalidating, slug)
			c.mu.Unlock()
		}()

		result, err := c.load(c.ctx, slug)
		if err != nil {
			c.logger.Error("background regeneration failed, keeping stale page", "slug", slug, "error", err)
			return
		}
		c.logger.Debug("page regenerated", "slug", slug, "outcome", result.Outcome.String())
	}()
}
