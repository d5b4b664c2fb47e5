// Package postpage serves the open blog post pages of the site: each post is
// generated from the content API, cached, and regenerated in the background
// once it goes stale.
package postpage

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/3-lines-studio/postpage/internal/adapters/cli"
	httpadapter "github.com/3-lines-studio/postpage/internal/adapters/http"
	"github.com/3-lines-studio/postpage/internal/adapters/lambda"
	"github.com/3-lines-studio/postpage/internal/cache"
	"github.com/3-lines-studio/postpage/internal/clock"
	"github.com/3-lines-studio/postpage/internal/config"
	"github.com/3-lines-studio/postpage/internal/content"
	"github.com/3-lines-studio/postpage/internal/core"
	"github.com/3-lines-studio/postpage/internal/page"
	"github.com/3-lines-studio/postpage/internal/usecase"
)

type App struct {
	cfg      *config.Config
	logger   *slog.Logger
	clock    clock.Clock
	public   fs.FS
	content  usecase.ContentClient
	renderer *page.Renderer
	posts    *usecase.PostService
	pages    *cache.PageCache
}

type Option func(*App)

// WithContentClient replaces the client built from the configuration.
func WithContentClient(client usecase.ContentClient) Option {
	return func(a *App) {
		a.content = client
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

func WithClock(c clock.Clock) Option {
	return func(a *App) {
		a.clock = c
	}
}

func WithPublicFS(public fs.FS) Option {
	return func(a *App) {
		a.public = public
	}
}

func New(cfg *config.Config, opts ...Option) (*App, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	app := &App{
		cfg:    cfg,
		logger: slog.Default(),
		clock:  clock.NewReal(),
		public: page.PublicFS(),
	}
	for _, opt := range opts {
		opt(app)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	if app.content == nil {
		client, err := NewContentClient(cfg, app.logger)
		if err != nil {
			return nil, err
		}
		app.content = client
	}

	app.renderer = page.NewRenderer(
		page.WithLocation(loc),
		page.WithSiteName(cfg.Site.Name),
		page.WithLogger(app.logger),
	)

	app.posts = usecase.NewPostService(app.content, app.renderer, usecase.PostServiceConfig{
		Prerender:  cfg.Pages.Prerender,
		Fallback:   cfg.Fallback(),
		StaleAfter: cfg.StaleAfter(),
	}, usecase.WithClock(app.clock), usecase.WithLogger(app.logger))

	app.pages = cache.New(app.posts.Generate,
		cache.WithClock(app.clock),
		cache.WithLogger(app.logger),
		cache.WithTimeout(cfg.RenderTimeout()),
	)

	return app, nil
}

// NewContentClient builds the content source the configuration names: the
// fixtures file when set, the GraphQL API otherwise.
func NewContentClient(cfg *config.Config, logger *slog.Logger) (usecase.ContentClient, error) {
	if cfg.Content.Fixtures != "" {
		mem, err := content.LoadFixtures(cfg.Content.Fixtures)
		if err != nil {
			return nil, err
		}
		logger.Info("serving posts from fixtures", "path", cfg.Content.Fixtures)
		return mem, nil
	}

	if cfg.Content.Endpoint == "" {
		return nil, fmt.Errorf("content endpoint not configured")
	}

	return content.NewClient(cfg.Content.Endpoint,
		content.WithToken(cfg.Content.Token),
		content.WithTimeout(cfg.ContentTimeout()),
		content.WithLogger(logger),
	), nil
}

// Wrap registers the post routes on an existing router and returns the
// handler to serve, with the public files in front of it.
func (a *App) Wrap(r chi.Router) http.Handler {
	if r == nil {
		panic("postpage: nil router passed to Wrap; use app.Handler()")
	}

	return httpadapter.Mount(r, httpadapter.RouterConfig{
		BasePath:         a.cfg.Pages.BasePath,
		Pages:            a.pages,
		Refresher:        a.pages,
		NotFound:         a.renderer,
		Public:           a.public,
		RevalidateSecret: a.cfg.Pages.RevalidateSecret,
		IsDev:            a.cfg.Dev,
		Logger:           a.logger,
	})
}

func (a *App) Handler() http.Handler {
	return a.Wrap(chi.NewRouter())
}

func (a *App) LambdaHandler() *lambda.Handler {
	return lambda.NewHandler(a.pages, a.renderer, a.cfg.Pages.BasePath, a.cfg.Dev, a.logger)
}

// Prerender generates every listed path into the cache and returns how many
// were rendered.
func (a *App) Prerender(ctx context.Context) (int, error) {
	paths := a.posts.ResolvePathsToPrerender()
	rendered, err := a.pages.Warm(ctx, paths.Slugs, a.cfg.Export.Concurrency)
	if err != nil {
		return rendered, err
	}
	a.logger.Info("prerendered pages", "rendered", rendered, "listed", len(paths.Slugs), "fallback", paths.Fallback.String())
	return rendered, nil
}

// Export writes every listed page and the not-found page to store.
func (a *App) Export(ctx context.Context, store usecase.PageStore, output usecase.CLIOutput) usecase.ExportOutput {
	if output == nil {
		output = cli.NewOutput()
	}
	exporter := usecase.NewExportService(a.posts, store, output)
	return exporter.ExportStatic(ctx, usecase.ExportInput{
		BasePath:    a.cfg.Pages.BasePath,
		Concurrency: a.cfg.Export.Concurrency,
	})
}

func (a *App) Paths() core.StaticPaths {
	return a.posts.ResolvePathsToPrerender()
}

// Stop waits for background regenerations to finish.
func (a *App) Stop() error {
	a.pages.Close()
	return nil
}
