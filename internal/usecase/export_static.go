package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/3-lines-studio/postpage/internal/core"
)

const NotFoundFile = "404.html"

type ExportInput struct {
	BasePath    string
	Concurrency int
}

type ExportOutput struct {
	Written []string
	Missing []string
	Error   error
}

type ExportService struct {
	posts  *PostService
	store  PageStore
	output CLIOutput
}

func NewExportService(posts *PostService, store PageStore, output CLIOutput) *ExportService {
	return &ExportService{
		posts:  posts,
		store:  store,
		output: output,
	}
}

// ExportStatic generates every prerender path and writes the pages plus the
// not-found page to the store. Slugs without a post are reported, not fatal.
func (s *ExportService) ExportStatic(ctx context.Context, input ExportInput) ExportOutput {
	basePath := input.BasePath
	if basePath == "" {
		basePath = core.DefaultBasePath
	}
	concurrency := input.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	paths := s.posts.ResolvePathsToPrerender()
	s.output.PrintStep("", "Exporting %d page(s)", len(paths.Slugs))

	var (
		mu      sync.Mutex
		written []string
		missing []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, slug := range paths.Slugs {
		g.Go(func() error {
			result, err := s.posts.Generate(gctx, slug)
			if err != nil {
				return err
			}
			if !result.Found() {
				mu.Lock()
				missing = append(missing, slug)
				mu.Unlock()
				return nil
			}

			key := core.ExportFile(basePath, slug)
			if err := s.store.Put(gctx, key, result.HTML, core.GetContentType(key)); err != nil {
				return fmt.Errorf("failed to write %s: %w", key, err)
			}

			mu.Lock()
			written = append(written, key)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return ExportOutput{Error: err}
	}

	notFound, err := s.posts.RenderNotFound()
	if err != nil {
		return ExportOutput{Error: fmt.Errorf("failed to render not found page: %w", err)}
	}
	if err := s.store.Put(ctx, NotFoundFile, notFound, core.GetContentType(NotFoundFile)); err != nil {
		return ExportOutput{Error: fmt.Errorf("failed to write %s: %w", NotFoundFile, err)}
	}
	written = append(written, NotFoundFile)

	sort.Strings(written)
	sort.Strings(missing)

	for _, key := range written {
		s.output.PrintFile(key)
	}
	for _, slug := range missing {
		s.output.PrintWarning("post %q not found, skipped", slug)
	}

	return ExportOutput{
		Written: written,
		Missing: missing,
	}
}
