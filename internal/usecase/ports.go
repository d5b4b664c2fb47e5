package usecase

import (
	"context"

	"github.com/3-lines-studio/postpage/internal/core"
)

// ContentClient returns core.ErrPostNotFound when the content store has no
// post for slug and a *core.FetchError when the query itself failed.
type ContentClient interface {
	GetPost(ctx context.Context, slug string) (*core.Post, error)
}

type PageRenderer interface {
	RenderPost(post *core.Post) ([]byte, error)
	RenderNotFound() ([]byte, error)
}

type PageStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
}

type CLIOutput interface {
	PrintHeader(msg string)
	PrintStep(emoji, msg string, args ...any)
	PrintSuccess(msg string, args ...any)
	PrintWarning(msg string, args ...any)
	PrintError(msg string, args ...any)
	PrintFile(path string)
	PrintDone(msg string)
}
