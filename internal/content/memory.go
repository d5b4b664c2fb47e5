package content

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/3-lines-studio/postpage/internal/core"
)

// Memory is an in-process content store with the same contract as Client.
type Memory struct {
	mu      sync.RWMutex
	posts   map[string]core.Post
	failErr error
	calls   int
}

func NewMemory(posts ...core.Post) *Memory {
	m := &Memory{posts: make(map[string]core.Post, len(posts))}
	for _, post := range posts {
		m.posts[post.Slug] = post
	}
	return m
}

// LoadFixtures reads a JSON array of posts, shaped like the content API
// response.
func LoadFixtures(path string) (*Memory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures %s: %w", path, err)
	}

	var posts []core.Post
	if err := json.Unmarshal(data, &posts); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures %s: %w", path, err)
	}

	return NewMemory(posts...), nil
}

func (m *Memory) Put(post core.Post) {
	m.mu.Lock()
	m.posts[post.Slug] = post
	m.mu.Unlock()
}

func (m *Memory) Delete(slug string) {
	m.mu.Lock()
	delete(m.posts, slug)
	m.mu.Unlock()
}

// FailWith makes every following GetPost fail with err; nil restores normal
// behavior.
func (m *Memory) FailWith(err error) {
	m.mu.Lock()
	m.failErr = err
	m.mu.Unlock()
}

func (m *Memory) Calls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls
}

func (m *Memory) GetPost(ctx context.Context, slug string) (*core.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	if err := ctx.Err(); err != nil {
		return nil, &core.FetchError{Slug: slug, Err: err}
	}
	if m.failErr != nil {
		return nil, &core.FetchError{Slug: slug, Err: m.failErr}
	}

	post, ok := m.posts[slug]
	if !ok {
		return nil, core.ErrPostNotFound
	}
	return &post, nil
}
