package core

import "time"

type Fallback int

const (
	// FallbackBlocking generates unlisted slugs on first request; the caller
	// waits for the generation.
	FallbackBlocking Fallback = iota
	// FallbackNone answers NotFound for every slug that was not prerendered.
	FallbackNone
)

func (f Fallback) String() string {
	switch f {
	case FallbackNone:
		return "none"
	default:
		return "blocking"
	}
}

func ParseFallback(s string) (Fallback, bool) {
	switch s {
	case "", "blocking":
		return FallbackBlocking, true
	case "none", "false":
		return FallbackNone, true
	}
	return FallbackBlocking, false
}

type StaticPaths struct {
	Slugs    []string
	Fallback Fallback
}

func (p StaticPaths) Contains(slug string) bool {
	for _, s := range p.Slugs {
		if s == slug {
			return true
		}
	}
	return false
}

type LoadResult struct {
	Found      bool
	Post       *Post
	StaleAfter time.Duration
}

type Outcome int

const (
	OutcomeNotFound Outcome = iota
	OutcomeRendered
)

func (o Outcome) String() string {
	if o == OutcomeRendered {
		return "rendered"
	}
	return "not-found"
}

type PageResult struct {
	Slug        string
	Outcome     Outcome
	HTML        []byte
	ETag        string
	GeneratedAt time.Time
	StaleAfter  time.Duration
}

func (r PageResult) Found() bool {
	return r.Outcome == OutcomeRendered
}

// StaleAt is the instant after which the page should be regenerated.
func (r PageResult) StaleAt() time.Time {
	return r.GeneratedAt.Add(r.StaleAfter)
}
