package core

import (
	"fmt"
	"strings"
	"time"
)

// CacheControl lets shared caches keep a page for staleAfter and serve it
// stale while they fetch a fresh copy.
func CacheControl(staleAfter time.Duration) string {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	return fmt.Sprintf("s-maxage=%d, stale-while-revalidate", int(staleAfter/time.Second))
}

// ETagMatches reports whether an If-None-Match header value matches etag.
// Weak validators compare equal to their strong form.
func ETagMatches(header, etag string) bool {
	if header == "" || etag == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}
