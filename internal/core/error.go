package core

import (
	"errors"
	"fmt"
)

var ErrPostNotFound = errors.New("post not found")

// FetchError reports a failed query against the content API. Visitors never
// see it; it only reaches the logs.
type FetchError struct {
	Slug string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch post %q: %v", e.Slug, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func IsFetchError(err error) bool {
	var fetchErr *FetchError
	return errors.As(err, &fetchErr)
}
