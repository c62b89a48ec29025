package imagesearch

import (
	"errors"
	"fmt"
)

var (
	// ErrNoResults means the search backend returned no usable candidate links.
	ErrNoResults = errors.New("no image results")
	// ErrBlockedDomain marks a candidate whose URL matches the blocklist.
	ErrBlockedDomain = errors.New("blocked image domain")
	// ErrUnsupportedFormat marks downloaded bytes that are not JPEG, PNG or GIF.
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrImageTooLarge marks a download exceeding the configured size cap.
	ErrImageTooLarge = errors.New("image too large")
	// ErrEmptyQuery is returned for blank search queries.
	ErrEmptyQuery = errors.New("empty image query")
)

// FetchError is the failure outcome of one FetchOne call. Err holds the reason
// of the last rejected candidate, or ErrNoResults when nothing was tried.
type FetchError struct {
	Query      string
	Candidates int
	Err        error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("image fetch for %q failed after %d candidates: %v", e.Query, e.Candidates, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
