package imagesearch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	backoff "github.com/cenkalti/backoff/v4"

	"auto_presentation_generator/logger"
)

const (
	DefaultSearchAttempts = 3
	DefaultRetryInterval  = 250 * time.Millisecond
)

// searchError is a search page request that failed before the page could
// be parsed. Status is 0 when no response arrived.
type searchError struct {
	Status int
	Err    error
}

func (e *searchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("image search: unexpected status %d", e.Status)
	}
	return fmt.Sprintf("image search request: %v", e.Err)
}

func (e *searchError) Unwrap() error { return e.Err }

// retryable reports whether another attempt at the same page may succeed:
// transport failures, 429 and 5xx.
func retryable(err error) bool {
	var se *searchError
	if !errors.As(err, &se) {
		return false
	}
	return se.Status == 0 || se.Status == http.StatusTooManyRequests || se.Status >= 500
}

// searchPageWithRetry requests one results page, retrying transient
// failures up to SearchAttempts times in total with exponential backoff.
func (r *Resolver) searchPageWithRetry(ctx context.Context, query string, first, count int, opts FetchOptions) ([]string, error) {
	op := func() ([]string, error) {
		links, err := r.searchPage(ctx, query, first, count, opts)
		if err != nil && !retryable(err) {
			return nil, backoff.Permanent(err)
		}
		return links, err
	}
	b := backoff.NewExponentialBackOff(backoff.WithInitialInterval(r.cfg.RetryInterval))
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(r.cfg.SearchAttempts-1)), ctx)

	return backoff.RetryNotifyWithData(op, policy, func(err error, wait time.Duration) {
		r.log.Debug("image search failed, retrying",
			logger.String("query", query),
			logger.Int("first", first),
			logger.Duration("wait", wait),
			logger.Error(err))
	})
}
