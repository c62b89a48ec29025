// Package imagesearch finds and downloads one acceptable image for a text query
// using the Bing image search async endpoint.
package imagesearch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"auto_presentation_generator/logger"
)

const (
	DefaultSearchURL     = "https://www.bing.com/images/async"
	DefaultMaxPages      = 10
	DefaultMaxImageBytes = 20 << 20
	DefaultTimeout       = 15 * time.Second

	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_10_1) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/39.0.2171.95 Safari/537.36"
)

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config tunes a Resolver. Zero values take the package defaults.
type Config struct {
	SearchURL     string
	MaxPages      int
	MaxImageBytes int64
	Blocklist     []string
	// SearchAttempts bounds tries per results page, the first included.
	SearchAttempts int
	RetryInterval  time.Duration
}

func (c *Config) setDefaults() {
	if c.SearchURL == "" {
		c.SearchURL = DefaultSearchURL
	}
	if c.MaxPages <= 0 {
		c.MaxPages = DefaultMaxPages
	}
	if c.MaxImageBytes <= 0 {
		c.MaxImageBytes = DefaultMaxImageBytes
	}
	if c.Blocklist == nil {
		c.Blocklist = DefaultBlocklist
	}
	if c.SearchAttempts <= 0 {
		c.SearchAttempts = DefaultSearchAttempts
	}
	if c.RetryInterval <= 0 {
		c.RetryInterval = DefaultRetryInterval
	}
}

// FetchOptions are per-call search parameters.
type FetchOptions struct {
	// Timeout bounds each search page request and each candidate download.
	Timeout time.Duration
	// Filter is a shorthand list understood by ResolveFilter.
	Filter string
	// AdultFilterOff disables the backend's adult content filter.
	AdultFilterOff bool
}

// Resolver performs best-effort image lookups. It holds no per-query state,
// so one Resolver can serve concurrent calls.
type Resolver struct {
	client Doer
	cfg    Config
	log    logger.Logger
}

// New creates a Resolver. A nil client uses http.DefaultClient and a nil
// logger discards output.
func New(client Doer, cfg Config, log logger.Logger) *Resolver {
	if client == nil {
		client = http.DefaultClient
	}
	if log == nil {
		log = logger.NewNop()
	}
	cfg.setDefaults()
	return &Resolver{client: client, cfg: cfg, log: log}
}

// FetchOne returns the first candidate for query that is not blocklisted,
// downloads within the timeout and is a JPEG, PNG or GIF.
//
// Pages are requested one at a time; a page request that fails with a
// transport error, 429 or 5xx is retried with backoff up to SearchAttempts
// times. The search stops at the first accepted image, at a page that yields
// no new links, or after MaxPages pages.
// Failures are returned as *FetchError.
func (r *Resolver) FetchOne(ctx context.Context, query string, opts FetchOptions) (*Image, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, &FetchError{Query: query, Err: ErrEmptyQuery}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	const want = 1
	seen := make(map[string]struct{})
	lastErr := ErrNoResults
	candidates := 0
	offset := 0

	for page := 0; page < r.cfg.MaxPages; page++ {
		if err := ctx.Err(); err != nil {
			return nil, &FetchError{Query: query, Candidates: candidates, Err: err}
		}

		links, err := r.searchPageWithRetry(ctx, query, offset, want, opts)
		if err != nil {
			return nil, &FetchError{Query: query, Candidates: candidates, Err: err}
		}
		offset += len(links)
		r.log.Debug("indexed image page",
			logger.String("query", query),
			logger.Int("page", page+1),
			logger.Int("links", len(links)))

		fresh := 0
		for _, link := range links {
			if _, dup := seen[link]; dup {
				continue
			}
			seen[link] = struct{}{}
			fresh++
			candidates++

			img, err := r.download(ctx, link, opts.Timeout)
			if err != nil {
				r.log.Debug("image candidate rejected",
					logger.String("url", link),
					logger.Error(err))
				lastErr = err
				if ctx.Err() != nil {
					return nil, &FetchError{Query: query, Candidates: candidates, Err: ctx.Err()}
				}
				continue
			}
			return img, nil
		}
		if fresh == 0 {
			break
		}
	}
	return nil, &FetchError{Query: query, Candidates: candidates, Err: lastErr}
}

func (r *Resolver) download(ctx context.Context, link string, timeout time.Duration) (*Image, error) {
	if site, blocked := Blocked(link, r.cfg.Blocklist); blocked {
		return nil, fmt.Errorf("%w: %s", ErrBlockedDomain, site)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, r.cfg.MaxImageBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > r.cfg.MaxImageBytes {
		return nil, ErrImageTooLarge
	}
	return decodeImage(link, data)
}

// IsFetchFailure reports whether err is an image fetch outcome rather than
// a caller bug.
func IsFetchFailure(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}
