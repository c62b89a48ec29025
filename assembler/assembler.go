// Package assembler turns scanned completion text into outline documents and
// slide decks, resolving image tags through an ImageFetcher.
//
// Image lookups are best effort: a failed fetch leaves the picture out and
// the document is still produced. Assembly fails only when the completion
// has no tags or the result cannot be named.
package assembler

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"auto_presentation_generator/imagesearch"
	"auto_presentation_generator/logger"
	"auto_presentation_generator/metrics"
)

var (
	// ErrEmptyResponse means the completion contained no recognizable tags.
	ErrEmptyResponse = errors.New("completion contained no tags")
	// ErrMissingTitle means no title could be derived to name the file.
	ErrMissingTitle = errors.New("document has no title")
)

const (
	DefaultOutlineFilter = "wide,wallpaper,photo"
	DefaultDeckFilter    = "wide,wallpaper"
	DefaultConcurrency   = 4
	DefaultPictureWidth  = 6.0
)

// ImageFetcher resolves one image for a text query. *imagesearch.Resolver
// satisfies it.
type ImageFetcher interface {
	FetchOne(ctx context.Context, query string, opts imagesearch.FetchOptions) (*imagesearch.Image, error)
}

// Config tunes image handling. Zero values take the package defaults.
type Config struct {
	OutlineFilter  string
	DeckFilter     string
	FetchTimeout   time.Duration
	AdultFilterOff bool
	// Concurrency bounds simultaneous image lookups within one document.
	Concurrency int
	// PictureWidth is the outline picture width in inches.
	PictureWidth float64
}

func (c *Config) setDefaults() {
	if c.OutlineFilter == "" {
		c.OutlineFilter = DefaultOutlineFilter
	}
	if c.DeckFilter == "" {
		c.DeckFilter = DefaultDeckFilter
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = imagesearch.DefaultTimeout
	}
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.PictureWidth <= 0 {
		c.PictureWidth = DefaultPictureWidth
	}
}

// Assembler builds documents. It keeps no per-document state, so a single
// Assembler serves concurrent requests.
type Assembler struct {
	images  ImageFetcher
	cfg     Config
	log     logger.Logger
	metrics *metrics.Metrics
}

// New creates an Assembler. A nil images fetcher skips every picture; nil
// log and metrics disable logging and instrumentation.
func New(images ImageFetcher, cfg Config, log logger.Logger, m *metrics.Metrics) *Assembler {
	if log == nil {
		log = logger.NewNop()
	}
	cfg.setDefaults()
	return &Assembler{images: images, cfg: cfg, log: log, metrics: m}
}

// fetchAll resolves queries concurrently and returns results by index.
// A nil entry means the lookup failed and the picture is left out.
func (a *Assembler) fetchAll(ctx context.Context, queries []string, filter string) []*imagesearch.Image {
	out := make([]*imagesearch.Image, len(queries))
	if a.images == nil || len(queries) == 0 {
		return out
	}
	opts := imagesearch.FetchOptions{
		Timeout:        a.cfg.FetchTimeout,
		Filter:         filter,
		AdultFilterOff: a.cfg.AdultFilterOff,
	}

	var g errgroup.Group
	g.SetLimit(a.cfg.Concurrency)
	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			start := time.Now()
			img, err := a.images.FetchOne(ctx, q, opts)
			a.metrics.RecordImageFetch(err == nil, time.Since(start))
			if err != nil {
				log := a.log.Warn
				if !imagesearch.IsFetchFailure(err) {
					// not a lookup outcome; the fetcher misbehaved
					log = a.log.Error
				}
				log("image fetch failed, leaving picture out",
					logger.String("query", q),
					logger.Error(err))
				return nil
			}
			a.log.Debug("image fetched",
				logger.String("query", q),
				logger.String("url", img.URL),
				logger.String("format", string(img.Format)))
			out[i] = img
			return nil
		})
	}
	_ = g.Wait()
	return out
}
