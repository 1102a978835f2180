package fetcher

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/rs/zerolog"
)

// PageFetcher retrieves the raw HTML of one odds page.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// ErrInsufficient marks a page that loaded but carries too little odds content.
var ErrInsufficient = errors.New("insufficient page content")

// Defaults for the content check.
const (
	DefaultMinBytes    = 18000
	DefaultMinDecimals = 10
)

var oddsCell = regexp.MustCompile(`>\s*\d+\.\d{2}\s*<`)

// Sufficient reports whether html is large enough and shows more than
// minDecimals odds-like cells. Non-positive limits fall back to the defaults.
func Sufficient(html string, minBytes, minDecimals int) bool {
	if minBytes <= 0 {
		minBytes = DefaultMinBytes
	}
	if minDecimals <= 0 {
		minDecimals = DefaultMinDecimals
	}
	if len(html) <= minBytes {
		return false
	}
	return len(oddsCell.FindAllStringIndex(html, minDecimals+1)) > minDecimals
}

// FallbackOptions tune the fallback chain.
type FallbackOptions struct {
	MinBytes    int
	MinDecimals int
	Attempts    int
	RetryDelay  time.Duration
}

// Fallback tries each fetcher in order and returns the first sufficient page.
// The whole chain is retried up to Attempts times.
type Fallback struct {
	fetchers []PageFetcher
	opts     FallbackOptions
	logger   zerolog.Logger
}

// NewFallback constructs a fallback chain over fetchers.
func NewFallback(opts FallbackOptions, logger zerolog.Logger, fetchers ...PageFetcher) *Fallback {
	if opts.Attempts <= 0 {
		opts.Attempts = 1
	}
	return &Fallback{
		fetchers: fetchers,
		opts:     opts,
		logger:   logger.With().Str("component", "fetch_fallback").Logger(),
	}
}

// Fetch implements PageFetcher.
func (f *Fallback) Fetch(ctx context.Context, url string) (string, error) {
	if len(f.fetchers) == 0 {
		return "", errors.New("no fetchers configured")
	}

	var lastErr error
	for attempt := 1; attempt <= f.opts.Attempts; attempt++ {
		for i, pf := range f.fetchers {
			html, err := pf.Fetch(ctx, url)
			if err == nil && !Sufficient(html, f.opts.MinBytes, f.opts.MinDecimals) {
				err = fmt.Errorf("%w: %d bytes", ErrInsufficient, len(html))
			}
			if err == nil {
				f.logger.Debug().Str("url", url).Int("fetcher", i).Int("attempt", attempt).Int("bytes", len(html)).Msg("page fetched")
				return html, nil
			}
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			lastErr = err
			f.logger.Warn().Err(err).Str("url", url).Int("fetcher", i).Int("attempt", attempt).Msg("fetch attempt failed")
		}

		if attempt < f.opts.Attempts && f.opts.RetryDelay > 0 {
			timer := time.NewTimer(f.opts.RetryDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return "", ctx.Err()
			case <-timer.C:
			}
		}
	}
	return "", fmt.Errorf("fetch %s: %w", url, lastErr)
}

var _ PageFetcher = (*Fallback)(nil)
