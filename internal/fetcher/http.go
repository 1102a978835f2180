package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/118.0.0.0 Safari/537.36"

// HTTPOptions parameterise the plain HTTP fetcher.
type HTTPOptions struct {
	Timeout   time.Duration
	UserAgent string
}

// HTTP fetches pages with a single GET request.
type HTTP struct {
	opts   HTTPOptions
	client *http.Client
	logger zerolog.Logger
}

// NewHTTP constructs an HTTP fetcher.
func NewHTTP(opts HTTPOptions, logger zerolog.Logger) *HTTP {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 12 * time.Second
	}
	return &HTTP{
		opts:   opts,
		client: &http.Client{Timeout: timeout},
		logger: logger.With().Str("component", "http_fetcher").Logger(),
	}
}

// Fetch implements PageFetcher.
func (h *HTTP) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	if ua := strings.TrimSpace(h.opts.UserAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
	} else {
		req.Header.Set("User-Agent", defaultUserAgent)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("http status %d for %s", resp.StatusCode, url)
	}

	h.logger.Debug().Str("url", url).Int("bytes", len(body)).Msg("page downloaded")
	return string(body), nil
}

var _ PageFetcher = (*HTTP)(nil)
