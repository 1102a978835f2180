package fetcher

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"
)

// BrowserOptions configure the headless Chrome fetcher.
type BrowserOptions struct {
	Timeout     time.Duration
	UserAgent   string
	ExecPath    string
	ScrollSteps int
	ScrollPause time.Duration
	SettleDelay time.Duration
}

// Browser renders pages in headless Chrome so script-built odds tables are
// present in the returned HTML.
type Browser struct {
	opts   BrowserOptions
	logger zerolog.Logger
}

// NewBrowser constructs a browser fetcher.
func NewBrowser(opts BrowserOptions, logger zerolog.Logger) *Browser {
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.ScrollPause <= 0 {
		opts.ScrollPause = time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	return &Browser{opts: opts, logger: logger.With().Str("component", "browser_fetcher").Logger()}
}

func (b *Browser) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(b.opts.UserAgent),
	)
	if b.opts.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(b.opts.ExecPath))
	}
	return opts
}

// Fetch implements PageFetcher.
func (b *Browser) Fetch(ctx context.Context, url string) (string, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, b.allocatorOptions()...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancel := context.WithTimeout(browserCtx, b.opts.Timeout)
	defer cancel()

	actions := []chromedp.Action{
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	}
	if b.opts.SettleDelay > 0 {
		actions = append(actions, chromedp.Sleep(b.opts.SettleDelay))
	}
	for i := 0; i < b.opts.ScrollSteps; i++ {
		actions = append(actions,
			chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight);`, nil),
			chromedp.Sleep(b.opts.ScrollPause),
		)
	}
	if b.opts.ScrollSteps > 0 {
		actions = append(actions, chromedp.Evaluate(`window.scrollTo(0, 0);`, nil))
	}

	var html string
	actions = append(actions, chromedp.OuterHTML("html", &html, chromedp.ByQuery))

	if err := chromedp.Run(runCtx, actions...); err != nil {
		return "", fmt.Errorf("render %s: %w", url, err)
	}

	b.logger.Debug().Str("url", url).Int("bytes", len(html)).Int("scroll_steps", b.opts.ScrollSteps).Msg("page rendered")
	return html, nil
}

var _ PageFetcher = (*Browser)(nil)
