package fetch

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/chromedp"
)

// MinContentLength is the description length a static fetch must exceed before the
// headless browser is skipped.
const MinContentLength = 500

// DefaultRenderTimeout bounds one headless browser render
const DefaultRenderTimeout = 30 * time.Second

// BrowserRenderer renders pages in headless Chrome for sites that build their content
// with JavaScript. Requires Chrome or Chromium on the host.
type BrowserRenderer struct {
	Timeout   time.Duration
	Settle    time.Duration
	UserAgent string
}

// NewBrowserRenderer creates a renderer with the given per-page timeout
func NewBrowserRenderer(timeout time.Duration) *BrowserRenderer {
	if timeout <= 0 {
		timeout = DefaultRenderTimeout
	}
	return &BrowserRenderer{
		Timeout:   timeout,
		Settle:    2 * time.Second,
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	}
}

// Render navigates to url and returns the rendered HTML
func (b *BrowserRenderer) Render(ctx context.Context, url string) (string, error) {
	log.Printf("[fetch] rendering %s in headless browser", url)

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-setuid-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(b.UserAgent),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, b.Timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(b.Settle),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}

	log.Printf("[fetch] rendered %s: %d bytes", url, len(html))
	return html, nil
}
