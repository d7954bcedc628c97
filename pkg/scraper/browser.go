package scraper

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/chromedp/chromedp"
)

// BrowserFetcher renders pages in headless Chrome. The episodes dialog loads
// its rows lazily, so the dialog is scrolled to the bottom before the page is read.
type BrowserFetcher struct {
	// RemoteURL points at the debugging endpoint of a running Chrome. When
	// empty a local headless Chrome is started for every fetch.
	RemoteURL      string
	SettleDelay    time.Duration
	ScrollSelector string
	ScrollSteps    int
	ScrollSettle   time.Duration
	Timeout        time.Duration
}

// NewBrowserFetcher creates a BrowserFetcher with the delays the episodes dialog needs
func NewBrowserFetcher(remoteURL string) *BrowserFetcher {
	return &BrowserFetcher{
		RemoteURL:      remoteURL,
		SettleDelay:    2 * time.Second,
		ScrollSelector: "div.mdc-dialog__surface",
		ScrollSteps:    100,
		ScrollSettle:   1 * time.Second,
		Timeout:        90 * time.Second,
	}
}

// Fetch loads url, scrolls the results and returns the rendered document
func (b *BrowserFetcher) Fetch(ctx context.Context, url string) (string, error) {
	var (
		allocCtx context.Context
		cancel   context.CancelFunc
	)
	if b.RemoteURL != "" {
		allocCtx, cancel = chromedp.NewRemoteAllocator(ctx, b.RemoteURL)
	} else {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.NoSandbox,
			chromedp.Flag("disable-dev-shm-usage", true),
		)
		allocCtx, cancel = chromedp.NewExecAllocator(ctx, opts...)
	}
	defer cancel()

	taskCtx, cancelTask := chromedp.NewContext(allocCtx, chromedp.WithLogf(log.Printf))
	defer cancelTask()

	if b.Timeout > 0 {
		var cancelTimeout context.CancelFunc
		taskCtx, cancelTimeout = context.WithTimeout(taskCtx, b.Timeout)
		defer cancelTimeout()
	}

	log.Printf("Loading submission page: %s", url)
	var htmlContent string
	err := chromedp.Run(taskCtx,
		chromedp.Navigate(url),
		chromedp.Sleep(b.SettleDelay),
		b.scrollResults(),
		chromedp.Sleep(b.ScrollSettle),
		chromedp.OuterHTML("html", &htmlContent, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("error rendering page: %w", err)
	}

	log.Printf("Rendered page (%d bytes)", len(htmlContent))
	return htmlContent, nil
}

// scrollResults scrolls the episodes dialog to its bottom ScrollSteps times
func (b *BrowserFetcher) scrollResults() chromedp.ActionFunc {
	script := scrollScript(b.ScrollSelector)
	return func(ctx context.Context) error {
		log.Println("Scrolling results...")
		for i := 0; i < b.ScrollSteps; i++ {
			var found bool
			if err := chromedp.Evaluate(script, &found).Do(ctx); err != nil {
				return fmt.Errorf("error scrolling results: %w", err)
			}
			if !found {
				// A wrong submission ID opens no dialog; the parser reports it
				log.Printf("No element matches %s, skipping scroll", b.ScrollSelector)
				return nil
			}
		}
		return nil
	}
}

func scrollScript(selector string) string {
	return `(() => {
	const el = document.querySelector(` + strconv.Quote(selector) + `);
	if (!el) return false;
	el.scrollTop = el.scrollHeight;
	return true;
})()`
}
