package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const (
	// navigationTimeout bounds the whole render, navigation and scrolling
	// included.
	navigationTimeout = 60 * time.Second
	// scrollPause gives lazy content and in-flight requests time to settle
	// between scroll steps.
	scrollPause = 1500 * time.Millisecond
	// maxScrollIterations caps the scroll loop so infinite-scroll pages
	// terminate. Height convergence is a heuristic, not a guarantee.
	maxScrollIterations = 20

	// A realistic desktop user agent; headless defaults get blocked by many
	// sites.
	desktopUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// ChromeRenderer drives a headless Chrome instance to load a URL, let dynamic
// content settle, and return the fully rendered HTML.
type ChromeRenderer struct {
	log *zap.Logger
}

// NewChromeRenderer creates a renderer. Each Render call launches an isolated,
// cookie-free browser context so nothing leaks across requests.
func NewChromeRenderer(log *zap.Logger) *ChromeRenderer {
	return &ChromeRenderer{log: log}
}

// Render navigates to pageURL, scrolls to the bottom until the document
// height stabilizes, and returns the serialized HTML. The browser process and
// every derived context are released on all exit paths.
func (r *ChromeRenderer) Render(ctx context.Context, pageURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, navigationTimeout)
	defer cancel()

	// "no-sandbox" and "disable-dev-shm-usage" keep Chrome stable in
	// container environments.
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(desktopUserAgent),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	taskCtx, cancelTask := chromedp.NewContext(allocCtx)
	defer cancelTask()

	r.log.Info("rendering page", zap.String("url", pageURL))

	var html string
	err := chromedp.Run(taskCtx,
		navigateWaitDOM(pageURL),
		scrollToBottom(),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", pageURL, err)
	}
	return html, nil
}

// navigateWaitDOM navigates and waits only for DOMContentLoaded rather than
// the full load event, bounding latency on pages that stream resources
// forever. The scroll loop picks up anything that arrives afterwards.
func navigateWaitDOM(urlstr string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		ch := make(chan struct{}, 1)
		lctx, cancel := context.WithCancel(ctx)
		defer cancel()
		chromedp.ListenTarget(lctx, func(ev interface{}) {
			if _, ok := ev.(*page.EventDomContentEventFired); ok {
				select {
				case ch <- struct{}{}:
				default:
				}
			}
		})

		if _, _, _, err := page.Navigate(urlstr).Do(ctx); err != nil {
			return err
		}

		select {
		case <-ch:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
}

// scrollToBottom repeatedly scrolls to the current document bottom until the
// height measures the same twice in a row, or the iteration cap is hit.
func scrollToBottom() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		var lastHeight int64
		if err := chromedp.Evaluate("document.body.scrollHeight", &lastHeight).Do(ctx); err != nil {
			return err
		}

		for i := 0; i < maxScrollIterations; i++ {
			if err := chromedp.Evaluate("window.scrollTo(0, document.body.scrollHeight)", nil).Do(ctx); err != nil {
				return err
			}
			if err := chromedp.Sleep(scrollPause).Do(ctx); err != nil {
				return err
			}

			var newHeight int64
			if err := chromedp.Evaluate("document.body.scrollHeight", &newHeight).Do(ctx); err != nil {
				return err
			}
			if newHeight == lastHeight {
				break
			}
			lastHeight = newHeight
		}
		return nil
	})
}
