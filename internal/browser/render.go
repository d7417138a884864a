// Package browser renders pages in headless Chrome.
package browser

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
)

// DefaultUserAgent is sent when Options.UserAgent is empty.
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// Options control a single render.
type Options struct {
	UserAgent string
	// SettleDelay is waited after the body is ready so client-side scripts
	// can fill the page.
	SettleDelay time.Duration
	Screenshot  bool
}

// Page is the rendered document.
type Page struct {
	HTML       string
	Screenshot []byte
}

// Render navigates to target in a fresh headless browser and returns the
// outer HTML. Whatever was captured before a failure is returned with the error.
func Render(ctx context.Context, target string, opts Options) (Page, error) {
	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.UserAgent(ua),
	)
	actx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()
	bctx, cancelBrowser := chromedp.NewContext(actx)
	defer cancelBrowser()

	var page Page
	actions := []chromedp.Action{
		chromedp.Navigate(target),
		chromedp.WaitReady("body", chromedp.ByQuery),
	}
	if opts.SettleDelay > 0 {
		actions = append(actions, chromedp.Sleep(opts.SettleDelay))
	}
	actions = append(actions, chromedp.OuterHTML("html", &page.HTML, chromedp.ByQuery))
	if opts.Screenshot {
		actions = append(actions, chromedp.CaptureScreenshot(&page.Screenshot))
	}
	err := chromedp.Run(bctx, actions...)
	return page, err
}
