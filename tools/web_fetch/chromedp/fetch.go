package chromedp

import (
	"context"
	"fmt"
	"time"

	"github.com/mohammad-safakhou/factcheck/internal/browser"
	"github.com/mohammad-safakhou/factcheck/tools/web_fetch/models"
	"github.com/mohammad-safakhou/factcheck/tools/web_fetch/readable"
)

// RenderFunc renders a URL to HTML.
type RenderFunc func(ctx context.Context, target string, opts browser.Options) (browser.Page, error)

// Fetch renders pages in headless Chrome before extracting their text.
type Fetch struct {
	Timeout   time.Duration
	MaxChars  int
	UserAgent string
	Render    RenderFunc
}

func (f Fetch) Exec(ctx context.Context, url string) (models.Result, error) {
	u, err := readable.CheckURL(url)
	if err != nil {
		return models.Result{}, err
	}

	timeout := f.Timeout
	if timeout <= 0 {
		timeout = models.DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	t0 := time.Now()

	render := f.Render
	if render == nil {
		render = browser.Render
	}
	page, err := render(ctx, u.String(), browser.Options{UserAgent: f.UserAgent})
	elapsed := int(time.Since(t0) / time.Millisecond)
	if err != nil {
		return models.Result{URL: url, Status: 599, RenderMS: elapsed}, fmt.Errorf("%w: render %s: %v", models.ErrFetchFailed, url, err)
	}

	article, err := readable.Extract(page.HTML, u, f.MaxChars)
	if err != nil {
		return models.Result{URL: url, Status: 200, RenderMS: elapsed}, err
	}
	return models.Result{
		URL:      url,
		Title:    article.Title,
		Byline:   article.Byline,
		Text:     article.Text,
		Status:   200,
		RenderMS: elapsed,
	}, nil
}
