// Package bravehtml scrapes Brave Search result pages rendered in headless
// Chrome. It needs no API key.
package bravehtml

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/mohammad-safakhou/factcheck/internal/browser"
	"github.com/mohammad-safakhou/factcheck/tools/web_search/models"
)

const (
	DefaultEndpoint        = "https://search.brave.com/search"
	DefaultTimeout         = 30 * time.Second
	DefaultSettleDelay     = 3 * time.Second
	DefaultMaxSnippetChars = 500
)

// RenderFunc renders a URL to HTML.
type RenderFunc func(ctx context.Context, target string, opts browser.Options) (browser.Page, error)

// Search renders the results page and extracts organic results.
type Search struct {
	Endpoint        string
	Timeout         time.Duration
	SettleDelay     time.Duration
	MaxSnippetChars int
	UserAgent       string
	// Debug, when set, receives the rendered page of every search,
	// including failed ones.
	Debug  DebugHook
	Render RenderFunc
	Logger *log.Logger
}

func (s Search) Discover(ctx context.Context, q string, k int) ([]models.Result, error) {
	endpoint := s.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	base, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: bravehtml endpoint: %v", models.ErrSearchFailed, err)
	}
	query := base.Query()
	query.Set("q", q)
	query.Set("source", "web")
	base.RawQuery = query.Encode()
	target := base.String()

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	render := s.Render
	if render == nil {
		render = browser.Render
	}
	settle := s.SettleDelay
	if settle < 0 {
		settle = 0
	}
	page, err := render(ctx, target, browser.Options{
		UserAgent:   s.UserAgent,
		SettleDelay: settle,
		Screenshot:  s.Debug != nil,
	})
	if s.Debug != nil {
		s.Debug(q, page)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: bravehtml render %s: %v", models.ErrSearchFailed, target, err)
	}

	maxSnippet := s.MaxSnippetChars
	if maxSnippet <= 0 {
		maxSnippet = DefaultMaxSnippetChars
	}
	results, containers, err := parseResults(page.HTML, base, k, maxSnippet)
	if err != nil {
		return nil, fmt.Errorf("%w: bravehtml parse: %v", models.ErrSearchFailed, err)
	}
	if len(results) == 0 && containers > 0 {
		s.logger().Printf("found %d result containers for %q but extracted nothing; selectors may be stale", containers, q)
	}
	return results, nil
}

func (s Search) logger() *log.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return log.Default()
}
