package web_fetch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mohammad-safakhou/factcheck/config"
	"github.com/mohammad-safakhou/factcheck/tools/web_fetch/chromedp"
	"github.com/mohammad-safakhou/factcheck/tools/web_fetch/httpfetch"
	"github.com/mohammad-safakhou/factcheck/tools/web_fetch/models"
)

const (
	DefaultTimeout  = models.DefaultTimeout
	MaxCharsDefault = 10000
)

// WebFetcher retrieves the main text of a page. Implementations apply their
// own timeout and are safe for concurrent use.
type WebFetcher interface {
	Exec(ctx context.Context, url string) (models.Result, error)
}

var (
	ErrInvalidURL         = models.ErrInvalidURL
	ErrFetchFailed        = models.ErrFetchFailed
	ErrUnsupportedFetcher = errors.New("unsupported fetcher type")
)

// NewWebFetcher builds the fetcher selected by cfg.Fetcher.
func NewWebFetcher(cfg config.FetchConfig) (WebFetcher, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	maxChars := cfg.MaxChars
	if maxChars <= 0 {
		maxChars = MaxCharsDefault
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Fetcher)) {
	case config.FetcherChromedp, "":
		return chromedp.Fetch{Timeout: timeout, MaxChars: maxChars, UserAgent: cfg.UserAgent}, nil
	case config.FetcherHTTP:
		return httpfetch.Fetch{Timeout: timeout, MaxChars: maxChars, UserAgent: cfg.UserAgent}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFetcher, cfg.Fetcher)
	}
}
