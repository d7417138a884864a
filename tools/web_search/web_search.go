package web_search

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/mohammad-safakhou/factcheck/config"
	"github.com/mohammad-safakhou/factcheck/tools/web_search/brave"
	"github.com/mohammad-safakhou/factcheck/tools/web_search/bravehtml"
	"github.com/mohammad-safakhou/factcheck/tools/web_search/models"
	"github.com/mohammad-safakhou/factcheck/tools/web_search/serper"
)

// WebSearcher returns up to k ordered results for q. An error wraps
// ErrSearchFailed; an empty slice means the search found nothing.
type WebSearcher interface {
	Discover(ctx context.Context, q string, k int) ([]models.Result, error)
}

var (
	ErrSearchFailed        = models.ErrSearchFailed
	ErrUnsupportedProvider = errors.New("unsupported search provider")
)

// NewWebSearcher builds the searcher selected by cfg.Provider.
func NewWebSearcher(cfg config.SearchConfig, userAgent string, logger *log.Logger) (WebSearcher, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case config.SearchProviderBraveHTML, "":
		s := bravehtml.Search{
			Timeout:         cfg.Timeout,
			SettleDelay:     cfg.SettleDelay,
			MaxSnippetChars: cfg.MaxSnippetChars,
			UserAgent:       userAgent,
			Logger:          logger,
		}
		if cfg.DebugDir != "" {
			s.Debug = bravehtml.FileDebugHook(cfg.DebugDir, logger)
		}
		return s, nil
	case config.SearchProviderBrave:
		return brave.Search{ApiKey: cfg.BraveAPIKey}, nil
	case config.SearchProviderSerper:
		return serper.Search{ApiKey: cfg.SerperAPIKey}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, cfg.Provider)
	}
}
