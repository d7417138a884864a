package factcheck

import (
	"fmt"
	"log"

	"github.com/mohammad-safakhou/factcheck/config"
	"github.com/mohammad-safakhou/factcheck/tools/web_fetch"
	"github.com/mohammad-safakhou/factcheck/tools/web_search"
)

// NewFromConfig builds an Orchestrator with the configured search provider,
// page fetcher and scoring sets.
func NewFromConfig(cfg *config.Config, logger *log.Logger) (*Orchestrator, error) {
	if logger == nil {
		logger = log.New(log.Writer(), "[VERIFY] ", log.LstdFlags)
	}
	searchLogger := log.New(logger.Writer(), "[SEARCH] ", logger.Flags())

	searcher, err := web_search.NewWebSearcher(cfg.Search, cfg.Fetch.UserAgent, searchLogger)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	fetcher, err := web_fetch.NewWebFetcher(cfg.Fetch)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	scorer, err := NewScorer(cfg.Scoring)
	if err != nil {
		return nil, fmt.Errorf("scoring: %w", err)
	}
	return NewOrchestrator(NewSearchResolver(searcher), NewPageFetcher(fetcher), scorer, cfg.Search.MaxResults, logger), nil
}
