package factcheck

import (
	"context"
	"strings"

	"github.com/mohammad-safakhou/factcheck/tools/web_fetch"
	"github.com/mohammad-safakhou/factcheck/tools/web_search"
)

type searchResolver struct {
	searcher web_search.WebSearcher
}

// NewSearchResolver adapts a web searcher to a SourceResolver. Results
// without a URL are kept with the NoLink marker.
func NewSearchResolver(searcher web_search.WebSearcher) SourceResolver {
	return searchResolver{searcher: searcher}
}

func (r searchResolver) Resolve(ctx context.Context, query string, maxResults int) ([]CandidateSource, error) {
	results, err := r.searcher.Discover(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}
	if len(results) > maxResults {
		results = results[:maxResults]
	}
	sources := make([]CandidateSource, 0, len(results))
	for _, res := range results {
		link := strings.TrimSpace(res.URL)
		if link == "" {
			link = NoLink
		}
		sources = append(sources, CandidateSource{Title: res.Title, Link: link, Snippet: res.Snippet})
	}
	return sources, nil
}

type pageFetcher struct {
	fetcher web_fetch.WebFetcher
}

// NewPageFetcher adapts a web fetcher to a ContentFetcher.
func NewPageFetcher(fetcher web_fetch.WebFetcher) ContentFetcher {
	return pageFetcher{fetcher: fetcher}
}

func (f pageFetcher) Fetch(ctx context.Context, url string) (string, error) {
	res, err := f.fetcher.Exec(ctx, url)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}
