package brave

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/mohammad-safakhou/factcheck/internal/helpers"
	"github.com/mohammad-safakhou/factcheck/tools/web_search/models"
)

// DefaultEndpoint is the Brave Search web API.
const DefaultEndpoint = "https://api.search.brave.com/res/v1/web/search"

// Search queries the Brave Search API.
type Search struct {
	ApiKey   string
	Endpoint string
	Client   *http.Client
}

func (s Search) Discover(ctx context.Context, q string, k int) ([]models.Result, error) {
	// https://api.search.brave.com/app/documentation/web-search
	endpoint := s.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	reqURL := fmt.Sprintf("%s?q=%s&count=%d", endpoint, url.QueryEscape(q), k)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: brave request: %v", models.ErrSearchFailed, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", s.ApiKey)

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: brave: %v", models.ErrSearchFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: brave: unexpected status %d", models.ErrSearchFailed, resp.StatusCode)
	}

	var raw struct {
		Web struct {
			Results []struct {
				Title   string `json:"title"`
				URL     string `json:"url"`
				Snippet string `json:"description"`
			} `json:"results"`
		} `json:"web"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: brave: decode: %v", models.ErrSearchFailed, err)
	}
	out := make([]models.Result, 0, k)
	for _, r := range raw.Web.Results {
		if len(out) >= k {
			break
		}
		out = append(out, models.Result{
			Title:   helpers.HTMLToText(r.Title),
			URL:     r.URL,
			Snippet: helpers.HTMLToText(r.Snippet),
		})
	}
	return out, nil
}
