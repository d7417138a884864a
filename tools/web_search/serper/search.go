package serper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mohammad-safakhou/factcheck/internal/helpers"
	"github.com/mohammad-safakhou/factcheck/tools/web_search/models"
)

// DefaultEndpoint is the serper.dev Google search API.
const DefaultEndpoint = "https://google.serper.dev/search"

// Search queries serper.dev.
type Search struct {
	ApiKey   string
	Endpoint string
	Client   *http.Client
}

func (s Search) Discover(ctx context.Context, q string, k int) ([]models.Result, error) {
	// https://serper.dev/ docs
	body, err := json.Marshal(map[string]any{"q": q, "num": k})
	if err != nil {
		return nil, fmt.Errorf("%w: serper: encode: %v", models.ErrSearchFailed, err)
	}
	endpoint := s.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: serper request: %v", models.ErrSearchFailed, err)
	}
	req.Header.Set("X-API-KEY", s.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: serper: %v", models.ErrSearchFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: serper: unexpected status %d", models.ErrSearchFailed, resp.StatusCode)
	}

	var raw struct {
		Organic []struct {
			Title   string `json:"title"`
			Link    string `json:"link"`
			Snippet string `json:"snippet"`
		} `json:"organic"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: serper: decode: %v", models.ErrSearchFailed, err)
	}
	out := make([]models.Result, 0, k)
	for _, r := range raw.Organic {
		if len(out) >= k {
			break
		}
		out = append(out, models.Result{
			Title:   helpers.HTMLToText(r.Title),
			URL:     r.Link,
			Snippet: helpers.HTMLToText(r.Snippet),
		})
	}
	return out, nil
}
