// Package httpfetch retrieves pages with a plain HTTP GET. It does not run
// scripts, so it suits environments without Chrome.
package httpfetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mohammad-safakhou/factcheck/tools/web_fetch/models"
	"github.com/mohammad-safakhou/factcheck/tools/web_fetch/readable"
)

const maxBodyBytes = 5 << 20

// Fetch downloads and extracts pages over HTTP.
type Fetch struct {
	Timeout   time.Duration
	MaxChars  int
	UserAgent string
	Client    *http.Client
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

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return models.Result{}, fmt.Errorf("%w: %v", models.ErrInvalidURL, err)
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return models.Result{URL: url, Status: 599, RenderMS: int(time.Since(t0) / time.Millisecond)}, fmt.Errorf("%w: get %s: %v", models.ErrFetchFailed, url, err)
	}
	defer resp.Body.Close()

	res := models.Result{URL: url, Status: resp.StatusCode}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		res.RenderMS = int(time.Since(t0) / time.Millisecond)
		return res, fmt.Errorf("%w: get %s: status %d", models.ErrFetchFailed, url, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	res.RenderMS = int(time.Since(t0) / time.Millisecond)
	if err != nil {
		return res, fmt.Errorf("%w: read %s: %v", models.ErrFetchFailed, url, err)
	}

	article, err := readable.Extract(string(body), resp.Request.URL, f.MaxChars)
	if err != nil {
		return res, err
	}
	res.Title = article.Title
	res.Byline = article.Byline
	res.Text = article.Text
	return res, nil
}
