package models

import (
	"errors"
	"time"
)

// DefaultTimeout applies when a fetcher is built without a timeout.
const DefaultTimeout = 15 * time.Second

var (
	// ErrInvalidURL is returned before any I/O for blank or non-http(s) URLs.
	ErrInvalidURL = errors.New("invalid url")
	// ErrFetchFailed wraps navigation, timeout and extraction failures.
	ErrFetchFailed = errors.New("fetch failed")
)

// Result is the extracted main text of one page.
type Result struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	Byline   string `json:"byline"`
	Text     string `json:"text"`
	Status   int    `json:"status"`
	RenderMS int    `json:"render_ms"`
}
