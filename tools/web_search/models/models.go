package models

import "errors"

// ErrSearchFailed marks a technical search failure, as opposed to a search
// that completed with zero results.
var ErrSearchFailed = errors.New("search failed")

// Result is one organic search result.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}
