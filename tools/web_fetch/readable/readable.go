// Package readable turns a fetched HTML document into normalised main text.
package readable

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html"

	"github.com/mohammad-safakhou/factcheck/internal/helpers"
	"github.com/mohammad-safakhou/factcheck/tools/web_fetch/models"
)

// Article is the extracted content of a page.
type Article struct {
	Title  string
	Byline string
	Text   string
}

var (
	mainSelectors = []cascadia.Selector{
		cascadia.MustCompile(`article`),
		cascadia.MustCompile(`main`),
		cascadia.MustCompile(`[role="main"]`),
		cascadia.MustCompile(`.post-content`),
		cascadia.MustCompile(`.entry-content`),
	}
	bodySelector  = cascadia.MustCompile(`body`)
	noiseSelector = cascadia.MustCompile(`script, style, nav, header, footer, aside, form, [aria-hidden="true"]`)
)

// CheckURL parses raw and rejects anything that is not an absolute
// http(s) URL.
func CheckURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if !helpers.IsHTTPURL(raw) {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidURL, raw)
	}
	return url.Parse(raw)
}

// Extract pulls the main text out of page: readability first, then the
// first common main-content container, then the whole body with navigation
// chrome removed. Lines are trimmed, blank lines dropped and the result
// capped at maxChars runes.
func Extract(page string, pageURL *url.URL, maxChars int) (Article, error) {
	var out Article
	if article, err := readability.FromReader(strings.NewReader(page), pageURL); err == nil {
		out.Title = strings.TrimSpace(article.Title)
		out.Byline = strings.TrimSpace(article.Byline)
		out.Text = articleText(article)
	}
	if out.Text == "" {
		text, err := fallbackText(page)
		if err != nil {
			return Article{}, fmt.Errorf("%w: parse html: %v", models.ErrFetchFailed, err)
		}
		out.Text = text
	}
	if maxChars > 0 {
		out.Text = strings.TrimSpace(helpers.TruncateRunes(out.Text, maxChars))
	}
	return out, nil
}

// articleText keeps the paragraph structure of the readability output,
// which TextContent flattens.
func articleText(article readability.Article) string {
	if article.Content != "" {
		if doc, err := html.Parse(strings.NewReader(article.Content)); err == nil {
			if text := helpers.NormalizeLines(helpers.NodeText(doc)); text != "" {
				return text
			}
		}
	}
	return helpers.NormalizeLines(article.TextContent)
}

func fallbackText(page string) (string, error) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return "", err
	}
	for _, sel := range mainSelectors {
		if n := sel.MatchFirst(doc); n != nil {
			if text := helpers.NormalizeLines(helpers.NodeText(n)); text != "" {
				return text, nil
			}
		}
	}
	body := bodySelector.MatchFirst(doc)
	if body == nil {
		return "", nil
	}
	for _, n := range noiseSelector.MatchAll(body) {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
	return helpers.NormalizeLines(helpers.NodeText(body)), nil
}
