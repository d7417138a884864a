package bravehtml

import (
	"net/url"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/mohammad-safakhou/factcheck/internal/helpers"
	"github.com/mohammad-safakhou/factcheck/tools/web_search/models"
)

// Selectors are tried in order; the first match wins.
var (
	containerSelectors = []cascadia.Selector{
		cascadia.MustCompile(`div.snippet[data-pos], div.search-result.snippet`),
		cascadia.MustCompile(`div.results > div.snippet`),
	}
	titleSelectors = []cascadia.Selector{
		cascadia.MustCompile(`a.snippet-title`),
		cascadia.MustCompile(`div.title > a`),
		cascadia.MustCompile(`h3.title a`),
		cascadia.MustCompile(`div[data-type="web"] a.result-header`),
		cascadia.MustCompile(`a[href]`),
	}
	snippetSelectors = []cascadia.Selector{
		cascadia.MustCompile(`p.snippet-description`),
		cascadia.MustCompile(`div.snippet-content`),
		cascadia.MustCompile(`div.desc`),
	}
)

// parseResults extracts up to k results from a rendered results page. It
// also reports how many result containers were found.
func parseResults(page string, base *url.URL, k, maxSnippet int) ([]models.Result, int, error) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return nil, 0, err
	}

	var containers []*html.Node
	for _, sel := range containerSelectors {
		if containers = sel.MatchAll(doc); len(containers) > 0 {
			break
		}
	}

	out := make([]models.Result, 0, k)
	seen := make(map[string]struct{}, k)
	for _, el := range containers {
		if len(out) >= k {
			break
		}
		titleEl := firstMatch(el, titleSelectors)
		if titleEl == nil {
			continue
		}
		title := helpers.CollapseWhitespace(helpers.NodeText(titleEl))
		href, _ := helpers.Attr(titleEl, "href")
		link, ok := helpers.ResolveLink(base, href)
		if title == "" || !ok {
			continue
		}
		key, err := helpers.CanonicalURL(link)
		if err != nil {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		snippetEl := firstMatch(el, snippetSelectors)
		if snippetEl == nil {
			snippetEl = el
		}
		out = append(out, models.Result{
			Title:   title,
			URL:     link,
			Snippet: helpers.TruncateRunes(helpers.CollapseWhitespace(helpers.NodeText(snippetEl)), maxSnippet),
		})
	}
	return out, len(containers), nil
}

func firstMatch(n *html.Node, selectors []cascadia.Selector) *html.Node {
	for _, sel := range selectors {
		if m := sel.MatchFirst(n); m != nil {
			return m
		}
	}
	return nil
}
