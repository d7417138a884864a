package helpers

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func TestNodeText(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(`<html><head><title>x</title></head><body>
		<script>var a = 1;</script>
		<p>The <b>Eiffel</b> Tower</p><div>is in Paris.</div><style>p{}</style>
	</body></html>`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	got := NormalizeLines(NodeText(doc))
	want := "The Eiffel Tower\nis in Paris."
	if got != want {
		t.Fatalf("NodeText = %q, want %q", got, want)
	}
}

func TestAttr(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(`<a HREF="https://example.com/">x</a>`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var a *html.Node
	var find func(*html.Node)
	find = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			a = n
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			find(c)
		}
	}
	find(doc)
	if v, ok := Attr(a, "href"); !ok || v != "https://example.com/" {
		t.Fatalf("Attr = %q, %v", v, ok)
	}
	if _, ok := Attr(a, "title"); ok {
		t.Fatalf("expected missing attribute")
	}
}
