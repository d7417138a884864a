package helpers

import (
	"net/url"
	"strings"
	"testing"
)

func TestCanonicalURL(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "lowercases scheme and host, drops fragment",
			in:   "HTTPS://EN.Wikipedia.org/wiki/Eiffel_Tower#History",
			want: "https://en.wikipedia.org/wiki/Eiffel_Tower",
		},
		{
			name: "drops default https port and tracking params, keeps trailing slash",
			in:   "https://www.reuters.com:443/world/europe/?utm_source=brave&page=2",
			want: "https://www.reuters.com/world/europe/?page=2",
		},
		{
			name: "bare host gets https",
			in:   "apnews.com/article/moon-cheese",
			want: "https://apnews.com/article/moon-cheese",
		},
		{
			name: "protocol relative link with dot segments and unsorted query",
			in:   "//www.nasa.gov/moon/../facts?gclid=1&topic=cheese&lang=en",
			want: "https://www.nasa.gov/facts?lang=en&topic=cheese",
		},
		{
			name: "keeps non default port and squeezes slashes",
			in:   "http://blog.example.com:8080//coffee//health",
			want: "http://blog.example.com:8080/coffee/health",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := CanonicalURL(tt.in)
			if err != nil {
				t.Fatalf("CanonicalURL() error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("CanonicalURL() got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCanonicalURLErrors(t *testing.T) {
	t.Parallel()
	if _, err := CanonicalURL(""); err == nil {
		t.Fatalf("expected error for empty input")
	}
	if _, err := CanonicalURL(":///invalid"); err == nil {
		t.Fatalf("expected error for malformed url")
	}
}

func TestIsHTTPURL(t *testing.T) {
	t.Parallel()
	cases := map[string]bool{
		"https://example.com/a":  true,
		"HTTP://Example.com":     true,
		"ftp://example.com/file": false,
		"javascript:alert(1)":    false,
		"/relative/path":         false,
		"N/A":                    false,
		"":                       false,
	}
	for in, want := range cases {
		if got := IsHTTPURL(in); got != want {
			t.Fatalf("IsHTTPURL(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestResolveLink(t *testing.T) {
	t.Parallel()
	base, err := url.Parse("https://search.brave.com/search?q=eiffel")
	if err != nil {
		t.Fatalf("parse base: %v", err)
	}
	tests := []struct {
		name   string
		href   string
		want   string
		wantOK bool
	}{
		{name: "absolute", href: "https://en.wikipedia.org/wiki/Eiffel_Tower", want: "https://en.wikipedia.org/wiki/Eiffel_Tower", wantOK: true},
		{name: "protocol relative", href: "//example.org/a", want: "https://example.org/a", wantOK: true},
		{name: "relative joined to origin", href: "/goggles/about", want: "https://search.brave.com/goggles/about", wantOK: true},
		{name: "anchor rejected", href: "#results", wantOK: false},
		{name: "cache rejected", href: "https://webcache.example.com/x", wantOK: false},
		{name: "empty rejected", href: "  ", wantOK: false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveLink(base, tt.href)
			if ok != tt.wantOK {
				t.Fatalf("ResolveLink(%q) ok = %v, want %v", tt.href, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Fatalf("ResolveLink(%q) = %q, want %q", tt.href, got, tt.want)
			}
		})
	}
}

func TestCanonicalURLDeduplicatesCaseVariants(t *testing.T) {
	t.Parallel()
	raw := "https://Example.com/Article?utm_campaign=foo&a=1&b=2"
	first, err := CanonicalURL(raw)
	if err != nil {
		t.Fatalf("CanonicalURL: %v", err)
	}
	second, err := CanonicalURL(strings.ReplaceAll(raw, "https://", "HTTPS://"))
	if err != nil {
		t.Fatalf("CanonicalURL: %v", err)
	}
	if first != second {
		t.Fatalf("expected identical canonical forms, got %s vs %s", first, second)
	}
}
