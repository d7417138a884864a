package httpfetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mohammad-safakhou/factcheck/tools/web_fetch/models"
)

func TestExec(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "factcheck-test" {
			t.Errorf("unexpected user agent %q", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><nav>menu</nav><article><p>The moon is rock.</p>
			<p>   </p><p>Green cheese is a myth.</p></article></body></html>`))
	}))
	defer srv.Close()

	f := Fetch{Timeout: time.Second, MaxChars: 10000, UserAgent: "factcheck-test", Client: srv.Client()}
	res, err := f.Exec(context.Background(), srv.URL+"/moon")
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if !strings.Contains(res.Text, "The moon is rock.") || !strings.Contains(res.Text, "Green cheese is a myth.") {
		t.Fatalf("unexpected text %q", res.Text)
	}
}

func TestExecHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	f := Fetch{Timeout: time.Second, MaxChars: 100, Client: srv.Client()}
	res, err := f.Exec(context.Background(), srv.URL)
	if !errors.Is(err, models.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
	if res.Status != http.StatusNotFound {
		t.Fatalf("expected 404 status, got %d", res.Status)
	}
}

func TestExecTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	f := Fetch{Timeout: 50 * time.Millisecond, Client: srv.Client()}
	if _, err := f.Exec(context.Background(), srv.URL); !errors.Is(err, models.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed on timeout, got %v", err)
	}
}

func TestExecInvalidURL(t *testing.T) {
	f := Fetch{Timeout: time.Second}
	if _, err := f.Exec(context.Background(), "N/A"); !errors.Is(err, models.ErrInvalidURL) {
		t.Fatalf("expected ErrInvalidURL, got %v", err)
	}
}

func TestExecZeroTimeoutUsesDefault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><article><p>Water boils at 100 degrees Celsius.</p></article></body></html>`))
	}))
	defer srv.Close()

	f := Fetch{Client: srv.Client()}
	res, err := f.Exec(context.Background(), srv.URL+"/boiling")
	if err != nil {
		t.Fatalf("zero timeout should fall back to the default, got %v", err)
	}
	if !strings.Contains(res.Text, "100 degrees") {
		t.Fatalf("unexpected text %q", res.Text)
	}
}
