package serper

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mohammad-safakhou/factcheck/tools/web_search/models"
)

func TestDiscover(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.Header.Get("X-API-KEY") != "key" {
			t.Errorf("unexpected request %s %v", r.Method, r.Header)
		}
		var body struct {
			Q   string `json:"q"`
			Num int    `json:"num"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Q != "moon cheese" || body.Num != 3 {
			t.Errorf("unexpected body %+v, %v", body, err)
		}
		_, _ = w.Write([]byte(`{"organic":[{"title":"Moon","link":"https://www.nasa.gov/moon","snippet":"Rock, not cheese."}]}`))
	}))
	defer srv.Close()

	s := Search{ApiKey: "key", Endpoint: srv.URL, Client: srv.Client()}
	results, err := s.Discover(context.Background(), "moon cheese", 3)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	want := models.Result{Title: "Moon", URL: "https://www.nasa.gov/moon", Snippet: "Rock, not cheese."}
	if len(results) != 1 || results[0] != want {
		t.Fatalf("unexpected results %+v", results)
	}
}

func TestDiscoverBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	s := Search{Endpoint: srv.URL}
	if _, err := s.Discover(context.Background(), "q", 3); !errors.Is(err, models.ErrSearchFailed) {
		t.Fatalf("expected ErrSearchFailed, got %v", err)
	}
}
