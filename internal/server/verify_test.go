package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/mohammad-safakhou/factcheck/internal/factcheck"
	"github.com/mohammad-safakhou/factcheck/internal/store"
)

type fakeVerifier struct {
	verdict factcheck.VerdictRecord
	err     error
	got     []string
}

func (f *fakeVerifier) Verify(ctx context.Context, statement string) (factcheck.VerdictRecord, error) {
	f.got = append(f.got, statement)
	if strings.TrimSpace(statement) == "" {
		return factcheck.VerdictRecord{}, factcheck.ErrInvalidInput
	}
	return f.verdict, f.err
}

type fakeAudit struct {
	mu      sync.Mutex
	records []store.VerificationRecord
	err     error
}

func (f *fakeAudit) RecordVerification(ctx context.Context, rec store.VerificationRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, rec)
	return f.err
}

func quietLogger() *log.Logger { return log.New(io.Discard, "", 0) }

func doRequest(t *testing.T, deps Deps, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	if deps.Logger == nil {
		deps.Logger = quietLogger()
	}
	e := NewEcho(deps)
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return resp["error"]
}

func TestVerifySuccess(t *testing.T) {
	yes := true
	v := &fakeVerifier{verdict: factcheck.VerdictRecord{
		IsTrue:          &yes,
		ConfidenceScore: 85,
		Reasoning:       "Analyzed 2 source(s).",
		SupportingSnippets: []factcheck.SupportingSnippet{
			{SourceURL: "https://en.wikipedia.org/wiki/Eiffel_Tower", Snippet: "Paris... (supporting)"},
		},
		SourcesAnalyzed: 2,
	}}
	audit := &fakeAudit{}
	rec := doRequest(t, Deps{Verifier: v, Audit: audit}, http.MethodPost, "/api/verify", `{"statement":"The Eiffel Tower is in Paris."}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp) != 4 {
		t.Fatalf("expected exactly four fields, got %v", resp)
	}
	for _, key := range []string{"is_true", "confidence_score", "reasoning", "supporting_snippets"} {
		if _, ok := resp[key]; !ok {
			t.Fatalf("missing field %q", key)
		}
	}
	if string(resp["is_true"]) != "true" || string(resp["confidence_score"]) != "85" {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
	if len(audit.records) != 1 || audit.records[0].Statement != "The Eiffel Tower is in Paris." || audit.records[0].SourcesAnalyzed != 2 {
		t.Fatalf("expected one audit record, got %+v", audit.records)
	}
}

func TestVerifyInconclusiveSerialisesNull(t *testing.T) {
	v := &fakeVerifier{verdict: factcheck.VerdictRecord{
		Reasoning:          "Failed to perform web search or no results found.",
		SupportingSnippets: []factcheck.SupportingSnippet{},
	}}
	rec := doRequest(t, Deps{Verifier: v}, http.MethodPost, "/api/verify", `{"statement":"x"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"is_true":null`) || !strings.Contains(body, `"supporting_snippets":[]`) {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestVerifyBadRequests(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"empty body", ``, msgMissingStatement},
		{"not json", `statement=x`, msgMissingStatement},
		{"empty object", `{}`, msgMissingStatement},
		{"array", `["x"]`, msgMissingStatement},
		{"other field", `{"claim":"x"}`, msgMissingStatement},
		{"number", `{"statement":42}`, msgInvalidStatement},
		{"object", `{"statement":{"text":"x"}}`, msgInvalidStatement},
		{"null", `{"statement":null}`, msgInvalidStatement},
		{"blank", `{"statement":"   "}`, msgInvalidStatement},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := &fakeVerifier{}
			rec := doRequest(t, Deps{Verifier: v}, http.MethodPost, "/api/verify", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			if got := decodeError(t, rec); got != tc.want {
				t.Fatalf("error = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestVerifyInternalError(t *testing.T) {
	v := &fakeVerifier{err: errors.New("internal verification fault: boom")}
	audit := &fakeAudit{}
	rec := doRequest(t, Deps{Verifier: v, Audit: audit}, http.MethodPost, "/api/verify", `{"statement":"x"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if got := decodeError(t, rec); got != "An unexpected error occurred: internal verification fault: boom" {
		t.Fatalf("unexpected error message %q", got)
	}
	if len(audit.records) != 0 {
		t.Fatalf("failed verifications must not be audited")
	}
}

func TestVerifyAuditFailureIsIgnored(t *testing.T) {
	v := &fakeVerifier{verdict: factcheck.VerdictRecord{Reasoning: "r", SupportingSnippets: []factcheck.SupportingSnippet{}}}
	audit := &fakeAudit{err: errors.New("db down")}
	rec := doRequest(t, Deps{Verifier: v, Audit: audit}, http.MethodPost, "/api/verify", `{"statement":"x"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 despite audit failure, got %d", rec.Code)
	}
}

func TestRootAndHealth(t *testing.T) {
	rec := doRequest(t, Deps{Verifier: &fakeVerifier{}}, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"Fact Checker API is running"`) {
		t.Fatalf("unexpected root response %d %s", rec.Code, rec.Body.String())
	}
	rec = doRequest(t, Deps{Verifier: &fakeVerifier{}}, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("unexpected healthz response %d %s", rec.Code, rec.Body.String())
	}
	rec = doRequest(t, Deps{Verifier: &fakeVerifier{}}, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "factcheck_") {
		t.Fatalf("expected factcheck metrics, got %d", rec.Code)
	}
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(ctx context.Context) error { return p.err }

func TestHealthzPingsDatabase(t *testing.T) {
	rec := doRequest(t, Deps{Verifier: &fakeVerifier{}, DB: fakePinger{}}, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with healthy db, got %d", rec.Code)
	}
	rec = doRequest(t, Deps{Verifier: &fakeVerifier{}, DB: fakePinger{err: errors.New("down")}}, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 with failing db, got %d", rec.Code)
	}
	if msg := decodeError(t, rec); msg != "database unavailable" {
		t.Fatalf("unexpected error %q", msg)
	}
}
