package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"github.com/mohammad-safakhou/factcheck/config"
	"github.com/mohammad-safakhou/factcheck/internal/factcheck"
)

var insertVerification = regexp.QuoteMeta(`
INSERT INTO verifications (id, statement, is_true, confidence_score, reasoning, snippets, sources_analyzed, sources_skipped, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`)

func TestRecordVerification(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	st := &Store{DB: db}
	yes := true
	rec := NewVerificationRecord("The Eiffel Tower is in Paris.", factcheck.VerdictRecord{
		IsTrue:          &yes,
		ConfidenceScore: 85,
		Reasoning:       "Analyzed 2 source(s).",
		SupportingSnippets: []factcheck.SupportingSnippet{
			{SourceURL: "https://en.wikipedia.org/wiki/Eiffel_Tower", Snippet: "Paris... (supporting)"},
		},
		SourcesAnalyzed: 2,
		SourcesSkipped:  1,
	})

	mock.ExpectExec(insertVerification).
		WithArgs(rec.ID, rec.Statement, true, 85, "Analyzed 2 source(s).",
			[]byte(`[{"source_url":"https://en.wikipedia.org/wiki/Eiffel_Tower","snippet":"Paris... (supporting)"}]`),
			2, 1, rec.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := st.RecordVerification(context.Background(), rec); err != nil {
		t.Fatalf("RecordVerification: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestRecordVerificationInconclusive(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	st := &Store{DB: db}
	rec := VerificationRecord{
		ID:        "5f0c1f7e-8a55-4c2e-9d0e-3c1d1f0a9b11",
		Statement: "x",
		Verdict:   factcheck.VerdictRecord{Reasoning: "Failed to perform web search or no results found."},
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	mock.ExpectExec(insertVerification).
		WithArgs(rec.ID, "x", nil, 0, rec.Verdict.Reasoning, []byte(`[]`), 0, 0, rec.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := st.RecordVerification(context.Background(), rec); err != nil {
		t.Fatalf("RecordVerification: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestRecordVerificationError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	st := &Store{DB: db}
	boom := errors.New("connection reset")
	mock.ExpectExec(insertVerification).WillReturnError(boom)

	err = st.RecordVerification(context.Background(), NewVerificationRecord("x", factcheck.VerdictRecord{}))
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped driver error, got %v", err)
	}
}

func TestRecordVerificationRequiresID(t *testing.T) {
	st := &Store{}
	if err := st.RecordVerification(context.Background(), VerificationRecord{}); err == nil {
		t.Fatalf("expected error for missing id")
	}
}

func TestPing(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	st := &Store{DB: db}

	mock.ExpectPing()
	if err := st.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
	mock.ExpectPing().WillReturnError(errors.New("connection reset"))
	if err := st.Ping(context.Background()); err == nil {
		t.Fatalf("expected ping error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestOpenRequiresConfig(t *testing.T) {
	if _, err := Open(context.Background(), config.PostgresConfig{}); err == nil {
		t.Fatalf("expected error for unconfigured postgres")
	}
}

func TestOpenHonoursTimeout(t *testing.T) {
	// 192.0.2.0/24 is reserved for documentation and never answers.
	cfg := config.PostgresConfig{URL: "postgres://u:p@192.0.2.1:5432/factcheck?sslmode=disable", Timeout: 200 * time.Millisecond}
	started := time.Now()
	if _, err := Open(context.Background(), cfg); err == nil {
		t.Fatalf("expected connection error")
	}
	if elapsed := time.Since(started); elapsed > 5*time.Second {
		t.Fatalf("open ignored the timeout, took %s", elapsed)
	}
}
