package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mohammad-safakhou/factcheck/config"
	"github.com/mohammad-safakhou/factcheck/internal/factcheck"
)

var tracer trace.Tracer = otel.Tracer("factcheck/internal/store")

type Store struct {
	DB *sql.DB
}

// NewWithDSN constructs the Store using an explicit Postgres DSN
func NewWithDSN(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{DB: db}, nil
}

// Open connects to the configured database. cfg.Timeout bounds the initial
// connection check.
func Open(ctx context.Context, cfg config.PostgresConfig) (*Store, error) {
	if !cfg.Enabled() {
		return nil, errors.New("postgres not configured (storage.postgres.host/dbname or url)")
	}
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}
	return NewWithDSN(ctx, cfg.DSN())
}

func (s *Store) Close() error { return s.DB.Close() }

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error { return s.DB.PingContext(ctx) }

// VerificationRecord is one audited verification.
type VerificationRecord struct {
	ID              string
	Statement       string
	Verdict         factcheck.VerdictRecord
	SourcesAnalyzed int
	SourcesSkipped  int
	CreatedAt       time.Time
}

// NewVerificationRecord builds an audit row for a finished verification.
func NewVerificationRecord(statement string, v factcheck.VerdictRecord) VerificationRecord {
	return VerificationRecord{
		ID:              uuid.NewString(),
		Statement:       statement,
		Verdict:         v,
		SourcesAnalyzed: v.SourcesAnalyzed,
		SourcesSkipped:  v.SourcesSkipped,
		CreatedAt:       time.Now().UTC(),
	}
}

// RecordVerification appends one row to the verifications table.
func (s *Store) RecordVerification(ctx context.Context, rec VerificationRecord) error {
	if rec.ID == "" {
		return errors.New("verification record id required")
	}
	ctx, span := tracer.Start(ctx, "store.record_verification",
		trace.WithAttributes(attribute.String("verification.id", rec.ID)))
	defer span.End()

	snippets := rec.Verdict.SupportingSnippets
	if snippets == nil {
		snippets = []factcheck.SupportingSnippet{}
	}
	payload, err := json.Marshal(snippets)
	if err != nil {
		return fmt.Errorf("encode snippets: %w", err)
	}
	var isTrue sql.NullBool
	if rec.Verdict.IsTrue != nil {
		isTrue = sql.NullBool{Bool: *rec.Verdict.IsTrue, Valid: true}
	}
	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}

	_, err = s.DB.ExecContext(ctx, `
INSERT INTO verifications (id, statement, is_true, confidence_score, reasoning, snippets, sources_analyzed, sources_skipped, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`, rec.ID, rec.Statement, isTrue, rec.Verdict.ConfidenceScore, rec.Verdict.Reasoning, payload, rec.SourcesAnalyzed, rec.SourcesSkipped, created)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("insert verification: %w", err)
	}
	return nil
}
