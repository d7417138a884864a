package factcheck

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxResults caps how many search results are considered.
const DefaultMaxResults = 3

const searchFailedReasoning = "Failed to perform web search or no results found."

// SourceResolver turns a statement into ordered candidate sources. A non-nil
// error means the search itself failed; an empty slice means no results.
type SourceResolver interface {
	Resolve(ctx context.Context, query string, maxResults int) ([]CandidateSource, error)
}

// ContentFetcher returns the extracted main text of a page. Implementations
// own their per-call timeout and must be safe for concurrent use.
type ContentFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

var orchestratorTracer trace.Tracer = otel.Tracer("factcheck/internal/factcheck")

// Orchestrator sequences search, concurrent page retrieval and scoring.
type Orchestrator struct {
	resolver   SourceResolver
	fetcher    ContentFetcher
	scorer     *Scorer
	maxResults int
	logger     *log.Logger
}

// NewOrchestrator wires the collaborators. A maxResults <= 0 selects
// DefaultMaxResults; a nil logger selects log.Default().
func NewOrchestrator(resolver SourceResolver, fetcher ContentFetcher, scorer *Scorer, maxResults int, logger *log.Logger) *Orchestrator {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Orchestrator{
		resolver:   resolver,
		fetcher:    fetcher,
		scorer:     scorer,
		maxResults: maxResults,
		logger:     logger,
	}
}

// Verify checks the statement against web evidence. Search and retrieval
// failures resolve to an inconclusive verdict. Only ErrInvalidInput and
// ErrInternal are returned as errors.
func (o *Orchestrator) Verify(ctx context.Context, statement string) (verdict VerdictRecord, err error) {
	statement = strings.TrimSpace(statement)
	if statement == "" {
		verificationsTotal.WithLabelValues("invalid").Inc()
		return VerdictRecord{}, ErrInvalidInput
	}

	requestID := uuid.NewString()
	started := time.Now()
	ctx, span := orchestratorTracer.Start(ctx, "factcheck.verify",
		trace.WithAttributes(attribute.String("request.id", requestID)))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			verdict, err = VerdictRecord{}, fmt.Errorf("%w: %v", ErrInternal, r)
		}
		outcome := verdict.Outcome()
		if err != nil {
			outcome = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			o.logger.Printf("[%s] verification failed: %v", requestID, err)
		}
		verificationsTotal.WithLabelValues(outcome).Inc()
		verificationDuration.Observe(time.Since(started).Seconds())
	}()

	o.logger.Printf("[%s] verifying statement (%d chars)", requestID, len(statement))

	resolveCtx, resolveSpan := orchestratorTracer.Start(ctx, "factcheck.resolve")
	sources, rerr := o.resolver.Resolve(resolveCtx, statement, o.maxResults)
	resolveSpan.SetAttributes(attribute.Int("sources.count", len(sources)))
	resolveSpan.End()
	if rerr != nil || len(sources) == 0 {
		if rerr != nil {
			o.logger.Printf("[%s] search failed: %v", requestID, rerr)
		} else {
			o.logger.Printf("[%s] search returned no results", requestID)
		}
		return inconclusive(searchFailedReasoning), nil
	}

	contents, err := o.fetchAll(ctx, requestID, sources)
	if err != nil {
		return VerdictRecord{}, err
	}

	_, scoreSpan := orchestratorTracer.Start(ctx, "factcheck.score")
	verdict = o.scorer.Score(statement, sources, contents)
	scoreSpan.SetAttributes(
		attribute.Int("sources.analyzed", verdict.SourcesAnalyzed),
		attribute.Int("sources.skipped", verdict.SourcesSkipped),
		attribute.Int("confidence", verdict.ConfidenceScore),
		attribute.String("outcome", verdict.Outcome()),
	)
	scoreSpan.End()

	o.logger.Printf("[%s] verdict=%s confidence=%d analyzed=%d skipped=%d in %s",
		requestID, verdict.Outcome(), verdict.ConfidenceScore, verdict.SourcesAnalyzed, verdict.SourcesSkipped, time.Since(started).Round(time.Millisecond))
	return verdict, nil
}

// fetchAll retrieves every distinct link concurrently and waits for all of
// them. A failed fetch is recorded on its FetchedContent; only a panicking
// fetcher aborts the verification. Caller cancellation is not propagated
// into in-flight fetches.
func (o *Orchestrator) fetchAll(ctx context.Context, requestID string, sources []CandidateSource) (map[string]FetchedContent, error) {
	var links []string
	seen := make(map[string]struct{}, len(sources))
	for _, src := range sources {
		if !src.HasLink() {
			o.logger.Printf("[%s] skipping content retrieval for result with no link: %q", requestID, src.Title)
			continue
		}
		if _, ok := seen[src.Link]; ok {
			continue
		}
		seen[src.Link] = struct{}{}
		links = append(links, src.Link)
	}

	fetchCtx := context.WithoutCancel(ctx)
	results := make([]FetchedContent, len(links))
	var g errgroup.Group
	for i, link := range links {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%w: fetch %s: %v", ErrInternal, link, r)
				}
			}()
			spanCtx, span := orchestratorTracer.Start(fetchCtx, "factcheck.fetch",
				trace.WithAttributes(attribute.String("url", link)))
			defer span.End()

			text, ferr := o.fetcher.Fetch(spanCtx, link)
			results[i] = FetchedContent{Link: link, Text: text, Err: ferr}
			if ferr != nil {
				span.RecordError(ferr)
				fetchesTotal.WithLabelValues("failed").Inc()
				o.logger.Printf("[%s] content retrieval failed for %s: %v", requestID, link, ferr)
				return nil
			}
			fetchesTotal.WithLabelValues("ok").Inc()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	contents := make(map[string]FetchedContent, len(results))
	for _, r := range results {
		contents[r.Link] = r
	}
	return contents, nil
}
