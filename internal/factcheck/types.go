package factcheck

import (
	"errors"
	"strings"
)

// NoLink marks a candidate source without a usable link.
const NoLink = "N/A"

var (
	// ErrInvalidInput is returned when the statement is blank.
	ErrInvalidInput = errors.New("statement must be a non-empty string")
	// ErrInternal wraps unexpected faults raised while orchestrating a verification.
	ErrInternal = errors.New("internal verification fault")
)

// CandidateSource is one search result considered as evidence.
type CandidateSource struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// HasLink reports whether the source can be fetched.
func (s CandidateSource) HasLink() bool {
	link := strings.TrimSpace(s.Link)
	return link != "" && link != NoLink
}

// FetchedContent is the outcome of retrieving one source page. Err is set
// when retrieval failed; the scorer then treats the page as absent.
type FetchedContent struct {
	Link string
	Text string
	Err  error
}

// Usable reports whether the content can contribute page text. Only an
// empty text is unusable; whitespace still counts as retrieved content.
func (c FetchedContent) Usable() bool {
	return c.Err == nil && c.Text != ""
}

// SupportingSnippet is a source excerpt surfaced with the verdict.
type SupportingSnippet struct {
	SourceURL string `json:"source_url"`
	Snippet   string `json:"snippet"`
}

// VerdictRecord is the result of a verification. IsTrue is nil when the
// evidence is inconclusive.
type VerdictRecord struct {
	IsTrue             *bool               `json:"is_true"`
	ConfidenceScore    int                 `json:"confidence_score"`
	Reasoning          string              `json:"reasoning"`
	SupportingSnippets []SupportingSnippet `json:"supporting_snippets"`

	SourcesAnalyzed int `json:"-"`
	SourcesSkipped  int `json:"-"`
}

// Outcome labels the verdict for metrics and logs.
func (v VerdictRecord) Outcome() string {
	switch {
	case v.IsTrue == nil:
		return "inconclusive"
	case *v.IsTrue:
		return "true"
	default:
		return "false"
	}
}

func inconclusive(reasoning string) VerdictRecord {
	return VerdictRecord{
		IsTrue:             nil,
		ConfidenceScore:    0,
		Reasoning:          reasoning,
		SupportingSnippets: []SupportingSnippet{},
	}
}

func boolPtr(b bool) *bool { return &b }
