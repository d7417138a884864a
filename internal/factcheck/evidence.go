package factcheck

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/mohammad-safakhou/factcheck/config"
	"github.com/mohammad-safakhou/factcheck/internal/helpers"
)

const (
	keywordWeight        = 30.0
	snippetShare         = 0.3
	contentShare         = 0.7
	stanceWeight         = 40.0
	neutralBias          = 5.0
	reputableBonus       = 20.0
	lessReputablePenalty = -10.0
	relevanceBonus       = 10.0

	maxSupportingSnippets = 3
	snippetPreviewRunes   = 200
)

type stance int

const (
	stanceNeutral stance = iota
	stanceConfirming
	stanceContradicting
	stanceAmbiguous
)

func (s stance) tag() string {
	switch s {
	case stanceConfirming:
		return "supporting"
	case stanceContradicting:
		return "contradicting"
	case stanceAmbiguous:
		return "ambiguous"
	default:
		return ""
	}
}

// sourceScore is the per-source breakdown. It lives for one Score call.
type sourceScore struct {
	keyword   float64
	stance    float64
	domain    float64
	relevance float64
	class     stance
}

func (s sourceScore) total() float64 {
	return s.keyword + s.stance + s.domain + s.relevance
}

// Scorer turns candidate sources and fetched pages into a verdict. It holds
// only immutable configuration and is safe for concurrent use.
type Scorer struct {
	polarity      string
	confirm       []string
	contradict    []string
	reputable     []string
	lessReputable []string
}

// NewScorer builds a Scorer from the scoring configuration.
func NewScorer(cfg config.ScoringConfig) (*Scorer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	norm := cfg.Normalize()
	return &Scorer{
		polarity:      norm.StancePolarity,
		confirm:       norm.ConfirmationPhrases,
		contradict:    norm.ContradictionPhrases,
		reputable:     norm.ReputableDomains,
		lessReputable: norm.LessReputableDomains,
	}, nil
}

// Score evaluates the sources against the statement. contents is keyed by
// source link. The result depends only on the arguments.
func (s *Scorer) Score(statement string, sources []CandidateSource, contents map[string]FetchedContent) VerdictRecord {
	keywords := Keywords(statement)

	var (
		total         float64
		analyzed      int
		skipped       int
		confirming    int
		contradicting int
		snippets      = []SupportingSnippet{}
	)

	for _, src := range sources {
		snippet := strings.ToLower(src.Snippet)
		pageText := ""
		if c, ok := contents[src.Link]; ok && src.HasLink() && c.Usable() {
			pageText = strings.ToLower(c.Text)
		}
		if snippet == "" && pageText == "" {
			skipped++
			continue
		}
		analyzed++

		sc := s.scoreSource(keywords, strings.ToLower(src.Link), snippet, pageText)
		switch sc.class {
		case stanceConfirming:
			confirming++
		case stanceContradicting:
			contradicting++
		}
		if sc.class != stanceNeutral && len(snippets) < maxSupportingSnippets {
			snippets = append(snippets, SupportingSnippet{
				SourceURL: src.Link,
				Snippet:   helpers.TruncateRunes(src.Snippet, snippetPreviewRunes) + "... (" + sc.class.tag() + ")",
			})
		}
		total += sc.total()
	}

	if analyzed == 0 {
		v := inconclusive("No valid sources found or content could not be retrieved to analyze the statement.")
		v.SourcesSkipped = skipped
		return v
	}

	confidence := clampScore(int(total / float64(analyzed)))
	reasoning := []string{fmt.Sprintf("Analyzed %d source(s).", analyzed)}
	var verdict *bool

	switch {
	case confirming > contradicting && confidence > 50:
		verdict = boolPtr(true)
		reasoning = append(reasoning, fmt.Sprintf("%d source(s) appear to support the statement.", confirming))
		if contradicting > 0 {
			reasoning = append(reasoning, fmt.Sprintf("%d source(s) offer some contradictory points.", contradicting))
		}
	case contradicting > confirming && confidence > 50:
		verdict = boolPtr(false)
		reasoning = append(reasoning, fmt.Sprintf("%d source(s) appear to contradict the statement.", contradicting))
		if confirming > 0 {
			reasoning = append(reasoning, fmt.Sprintf("%d source(s) offer some supporting points.", confirming))
		}
	case confidence < 30:
		reasoning = append(reasoning, "The evidence is too weak or mixed to draw a firm conclusion. Low confidence.")
	default:
		reasoning = append(reasoning, "Evidence is mixed or not strong enough for a definitive True/False.")
		if confirming > 0 {
			reasoning = append(reasoning, fmt.Sprintf("%d supporting,", confirming))
		}
		if contradicting > 0 {
			reasoning = append(reasoning, fmt.Sprintf("%d contradicting.", contradicting))
		}
	}

	if analyzed > 1 {
		ratio := float64(absInt(confirming-contradicting)) / float64(analyzed)
		switch {
		case ratio < 0.3 && confidence > 40:
			confidence = max(20, confidence-20)
			reasoning = append(reasoning, "Reduced confidence due to disagreement among sources.")
		case ratio > 0.7 && confidence < 80:
			confidence = min(100, confidence+10)
			reasoning = append(reasoning, "Increased confidence due to agreement among sources.")
		}
	}

	if verdict != nil && confidence < 40 {
		if *verdict {
			reasoning = append(reasoning, "Confidence too low to confirm as True.")
		} else {
			reasoning = append(reasoning, "Confidence too low to confirm as False.")
		}
		verdict = nil
	}

	return VerdictRecord{
		IsTrue:             verdict,
		ConfidenceScore:    confidence,
		Reasoning:          strings.TrimSpace(strings.Join(reasoning, " ")),
		SupportingSnippets: snippets,
		SourcesAnalyzed:    analyzed,
		SourcesSkipped:     skipped,
	}
}

// scoreSource expects lower-cased link, snippet and page text.
func (s *Scorer) scoreSource(keywords map[string]struct{}, link, snippet, pageText string) sourceScore {
	var sc sourceScore

	snippetFrac := keywordFraction(keywords, snippet)
	contentFrac := 0.0
	if pageText != "" {
		contentFrac = keywordFraction(keywords, pageText)
	}
	sc.keyword = (snippetFrac*snippetShare + contentFrac*contentShare) * keywordWeight

	confirmed := containsAny(pageText, s.confirm) || containsAny(snippet, s.confirm)
	contradicted := containsAny(pageText, s.contradict) || containsAny(snippet, s.contradict)
	switch {
	case confirmed && !contradicted:
		sc.class = stanceConfirming
		sc.stance = stanceWeight
	case contradicted && !confirmed:
		sc.class = stanceContradicting
		sc.stance = stanceWeight
		if s.polarity == config.PolaritySigned {
			sc.stance = -stanceWeight
		}
	case confirmed && contradicted:
		sc.class = stanceAmbiguous
	default:
		sc.stance = neutralBias
	}

	switch {
	case containsAny(link, s.reputable):
		sc.domain = reputableBonus
	case containsAny(link, s.lessReputable):
		sc.domain = lessReputablePenalty
	}

	if !confirmed && !contradicted && snippetFrac > 0.5 {
		sc.relevance = relevanceBonus
	}
	return sc
}

// Keywords returns the set of lower-cased word tokens in text. A token is a
// maximal run of letters, digits or underscores.
func Keywords(text string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
	out := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		out[f] = struct{}{}
	}
	return out
}

func keywordFraction(keywords map[string]struct{}, text string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	matched := 0
	for kw := range keywords {
		if strings.Contains(text, kw) {
			matched++
		}
	}
	return float64(matched) / float64(len(keywords))
}

func containsAny(text string, phrases []string) bool {
	if text == "" {
		return false
	}
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

func clampScore(v int) int { return max(0, min(100, v)) }

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
