package config

import (
	"fmt"
	"strings"
)

// Stance polarity modes.
const (
	// PolarityMagnitude counts an exclusively contradicting source as +40
	// evidence strength instead of the reference -40; the verdict direction
	// comes from the source counters. Under the signed arithmetic a False
	// verdict is unreachable.
	PolarityMagnitude = "magnitude"
	// PolaritySigned subtracts the stance weight for contradicting sources.
	PolaritySigned = "signed"
)

var (
	DefaultConfirmationPhrases = []string{
		"is true", "confirmed", "fact", "accurate", "correct", "verified", "evidence shows", "supported by data",
	}
	DefaultContradictionPhrases = []string{
		"is false", "not true", "incorrect", "hoax", "myth", "debunked", "misinformation", "unsubstantiated", "no evidence",
	}
	DefaultReputableDomains = []string{
		"wikipedia.org", "reuters.com", "apnews.com", "bbc.com", "nytimes.com", "wsj.com", ".gov", ".edu",
	}
	DefaultLessReputableDomains = []string{
		"blog", "forum", "personal", "conspiracy", "rumor",
	}
)

// ScoringConfig holds the fixed lexical sets used to score evidence.
type ScoringConfig struct {
	StancePolarity       string   `mapstructure:"stance_polarity"`
	ConfirmationPhrases  []string `mapstructure:"confirmation_phrases"`
	ContradictionPhrases []string `mapstructure:"contradiction_phrases"`
	ReputableDomains     []string `mapstructure:"reputable_domains"`
	LessReputableDomains []string `mapstructure:"less_reputable_domains"`
}

// DefaultScoringConfig returns the built-in phrase and domain sets.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		StancePolarity:       PolarityMagnitude,
		ConfirmationPhrases:  append([]string(nil), DefaultConfirmationPhrases...),
		ContradictionPhrases: append([]string(nil), DefaultContradictionPhrases...),
		ReputableDomains:     append([]string(nil), DefaultReputableDomains...),
		LessReputableDomains: append([]string(nil), DefaultLessReputableDomains...),
	}
}

// Normalize lowercases and deduplicates entries, filling unset lists with defaults.
func (c ScoringConfig) Normalize() ScoringConfig {
	norm := c
	norm.StancePolarity = strings.ToLower(strings.TrimSpace(norm.StancePolarity))
	if norm.StancePolarity == "" {
		norm.StancePolarity = PolarityMagnitude
	}
	norm.ConfirmationPhrases = normalizePhrases(norm.ConfirmationPhrases, DefaultConfirmationPhrases)
	norm.ContradictionPhrases = normalizePhrases(norm.ContradictionPhrases, DefaultContradictionPhrases)
	norm.ReputableDomains = normalizePhrases(norm.ReputableDomains, DefaultReputableDomains)
	norm.LessReputableDomains = normalizePhrases(norm.LessReputableDomains, DefaultLessReputableDomains)
	return norm
}

// Validate checks the polarity mode and that no phrase is claimed by both stances.
func (c ScoringConfig) Validate() error {
	norm := c.Normalize()
	switch norm.StancePolarity {
	case PolarityMagnitude, PolaritySigned:
	default:
		return fmt.Errorf("scoring.stance_polarity must be %q or %q, got %q", PolarityMagnitude, PolaritySigned, c.StancePolarity)
	}
	confirm := make(map[string]struct{}, len(norm.ConfirmationPhrases))
	for _, p := range norm.ConfirmationPhrases {
		confirm[p] = struct{}{}
	}
	for _, p := range norm.ContradictionPhrases {
		if _, ok := confirm[p]; ok {
			return fmt.Errorf("scoring conflict: phrase %q is both confirming and contradicting", p)
		}
	}
	return nil
}

// normalizePhrases keeps the first occurrence of every phrase so that
// configured order stays stable.
func normalizePhrases(values, defaults []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, raw := range values {
		v := strings.ToLower(strings.TrimSpace(raw))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		return append([]string(nil), defaults...)
	}
	return out
}
