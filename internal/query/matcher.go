package query

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

// DefaultThreshold is the largest edit ratio the fuzzy strategy accepts.
const DefaultThreshold = 0.3

// Matcher scores how well a term matches a piece of text. Lower scores are
// more relevant and 0 means the term is an exact case-insensitive substring.
type Matcher interface {
	Match(term, text string) (score float64, ok bool)
}

// Strategy names accepted by NewMatcher.
const (
	StrategyExact       = "exact"
	StrategyFuzzy       = "fuzzy"
	StrategySubsequence = "subsequence"
)

// NewMatcher builds the strategy registered under name.
func NewMatcher(name string, threshold float64) (Matcher, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case StrategyExact:
		return ExactMatcher{}, nil
	case "", StrategyFuzzy:
		if threshold < 0 || threshold >= 1 {
			return nil, fmt.Errorf("fuzzy threshold must be in [0, 1), got %v", threshold)
		}
		return FuzzyMatcher{Threshold: threshold}, nil
	case StrategySubsequence:
		return SubsequenceMatcher{}, nil
	default:
		return nil, fmt.Errorf("unknown search strategy %q", name)
	}
}

// ExactMatcher accepts case-insensitive substrings only.
type ExactMatcher struct{}

func (ExactMatcher) Match(term, text string) (float64, bool) {
	return 0, strings.Contains(strings.ToLower(text), strings.ToLower(term))
}

// FuzzyMatcher accepts approximate substrings: the minimum edit distance
// between the term and any substring of the text, divided by the term
// length, must not exceed Threshold. A zero Threshold selects
// DefaultThreshold.
type FuzzyMatcher struct {
	Threshold float64
}

func (m FuzzyMatcher) Match(term, text string) (float64, bool) {
	term = strings.ToLower(term)
	text = strings.ToLower(text)
	if strings.Contains(text, term) {
		return 0, true
	}

	pattern := []rune(term)
	dist := substringDistance(pattern, []rune(text))
	score := float64(dist) / float64(len(pattern))

	threshold := m.Threshold
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	return score, score <= threshold
}

// substringDistance returns the smallest Levenshtein distance between
// pattern and any substring of text. Row 0 is all zeros so a match may start
// anywhere in the text.
func substringDistance(pattern, text []rune) int {
	if len(pattern) == 0 {
		return 0
	}

	prev := make([]int, len(text)+1)
	curr := make([]int, len(text)+1)

	for i := 1; i <= len(pattern); i++ {
		curr[0] = i
		for j := 1; j <= len(text); j++ {
			cost := 1
			if pattern[i-1] == text[j-1] {
				cost = 0
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	best := prev[0]
	for _, d := range prev[1:] {
		best = min(best, d)
	}
	return best
}

// SubsequenceMatcher accepts texts containing the term's characters in order.
// Tighter spans score closer to 0.
type SubsequenceMatcher struct{}

func (SubsequenceMatcher) Match(term, text string) (float64, bool) {
	if strings.Contains(strings.ToLower(text), strings.ToLower(term)) {
		return 0, true
	}
	matches := fuzzy.Find(strings.ToLower(term), []string{strings.ToLower(text)})
	if len(matches) == 0 || len(matches[0].MatchedIndexes) == 0 {
		return 0, false
	}
	idx := matches[0].MatchedIndexes
	span := idx[len(idx)-1] - idx[0] + 1
	return 1 - float64(len(idx))/float64(span+1), true
}
