// Package score rates how English-like a candidate plaintext is by looking
// up its words, and glued-together fragments of them, in a dictionary.
package score

import (
	"context"
	"strings"
	"unicode"

	"railfence/internal/config"
	"railfence/internal/dictionary"
)

// Scoring constants.
const (
	MinTokenLength = 3
	MaxSubTokenLen = 8
	SubTokenCap    = 15
	CoverageWeight = 5.0
	SpacingWeight  = 0.2
	ZeroHitPenalty = -10.0
	defaultWeight  = 1
)

// CommonWords boosts words that show up in almost any English sentence.
// Entries shorter than MinTokenLength are never looked up.
var CommonWords = map[string]int{
	"the":   6,
	"and":   6,
	"hello": 6,
	"for":   5,
	"are":   5,
	"you":   5,
	"this":  5,
	"that":  5,
	"with":  5,
	"meet":  5,
	"world": 5,
	"is":    4,
	"was":   4,
	"have":  4,
	"hi":    3,
}

// Weight returns the multiplier for a confirmed word.
func Weight(word string) int {
	if w, ok := CommonWords[word]; ok {
		return w
	}
	return defaultWeight
}

// Breakdown is the itemized result of scoring one candidate.
type Breakdown struct {
	Tokens    []string `json:"tokens"`
	SubTokens []string `json:"sub_tokens"`
	Words     []string `json:"words"`
	Checked   int      `json:"checked"`
	Hits      int      `json:"hits"`
	Weighted  float64  `json:"weighted"`
	Coverage  float64  `json:"coverage"`
	Spacing   float64  `json:"spacing"`
	Penalty   float64  `json:"penalty"`
	Total     float64  `json:"total"`
}

// Scorer computes lexical plausibility against a dictionary.
type Scorer struct {
	dict   dictionary.Provider
	budget int
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithBudget caps the number of dictionary lookups per candidate. Values are
// clamped to [config.MinBudget, config.MaxBudget].
func WithBudget(n int) Option {
	return func(s *Scorer) { s.budget = config.ClampBudget(n) }
}

// New returns a Scorer backed by dict.
func New(dict dictionary.Provider, opts ...Option) *Scorer {
	s := &Scorer{dict: dict, budget: config.DefaultBudget}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Budget is the per-candidate lookup budget.
func (s *Scorer) Budget() int { return s.budget }

// Score returns the composite plausibility score of text.
func (s *Scorer) Score(ctx context.Context, text string) float64 {
	return s.Explain(ctx, text).Total
}

// Explain scores text and reports how the score was reached.
//
// Total = sum(weight(w) * max(len(w), 3)) over confirmed words
// + 5 * hits/checked + 0.2 * whitespace runes - 10 if nothing was confirmed.
// The empty string scores 0.
func (s *Scorer) Explain(ctx context.Context, text string) Breakdown {
	if text == "" {
		return Breakdown{}
	}

	b := Breakdown{Tokens: Tokens(text)}
	b.SubTokens = SubTokens(b.Tokens, SubTokenCap)

	candidates := make([]string, 0, len(b.Tokens)+len(b.SubTokens))
	candidates = append(candidates, b.Tokens...)
	candidates = append(candidates, b.SubTokens...)

	weighted := 0
	for _, word := range candidates {
		if b.Checked >= s.budget {
			break
		}
		if s.dict.Contains(ctx, word) {
			b.Hits++
			b.Words = append(b.Words, word)
			weighted += Weight(word) * max(len(word), MinTokenLength)
		}
		b.Checked++
	}

	b.Weighted = float64(weighted)
	if b.Checked > 0 {
		b.Coverage = float64(b.Hits) / float64(b.Checked) * CoverageWeight
	}
	b.Spacing = float64(countSpaces(text)) * SpacingWeight
	if b.Hits == 0 {
		b.Penalty = ZeroHitPenalty
	}
	b.Total = b.Weighted + b.Coverage + b.Spacing + b.Penalty
	return b
}

// Tokens lower-cases text, turns every rune outside a-z into a separator and
// returns the resulting words of at least MinTokenLength letters.
func Tokens(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' {
			return r
		}
		return ' '
	}, strings.ToLower(text))

	var tokens []string
	for _, f := range strings.Fields(cleaned) {
		if len(f) >= MinTokenLength {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// SubTokens returns contiguous fragments of each token, longest first
// (MaxSubTokenLen down to MinTokenLength) and left to right, stopping once
// limit fragments have been produced across all tokens.
func SubTokens(tokens []string, limit int) []string {
	var subs []string
	if limit <= 0 {
		return subs
	}
	for _, tok := range tokens {
		for n := min(MaxSubTokenLen, len(tok)); n >= MinTokenLength; n-- {
			for i := 0; i+n <= len(tok); i++ {
				subs = append(subs, tok[i:i+n])
				if len(subs) >= limit {
					return subs
				}
			}
		}
	}
	return subs
}

func countSpaces(text string) int {
	n := 0
	for _, r := range text {
		if unicode.IsSpace(r) {
			n++
		}
	}
	return n
}
