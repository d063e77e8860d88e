package main

import (
	"fmt"
	"unicode/utf8"

	"railfence/internal/attack"
	"railfence/internal/config"
	"railfence/internal/dictionary"
	"railfence/internal/logging"
	"railfence/internal/score"
)

// minAttackLength is the shortest ciphertext the attack command accepts.
const minAttackLength = 3

// validateRails enforces 2 <= rails < len(text) for the cipher commands.
func validateRails(text string, rails int) error {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return fmt.Errorf("text must not be empty")
	}
	if rails < 2 {
		return fmt.Errorf("--rails must be at least 2, got %d", rails)
	}
	if rails >= n {
		return fmt.Errorf("--rails must be less than the text length (%d), got %d", n, rails)
	}
	return nil
}

// newScorer builds the dictionary backend named by cfg.Dictionary and wraps
// it in a Scorer.
func newScorer(c config.Config) (*score.Scorer, error) {
	dict, err := dictionary.New(c.Dictionary, dictionary.WithLogger(logging.New("dictionary")))
	if err != nil {
		return nil, fmt.Errorf("dictionary: %w", err)
	}
	return score.New(dict, score.WithBudget(c.Scoring.Budget)), nil
}

// newEngine returns the attack engine and its scorer for c.
func newEngine(c config.Config) (*attack.Engine, *score.Scorer, error) {
	scorer, err := newScorer(c)
	if err != nil {
		return nil, nil, err
	}
	engine := attack.New(scorer,
		attack.WithParallel(c.Attack.Parallel),
		attack.WithLogger(logging.New("attack")),
	)
	return engine, scorer, nil
}
