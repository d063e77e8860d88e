// Package attack runs a ciphertext-only brute-force attack on the rail-fence
// cipher: every feasible rail count is tried and the candidate plaintexts are
// ranked by lexical score.
package attack

import (
	"context"
	"log/slog"
	"sort"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"railfence/internal/logging"
	"railfence/internal/metrics"
	"railfence/internal/railfence"
)

// Scorer rates a candidate plaintext; higher is more plausible.
type Scorer interface {
	Score(ctx context.Context, text string) float64
}

// Attempt is the outcome of decrypting under one rail count.
type Attempt struct {
	Rails     int     `json:"rails"`
	Plaintext string  `json:"plaintext"`
	Score     float64 `json:"score"`
}

// Result holds every attempt, sorted by descending score, and the best one.
//
// Best is chosen while iterating rails in ascending order: the first attempt
// with the strictly greatest score. It points into Attempts but is not
// derived from the sorted order.
type Result struct {
	Best     *Attempt   `json:"best"`
	Attempts []*Attempt `json:"attempts"`
}

// BestIndex returns the position of Best in Attempts, or -1.
func (r *Result) BestIndex() int {
	if r == nil || r.Best == nil {
		return -1
	}
	for i, a := range r.Attempts {
		if a == r.Best {
			return i
		}
	}
	return -1
}

// Top returns at most k attempts from the front of the ranking. k <= 0
// returns all of them.
func (r *Result) Top(k int) []*Attempt {
	if k <= 0 || k >= len(r.Attempts) {
		return r.Attempts
	}
	return r.Attempts[:k]
}

// Engine drives the attack.
type Engine struct {
	scorer   Scorer
	parallel int
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithParallel evaluates up to n rail counts concurrently. n <= 1 keeps the
// evaluation sequential.
func WithParallel(n int) Option {
	return func(e *Engine) {
		if n < 1 {
			n = 1
		}
		e.parallel = n
	}
}

// WithLogger configures structured logging.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New returns an Engine that ranks candidates with scorer.
func New(scorer Scorer, opts ...Option) *Engine {
	e := &Engine{
		scorer:   scorer,
		parallel: 1,
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Limit returns the highest rail count tried for a message of n characters.
// Only hint == 0 means no hint; a negative hint is a real value and clamps
// to 2. The result never drops below 2 and never exceeds max(n-1, 2).
func Limit(n, hint int) int {
	if hint == 0 {
		hint = n - 1
	}
	return min(max(2, hint), max(n-1, 2))
}

// Attack decrypts ciphertext under rails 2..Limit and ranks the candidates.
// Ciphertexts shorter than three characters still produce identity
// attempts; callers that want meaningful output validate length first.
// The only error is ctx's, checked between rail counts and once more after
// the last one, so an attack cancelled mid-scoring returns no result.
func (e *Engine) Attack(ctx context.Context, ciphertext string, maxRails int) (*Result, error) {
	start := time.Now()
	limit := Limit(utf8.RuneCountInString(ciphertext), maxRails)
	e.logger.DebugContext(ctx, "attack started", "length", utf8.RuneCountInString(ciphertext), "limit", limit, "parallel", e.parallel)

	attempts := make([]*Attempt, 0, limit-1)
	for rails := 2; rails <= limit; rails++ {
		attempts = append(attempts, &Attempt{Rails: rails})
	}

	var err error
	if e.parallel > 1 {
		err = e.evaluateParallel(ctx, ciphertext, attempts)
	} else {
		err = e.evaluate(ctx, ciphertext, attempts)
	}
	if err != nil {
		return nil, err
	}

	var best *Attempt
	for _, a := range attempts {
		if best == nil || a.Score > best.Score {
			best = a
		}
	}

	sort.SliceStable(attempts, func(i, j int) bool {
		return attempts[i].Score > attempts[j].Score
	})

	metrics.Attacks.Inc()
	metrics.AttackAttempts.Add(float64(len(attempts)))
	metrics.AttackDuration.Observe(time.Since(start).Seconds())
	e.logger.InfoContext(ctx, "attack finished", "attempts", len(attempts), "best_rails", best.Rails, "best_score", best.Score)

	return &Result{Best: best, Attempts: attempts}, nil
}

func (e *Engine) evaluate(ctx context.Context, ciphertext string, attempts []*Attempt) error {
	for _, a := range attempts {
		if err := ctx.Err(); err != nil {
			return err
		}
		e.fill(ctx, ciphertext, a)
	}
	return ctx.Err()
}

// evaluateParallel fills each attempt in place; the slice order stays
// ascending by rails regardless of completion order.
func (e *Engine) evaluateParallel(ctx context.Context, ciphertext string, attempts []*Attempt) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.parallel)
	for _, a := range attempts {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			e.fill(gctx, ciphertext, a)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (e *Engine) fill(ctx context.Context, ciphertext string, a *Attempt) {
	a.Plaintext = railfence.Decrypt(ciphertext, a.Rails)
	a.Score = e.scorer.Score(ctx, a.Plaintext)
	e.logger.DebugContext(ctx, "rails scored", "rails", a.Rails, "score", a.Score)
}
