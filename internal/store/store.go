package store

import (
	"errors"

	"railfence/internal/attack"
)

// ErrNotFound is returned when a run id does not exist.
var ErrNotFound = errors.New("run not found")

// Attempt is one stored ranked attempt.
type Attempt = attack.Attempt

// Run is one recorded brute-force attack.
type Run struct {
	ID         int64  `json:"id"`
	Ciphertext string `json:"ciphertext"`
	MaxRails   int    `json:"max_rails"` // 0 when no hint was given
	Backend    string `json:"backend"`

	BestRails     int     `json:"best_rails"`
	BestPlaintext string  `json:"best_plaintext"`
	BestScore     float64 `json:"best_score"`

	// Total is the number of rail counts tried; Attempts holds the ranked
	// attempts that were kept, which may be fewer.
	Total    int       `json:"total"`
	Attempts []Attempt `json:"attempts,omitempty"`

	DurationMS int64  `json:"duration_ms"`
	CreatedAt  string `json:"created_at"` // RFC 3339, UTC
}

// NewRun captures res as a Run. keep bounds the stored attempts; keep <= 0
// stores all of them.
func NewRun(ciphertext string, maxRails int, backend string, res *attack.Result, keep int) *Run {
	r := &Run{
		Ciphertext: ciphertext,
		MaxRails:   maxRails,
		Backend:    backend,
		Total:      len(res.Attempts),
	}
	if res.Best != nil {
		r.BestRails = res.Best.Rails
		r.BestPlaintext = res.Best.Plaintext
		r.BestScore = res.Best.Score
	}
	for _, a := range res.Top(keep) {
		r.Attempts = append(r.Attempts, *a)
	}
	return r
}

// Store is the attack history facade. Implementation is SQLite or in-memory.
type Store interface {
	// SaveRun persists run, assigning ID and CreatedAt.
	SaveRun(run *Run) (int64, error)
	// GetRun returns the run with its stored attempts, or ErrNotFound.
	GetRun(id int64) (*Run, error)
	// ListRuns returns the most recent runs first, without attempts.
	// limit <= 0 lists everything.
	ListRuns(limit int) ([]*Run, error)
	Close() error
}
