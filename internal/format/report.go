package format

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"railfence/internal/attack"
	"railfence/internal/score"
	"railfence/internal/store"
)

// BestMarker labels the best attempt in rendered tables.
const BestMarker = "most likely"

// plaintextWidth bounds the plaintext column in tables.
const plaintextWidth = 60

// AttackReport is everything shown after one attack.
type AttackReport struct {
	Ciphertext string
	Result     *attack.Result
	Top        int                     // rows shown; <= 0 shows every attempt
	Breakdowns map[int]score.Breakdown // keyed by rails; nil hides the explain columns
	Elapsed    time.Duration
}

type attackJSON struct {
	Ciphertext string                  `json:"ciphertext"`
	Best       *attack.Attempt         `json:"best"`
	Attempts   []*attack.Attempt       `json:"attempts"`
	Total      int                     `json:"total"`
	Breakdowns map[int]score.Breakdown `json:"breakdowns,omitempty"`
	ElapsedMS  int64                   `json:"elapsed_ms"`
}

// FormatAttack renders the ranked attempts, with the best one marked, and a
// "Total attempts / Best guess" summary.
func FormatAttack(r *AttackReport, m Mode) (string, error) {
	res := r.Result
	if m == JSON {
		doc := attackJSON{
			Ciphertext: r.Ciphertext,
			Best:       res.Best,
			Attempts:   res.Top(r.Top),
			Total:      len(res.Attempts),
			Breakdowns: r.Breakdowns,
			ElapsedMS:  r.Elapsed.Milliseconds(),
		}
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal attack report: %w", err)
		}
		return string(data) + "\n", nil
	}

	var b strings.Builder
	if m == Markdown {
		b.WriteString("## Rail fence brute force\n\n")
	}
	fmt.Fprintf(&b, "Ciphertext: %s (%d characters)\n\n", Visible(r.Ciphertext), utf8.RuneCountInString(r.Ciphertext))

	tbl := NewTable(m)
	header := []string{"#", "Rails", "Score", "Plaintext", ""}
	if r.Breakdowns != nil {
		header = append(header, "Hits", "Weighted", "Coverage", "Spacing", "Penalty")
	}
	tbl.Header(header...)
	tbl.Columns(
		ColumnConfig{Number: 2, Align: AlignRight},
		ColumnConfig{Number: 3, Align: AlignRight},
		ColumnConfig{Number: 4, MaxWidth: plaintextWidth},
	)
	for i, a := range res.Top(r.Top) {
		mark := ""
		if a == res.Best {
			mark = BestMarker
		}
		row := []any{i + 1, a.Rails, FmtScore(a.Score), Truncate(Visible(a.Plaintext), plaintextWidth), mark}
		if bd, ok := r.Breakdowns[a.Rails]; ok {
			row = append(row,
				fmt.Sprintf("%d/%d", bd.Hits, bd.Checked),
				FmtScore(bd.Weighted), FmtScore(bd.Coverage), FmtScore(bd.Spacing), FmtScore(bd.Penalty))
		} else if r.Breakdowns != nil {
			row = append(row, "-", "-", "-", "-", "-")
		}
		tbl.Row(row...)
	}
	b.WriteString(tbl.String())
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Total attempts: %d\n", len(res.Attempts))
	if res.Best != nil {
		fmt.Fprintf(&b, "Best guess: rails=%d score=%s\n", res.Best.Rails, FmtScore(res.Best.Score))
		fmt.Fprintf(&b, "  %s\n", Visible(res.Best.Plaintext))
	}
	if r.Elapsed > 0 {
		fmt.Fprintf(&b, "Elapsed: %s\n", FmtDuration(r.Elapsed))
	}
	return b.String(), nil
}

// FormatHistory renders stored runs, newest first as given.
func FormatHistory(runs []*store.Run, m Mode) (string, error) {
	if m == JSON {
		if runs == nil {
			runs = []*store.Run{}
		}
		data, err := json.MarshalIndent(runs, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal history: %w", err)
		}
		return string(data) + "\n", nil
	}
	if len(runs) == 0 {
		return "No attacks recorded.\n", nil
	}

	tbl := NewTable(m)
	tbl.Header("ID", "When", "Backend", "Ciphertext", "Rails", "Score", "Best guess", "Tried")
	tbl.Columns(
		ColumnConfig{Number: 1, Align: AlignRight},
		ColumnConfig{Number: 5, Align: AlignRight},
		ColumnConfig{Number: 6, Align: AlignRight},
		ColumnConfig{Number: 8, Align: AlignRight},
	)
	for _, r := range runs {
		tbl.Row(
			r.ID,
			r.CreatedAt,
			r.Backend,
			Truncate(Visible(r.Ciphertext), 30),
			r.BestRails,
			FmtScore(r.BestScore),
			Truncate(Visible(r.BestPlaintext), 40),
			r.Total,
		)
	}
	return tbl.String() + "\n", nil
}

// FormatRun renders one stored run with its ranked attempts, the best one
// marked.
func FormatRun(run *store.Run, m Mode) (string, error) {
	if m == JSON {
		data, err := json.MarshalIndent(run, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal run: %w", err)
		}
		return string(data) + "\n", nil
	}

	var b strings.Builder
	if m == Markdown {
		fmt.Fprintf(&b, "## Run %d\n\n", run.ID)
	} else {
		fmt.Fprintf(&b, "Run %d (%s, %s backend)\n", run.ID, run.CreatedAt, run.Backend)
	}
	fmt.Fprintf(&b, "Ciphertext: %s (%d characters)\n\n", Visible(run.Ciphertext), utf8.RuneCountInString(run.Ciphertext))

	tbl := NewTable(m)
	tbl.Header("#", "Rails", "Score", "Plaintext", "")
	tbl.Columns(
		ColumnConfig{Number: 2, Align: AlignRight},
		ColumnConfig{Number: 3, Align: AlignRight},
		ColumnConfig{Number: 4, MaxWidth: plaintextWidth},
	)
	marked := false
	for i, a := range run.Attempts {
		mark := ""
		if !marked && a.Rails == run.BestRails {
			mark = BestMarker
			marked = true
		}
		tbl.Row(i+1, a.Rails, FmtScore(a.Score), Truncate(Visible(a.Plaintext), plaintextWidth), mark)
	}
	b.WriteString(tbl.String())
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Total attempts: %d (%d stored)\n", run.Total, len(run.Attempts))
	fmt.Fprintf(&b, "Best guess: rails=%d score=%s\n", run.BestRails, FmtScore(run.BestScore))
	fmt.Fprintf(&b, "  %s\n", Visible(run.BestPlaintext))
	return b.String(), nil
}
