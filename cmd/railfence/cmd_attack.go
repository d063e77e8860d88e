package main

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"railfence/internal/format"
	"railfence/internal/logging"
	"railfence/internal/score"
	"railfence/internal/store"
)

var attackFlags struct {
	maxRails int
	top      int
	format   string
	explain  bool
	parallel int
	backend  string
	dbPath   string
	noSave   bool
}

var attackCmd = &cobra.Command{
	Use:   "attack <ciphertext>",
	Short: "Recover plaintext without the key by trying every rail count",
	Long: `Decrypts the ciphertext under every rail count from 2 up to --max-rails
(default: length-1), scores each candidate against an English dictionary and
prints them ranked by score. The best candidate is marked "most likely".

The run is recorded in the history database unless --no-save is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runAttack,
}

func init() {
	f := attackCmd.Flags()
	f.IntVar(&attackFlags.maxRails, "max-rails", 0, "Highest rail count to try (0 = length-1)")
	f.IntVar(&attackFlags.top, "top", 0, "Show only the K best attempts (0 = all)")
	f.StringVar(&attackFlags.format, "format", "ascii", "Output format: ascii, markdown, json")
	f.BoolVar(&attackFlags.explain, "explain", false, "Show the score breakdown for each shown attempt")
	f.IntVar(&attackFlags.parallel, "parallel", 0, "Rail counts evaluated concurrently (0 = config value)")
	f.StringVar(&attackFlags.backend, "backend", "", "Dictionary backend: corpus or remote (overrides config)")
	f.StringVar(&attackFlags.dbPath, "db", "", "History database path (overrides config)")
	f.BoolVar(&attackFlags.noSave, "no-save", false, "Do not record the run in history")
}

func runAttack(cmd *cobra.Command, args []string) error {
	ciphertext := args[0]
	if n := utf8.RuneCountInString(ciphertext); n < minAttackLength {
		if n == 0 {
			return fmt.Errorf("ciphertext must not be empty")
		}
		return fmt.Errorf("ciphertext must be at least %d characters, got %d", minAttackLength, n)
	}
	mode, err := format.ParseMode(attackFlags.format)
	if err != nil {
		return err
	}

	c := cfg
	if attackFlags.backend != "" {
		c.Dictionary.Backend = attackFlags.backend
	}
	if attackFlags.parallel > 0 {
		c.Attack.Parallel = attackFlags.parallel
	}
	if attackFlags.dbPath != "" {
		c.Store.Path = attackFlags.dbPath
	}
	if err := c.Validate(); err != nil {
		return err
	}

	engine, scorer, err := newEngine(c)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	start := time.Now()
	res, err := engine.Attack(ctx, ciphertext, attackFlags.maxRails)
	if err != nil {
		return fmt.Errorf("attack: %w", err)
	}
	elapsed := time.Since(start)

	report := &format.AttackReport{
		Ciphertext: ciphertext,
		Result:     res,
		Top:        attackFlags.top,
		Elapsed:    elapsed,
	}
	if attackFlags.explain {
		report.Breakdowns = make(map[int]score.Breakdown)
		for _, a := range res.Top(attackFlags.top) {
			report.Breakdowns[a.Rails] = scorer.Explain(ctx, a.Plaintext)
		}
	}
	out, err := format.FormatAttack(report, mode)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)

	if !attackFlags.noSave {
		run := store.NewRun(ciphertext, attackFlags.maxRails, c.Dictionary.Backend, res, attackFlags.top)
		run.DurationMS = elapsed.Milliseconds()
		saveRun(c.Store.Path, run)
	}
	return nil
}

// saveRun records run; failures are logged and never fail the attack.
func saveRun(path string, run *store.Run) {
	logger := logging.New("store")
	s, err := store.Open(path)
	if err != nil {
		logger.Warn("open history failed", "path", path, "error", err)
		return
	}
	defer s.Close()
	id, err := s.SaveRun(run)
	if err != nil {
		logger.Warn("record attack failed", "path", path, "error", err)
		return
	}
	logger.Debug("attack recorded", "id", id, "path", path)
}
