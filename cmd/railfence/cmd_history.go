package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"railfence/internal/format"
	"railfence/internal/store"
)

var historyFlags struct {
	dbPath string
	id     int64
	limit  int
	format string
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded attacks, newest first, or show one with --id",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	f := historyCmd.Flags()
	f.StringVar(&historyFlags.dbPath, "db", "", "History database path (overrides config)")
	f.Int64Var(&historyFlags.id, "id", 0, "Show the ranked attempts of this run")
	f.IntVar(&historyFlags.limit, "limit", 20, "Maximum runs to list (0 = all)")
	f.StringVar(&historyFlags.format, "format", "ascii", "Output format: ascii, markdown, json")
}

func runHistory(cmd *cobra.Command, _ []string) error {
	mode, err := format.ParseMode(historyFlags.format)
	if err != nil {
		return err
	}
	path := cfg.Store.Path
	if historyFlags.dbPath != "" {
		path = historyFlags.dbPath
	}
	s, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer s.Close()

	if historyFlags.id != 0 {
		run, err := s.GetRun(historyFlags.id)
		if err != nil {
			return err
		}
		out, err := format.FormatRun(run, mode)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	}

	runs, err := s.ListRuns(historyFlags.limit)
	if err != nil {
		return err
	}
	out, err := format.FormatHistory(runs, mode)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}
