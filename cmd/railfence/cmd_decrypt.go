package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"railfence/internal/railfence"
)

var decryptFlags struct {
	rails int
}

var decryptCmd = &cobra.Command{
	Use:   "decrypt <ciphertext>",
	Short: "Decrypt rail-fence ciphertext with a known rail count",
	Args:  cobra.ExactArgs(1),
	RunE:  runDecrypt,
}

func init() {
	f := decryptCmd.Flags()
	f.IntVarP(&decryptFlags.rails, "rails", "r", 0, "Number of rails, 2 <= N < text length (required)")

	_ = decryptCmd.MarkFlagRequired("rails")
}

func runDecrypt(cmd *cobra.Command, args []string) error {
	text := args[0]
	if err := validateRails(text, decryptFlags.rails); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), railfence.Decrypt(text, decryptFlags.rails))
	return nil
}
