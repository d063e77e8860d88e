package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"railfence/internal/railfence"
)

var encryptFlags struct {
	rails     int
	showFence bool
}

var encryptCmd = &cobra.Command{
	Use:   "encrypt <text>",
	Short: "Encrypt text with the rail-fence cipher",
	Args:  cobra.ExactArgs(1),
	RunE:  runEncrypt,
}

func init() {
	f := encryptCmd.Flags()
	f.IntVarP(&encryptFlags.rails, "rails", "r", 0, "Number of rails, 2 <= N < text length (required)")
	f.BoolVar(&encryptFlags.showFence, "show-fence", false, "Print the zigzag grid before the ciphertext")

	_ = encryptCmd.MarkFlagRequired("rails")
}

func runEncrypt(cmd *cobra.Command, args []string) error {
	text := args[0]
	if err := validateRails(text, encryptFlags.rails); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if encryptFlags.showFence {
		fmt.Fprintln(out, railfence.Fence(text, encryptFlags.rails))
		fmt.Fprintln(out)
	}
	fmt.Fprintln(out, railfence.Encrypt(text, encryptFlags.rails))
	return nil
}
