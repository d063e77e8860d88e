// railfence encrypts, decrypts and breaks rail-fence (zigzag) ciphers.
//
// Usage:
//
//	railfence encrypt "<text>" --rails 3 [--show-fence]
//	railfence decrypt "<text>" --rails 3
//	railfence attack "<ciphertext>" [--max-rails N] [--top K] [--format ascii|markdown|json] [--explain]
//	railfence history [--limit N]
//	railfence serve [--metrics-addr :9090]
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"railfence/internal/config"
	"railfence/internal/logging"
	mcpserver "railfence/internal/mcp"
)

// version is set at build time via -ldflags.
var version = "dev"

var globalFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

// cfg is resolved once per invocation by the root PersistentPreRunE.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "railfence",
	Short: "Rail-fence cipher toolkit with a dictionary-scored brute-force attack",
	Long: "railfence encrypts and decrypts the rail-fence transposition cipher and\n" +
		"recovers plaintext without the key by trying every rail count and ranking\n" +
		"candidates by how much they look like English.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&globalFlags.configPath, "config", "", "Config file (YAML or JSON; default railfence.yaml if present)")
	pf.StringVar(&globalFlags.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	pf.StringVar(&globalFlags.logFormat, "log-format", "", "Log format: text or json (overrides config)")

	rootCmd.AddCommand(encryptCmd)
	rootCmd.AddCommand(decryptCmd)
	rootCmd.AddCommand(attackCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.Version = version
	mcpserver.Version = version
}

func setup(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(globalFlags.configPath)
	if err != nil {
		return err
	}
	if globalFlags.logLevel != "" {
		loaded.Log.Level = globalFlags.logLevel
	}
	if globalFlags.logFormat != "" {
		loaded.Log.Format = globalFlags.logFormat
	}
	if err := loaded.Validate(); err != nil {
		return err
	}
	level, err := logging.ParseLevel(loaded.Log.Level)
	if err != nil {
		return err
	}
	logging.Init(level, loaded.Log.Format, cmd.ErrOrStderr())
	cfg = loaded
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
