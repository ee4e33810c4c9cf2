// cmd/root.go
//
// CLI entry point for the bylaw data toolchain.
//
// Context
// -------
// One binary, four subcommands: convert (CSV sheets to JSON artifacts),
// slugindex (write the slug index files), validate (normalize everything
// and report issues), and serve (the JSON API).  Configuration and the
// structured logger come up in a persistent pre-run so every subcommand
// sees the same environment.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quiethoursguide/bylawdata/internal/config"
	"github.com/quiethoursguide/bylawdata/internal/logger"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "bylawdata",
	Short: "Normalize, validate, and serve municipal bylaw datasets.",
	Long: `bylawdata maintains the data artifacts behind the quiet hours site:
noise bylaws, overnight parking, bulk trash pickup, and consumer fireworks
rules, one JSON artifact per topic plus slug indexes for routing.`,
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if _, err := logger.New(cfg.Paths.Root, runningInTTY()); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately.  This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
