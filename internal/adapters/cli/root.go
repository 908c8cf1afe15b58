// Package cli wires the agent's cobra commands: the long-running daemon
// loop, a single-tick mode, and small clients for the advisory surface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath  string
	advisorAddr string
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "discordia",
		Short: "Discordia agent - autonomous player for the Discordia RTS",
		Long: `Discordia agent plays the game through its polling HTTP interface:
every tick it fetches a fog-of-war snapshot, allocates a goal to each
owned unit, and submits one collision-free action batch.

Examples:
  discordia run
  discordia run --config ./configs/config.yaml
  discordia once
  discordia status
  discordia strategy get
  discordia strategy set --priority-mode military --soldier-cap 150`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (defaults to ./config.yaml search paths)")
	rootCmd.PersistentFlags().StringVar(&advisorAddr, "advisor", defaultAdvisorAddr(),
		"Advisor address for status/strategy commands")

	rootCmd.AddCommand(NewRunCommand())
	rootCmd.AddCommand(NewOnceCommand())
	rootCmd.AddCommand(NewStatusCommand())
	rootCmd.AddCommand(NewStrategyCommand())

	return rootCmd
}

// defaultAdvisorAddr returns the advisor address for client-side commands
func defaultAdvisorAddr() string {
	if addr := os.Getenv("DISCORDIA_ADVISOR"); addr != "" {
		return addr
	}
	return "localhost:9090"
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
