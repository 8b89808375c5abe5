package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/tickethook/internal/cli"
	"github.com/example/tickethook/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "tickethook",
		Short:   "tickethook - commit-driven ticket updates",
		Version: version.String(),
		Long: `tickethook parses commit messages for ticket commands like "fixes #12"
and applies the matching state transitions to tickets. It runs as a
webhook server or processes single changesets from the command line.`,
	}

	// Add subcommands
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.ServeCmd())
	rootCmd.AddCommand(cli.ProcessCmd())
	rootCmd.AddCommand(cli.TicketCmd())
	rootCmd.AddCommand(cli.UserCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
