package main

import (
	"fmt"
	"os"

	"pwr/internal/cli"
	"pwr/internal/cli/commands"
	"pwr/internal/config"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:   "pwr",
		Short: "Playwright test runner client",
		Long: `Discover Playwright tests, pick the ones to run and send them to a local runner or to the cloud.
Progress is streamed back live and every reported test is classified as passed or failed.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Defaults until a command loads the project config
	cfg := config.New()

	// Populated by command flags
	var flags cli.Flags

	cmds := commands.NewCommands(cfg)
	cmds.Register(rootCmd, &flags, cfg)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
