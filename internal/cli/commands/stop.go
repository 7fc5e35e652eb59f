package commands

import (
	"context"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pwr/internal/config"
	"pwr/internal/transport"
)

// StopCommand asks the runner to stop whatever it is running
type StopCommand struct {
	config *config.Config
}

// NewStopCommand creates a new StopCommand
func NewStopCommand(cfg *config.Config) *StopCommand {
	return &StopCommand{config: cfg}
}

// Execute runs the command
func (sc *StopCommand) Execute(cmd *cobra.Command, args []string) error {
	timeout := sc.config.RequestTimeout
	if timeout <= 0 {
		timeout = config.DefaultRequestTimeout
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	if err := transport.NewClient(sc.config.ServerURL).Stop(ctx); err != nil {
		return err
	}
	color.Green("Stop request sent to %s", sc.config.ServerURL)
	return nil
}
