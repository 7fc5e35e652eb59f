package commands

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pwr/internal/config"
	"pwr/internal/logging"
	"pwr/internal/transport"
)

// ReportCommand fetches the HTML report of the last run from the runner
type ReportCommand struct {
	config *config.Config
	open   func(path string) error
}

// NewReportCommand creates a new ReportCommand
func NewReportCommand(cfg *config.Config) *ReportCommand {
	return &ReportCommand{config: cfg, open: openInBrowser}
}

// Execute runs the command
func (rc *ReportCommand) Execute(cmd *cobra.Command, args []string) error {
	projectPath, err := filepath.Abs(rc.config.ProjectPath)
	if err != nil {
		return fmt.Errorf("resolve project path: %w", err)
	}

	timeout := rc.config.RequestTimeout
	if timeout <= 0 {
		timeout = config.DefaultRequestTimeout
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	html, err := transport.NewClient(rc.config.ServerURL).Report(ctx, projectPath)
	if err != nil {
		return err
	}

	path := rc.config.GetReportPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}
	if err := os.WriteFile(path, html, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	color.Green("Report written to %s", path)

	if rc.config.Flags.OpenReport {
		if err := rc.open(path); err != nil {
			return fmt.Errorf("open report: %w", err)
		}
		logging.Debug("report", "opened %s", path)
	}
	return nil
}

func openInBrowser(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	return cmd.Start()
}
