package commands

import (
	"os"

	"github.com/spf13/cobra"

	"pwr/internal/cli"
	"pwr/internal/config"
	"pwr/internal/discovery"
	"pwr/internal/logging"
	"pwr/internal/storage"
	"pwr/internal/ui"
)

// Commands holds all CLI commands
type Commands struct {
	List   *ListCommand
	Spec   *SpecCommand
	Run    *RunCommand
	Stop   *StopCommand
	Report *ReportCommand
}

// NewCommands creates all commands with dependencies. cfg is filled in
// before each command runs, so dependencies keep the pointer and read it
// lazily.
func NewCommands(cfg *config.Config) *Commands {
	filter := discovery.NewFilter()
	parser := discovery.NewParser()
	jsonStorage := storage.NewJSONStorage(cfg)
	loader := NewTreeLoader(cfg, filter, parser, jsonStorage)
	formatter := ui.NewFormatter()
	resultViewer := ui.NewResultViewer()

	return &Commands{
		List:   NewListCommand(cfg, loader, jsonStorage, formatter),
		Spec:   NewSpecCommand(cfg, loader, formatter),
		Run:    NewRunCommand(cfg, loader, formatter, resultViewer),
		Stop:   NewStopCommand(cfg),
		Report: NewReportCommand(cfg),
	}
}

// Prepare loads the configuration layers for the project and applies the
// parsed flags on top
func Prepare(cfg *config.Config, flags *cli.Flags) error {
	loaded, err := config.Load(flags.ProjectPath)
	if err != nil {
		return err
	}
	*cfg = *loaded
	cfg.ApplyFlags(flags.ToConfigFlags())

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logging.Init(level, os.Stderr)
	return nil
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	prepare := func(cmd *cobra.Command, args []string) error {
		return Prepare(cfg, flags)
	}

	persistent := rootCmd.PersistentFlags()
	persistent.StringVarP(&flags.ProjectPath, "project", "C", "", "Path to the Playwright project (default: current directory)")
	persistent.StringVarP(&flags.TestDir, "test-dir", "t", "", "Test directory relative to the project (default: ./tests)")
	persistent.StringVar(&flags.ServerURL, "server", "", "Base URL of the runner server")
	persistent.StringVar(&flags.ProgressURL, "progress-url", "", "URL of the runner progress channel")
	persistent.StringVar(&flags.LogLevel, "log-level", "", "Diagnostics log level: debug, info, warn or error")

	selectFlags := func(cmd *cobra.Command) {
		cmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter spec files by name pattern (supports wildcards, e.g., '*login.spec.ts' or '*checkout*')")
		cmd.Flags().StringArrayVarP(&flags.Select, "select", "s", nil, "Select a test by id or path, e.g. 'login.spec.ts > Login > logs in' (repeatable)")
		cmd.Flags().BoolVarP(&flags.All, "all", "a", false, "Select every test")
		cmd.Flags().StringVar(&flags.Selection, "selection", "", "Select the tests of a saved selection")
	}

	// Run command
	runCmd := &cobra.Command{
		Use:     "run",
		Short:   "Run Playwright tests on the runner",
		Long:    "Select Playwright tests and run them on the local runner or in the cloud, following progress live",
		RunE:    c.Run.Execute,
		PreRunE: prepare,
	}
	selectFlags(runCmd)
	runCmd.Flags().BoolVar(&flags.Cloud, "cloud", false, "Run the selected spec files in the cloud (headless only)")
	runCmd.Flags().BoolVar(&flags.Headed, "headed", false, "Run browsers headed")
	runCmd.Flags().BoolVarP(&flags.Interactive, "interactive", "i", false, "Pick tests in a tree view before running")
	runCmd.Flags().StringVar(&flags.SaveSelection, "save-selection", "", "Save the selected tests under a name")
	runCmd.Flags().BoolVarP(&flags.OpenResults, "open-results", "o", false, "Open the results viewer when the run finishes")
	rootCmd.AddCommand(runCmd)

	// List command
	listCmd := &cobra.Command{
		Use:     "list",
		Short:   "List discovered tests",
		Long:    "Scan the test directory and print the test tree without running anything",
		RunE:    c.List.Execute,
		PreRunE: prepare,
	}
	selectFlags(listCmd)
	listCmd.Flags().BoolVarP(&flags.TestCases, "test-cases", "c", false, "List suites and test cases below each spec file")
	rootCmd.AddCommand(listCmd)

	// Selections command
	selectionsCmd := &cobra.Command{
		Use:     "selections",
		Short:   "List saved selections",
		RunE:    c.List.ListSelections,
		PreRunE: prepare,
	}
	rootCmd.AddCommand(selectionsCmd)

	// Spec command
	specCmd := &cobra.Command{
		Use:     "spec",
		Short:   "Print the run request for the selected tests",
		Long:    "Compile the selected tests into the JSON body a local or cloud run would send",
		RunE:    c.Spec.Execute,
		PreRunE: prepare,
	}
	selectFlags(specCmd)
	specCmd.Flags().BoolVar(&flags.Cloud, "cloud", false, "Print the cloud run body instead of the local one")
	rootCmd.AddCommand(specCmd)

	// Stop command
	stopCmd := &cobra.Command{
		Use:     "stop",
		Short:   "Stop the tests running on the runner",
		RunE:    c.Stop.Execute,
		PreRunE: prepare,
	}
	rootCmd.AddCommand(stopCmd)

	// Report command
	reportCmd := &cobra.Command{
		Use:     "report",
		Short:   "Fetch the HTML report of the last run",
		Long:    "Download the Playwright HTML report the runner produced for this project and save it locally",
		RunE:    c.Report.Execute,
		PreRunE: prepare,
	}
	reportCmd.Flags().StringVar(&flags.ReportOutput, "output", "", "Write the report to this file (default: .pwr/report.html in the project)")
	reportCmd.Flags().BoolVar(&flags.OpenReport, "open", false, "Open the report in the browser")
	rootCmd.AddCommand(reportCmd)
}
