package commands

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pwr/internal/compiler"
	"pwr/internal/config"
	"pwr/internal/execution"
	"pwr/internal/logging"
	"pwr/internal/selection"
	"pwr/internal/transport"
	"pwr/internal/ui"
)

var errRunFailed = errors.New("test run failed")

// RunCommand handles the run command
type RunCommand struct {
	config    *config.Config
	loader    *TreeLoader
	formatter *ui.Formatter
	viewer    ui.Viewer

	newExecutor func(cfg *config.Config, progress execution.Progress) execution.Executor
	newProgress func(total int) execution.Progress
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(
	cfg *config.Config,
	loader *TreeLoader,
	formatter *ui.Formatter,
	viewer ui.Viewer,
) *RunCommand {
	return &RunCommand{
		config:      cfg,
		loader:      loader,
		formatter:   formatter,
		viewer:      viewer,
		newExecutor: newDispatcher,
		newProgress: func(total int) execution.Progress {
			return ui.NewProgressBar(total)
		},
	}
}

// newDispatcher connects a dispatcher to the configured runner
func newDispatcher(cfg *config.Config, progress execution.Progress) execution.Executor {
	dispatcher := execution.NewDispatcher(
		transport.NewClient(cfg.ServerURL),
		transport.NewSubscriber(cfg.ProgressURL),
	)
	dispatcher.SetAckTimeout(cfg.RequestTimeout)
	dispatcher.SetProgress(progress)
	return dispatcher
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	tree, err := rc.loader.Load()
	if err != nil {
		return err
	}
	if !tree.Selectable {
		color.Yellow("No tests found")
		return nil
	}
	if tree, err = rc.loader.Select(tree); err != nil {
		return err
	}

	target := execution.TargetLocal
	if rc.config.Flags.Cloud {
		target = execution.TargetCloud
	}

	if rc.config.Flags.Interactive || !rc.config.Flags.HasSelection() {
		picked, action, err := ui.NewPicker(rc.config.Headless).Pick(tree)
		if err != nil {
			return err
		}
		switch action {
		case ui.PickQuit:
			return nil
		case ui.PickRunCloud:
			target = execution.TargetCloud
		case ui.PickRunLocal:
			target = execution.TargetLocal
		}
		tree = picked
	}

	if !tree.CanRun() {
		color.Yellow("No tests to execute")
		return nil
	}

	if err := rc.loader.Save(tree); err != nil {
		return err
	}

	req, err := rc.buildRequest(tree, target)
	if err != nil {
		return err
	}
	return rc.dispatch(cmd, req)
}

// buildRequest compiles the checked cases for target
func (rc *RunCommand) buildRequest(tree selection.Tree, target execution.Target) (execution.Request, error) {
	projectPath, err := filepath.Abs(rc.config.ProjectPath)
	if err != nil {
		return execution.Request{}, fmt.Errorf("resolve project path: %w", err)
	}

	if target == execution.TargetCloud {
		req, err := execution.NewCloudRequest(projectPath, rc.config.TestDir, rc.config.Headless,
			compiler.CompileCloud(tree.Roots))
		if errors.Is(err, execution.ErrEmptySelection) {
			return req, fmt.Errorf("%w: cloud runs only include fully selected spec files", err)
		}
		return req, err
	}

	return execution.NewLocalRequest(projectPath, compiler.CompileLocal(tree.Roots),
		selection.CheckedCaseCount(tree.Roots))
}

// dispatch sends req and follows the run until it is done. An interrupt
// cancels the run instead of killing the process.
func (rc *RunCommand) dispatch(cmd *cobra.Command, req execution.Request) error {
	var progress execution.Progress
	if rc.newProgress != nil {
		progress = rc.newProgress(req.Total)
	}
	executor := rc.newExecutor(rc.config, progress)

	color.Cyan("Running %d test case(s) on %s", req.Total, req.Target)
	start := time.Now()

	run, err := executor.Run(cmd.Context(), req)
	if err != nil {
		return err
	}

	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupts)
	go func() {
		select {
		case <-interrupts:
			if executor.Cancel() {
				logging.Info("run", "cancelled by signal")
			}
		case <-run.Done():
		}
	}()

	<-run.Done()
	state, runErr := run.State(), run.Err()
	results := run.Results()

	rc.formatter.PrintReport(state, results, time.Since(start))
	if runErr != nil {
		rc.formatter.PrintRunError(runErr)
	}

	if rc.config.Flags.OpenResults && len(results) > 0 {
		if err := rc.viewer.View(results); err != nil {
			return err
		}
	}

	switch {
	case runErr != nil:
		return errRunFailed
	case state == execution.StateCancelled:
		return nil
	}
	if summary := run.Summary(); summary.Failed > 0 {
		return fmt.Errorf("%d test(s) failed", summary.Failed)
	}
	return nil
}
