package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pwr/internal/compiler"
	"pwr/internal/config"
	"pwr/internal/ui"
)

// SpecCommand prints the request body a run would send
type SpecCommand struct {
	config    *config.Config
	loader    *TreeLoader
	formatter *ui.Formatter
}

// NewSpecCommand creates a new SpecCommand
func NewSpecCommand(cfg *config.Config, loader *TreeLoader, formatter *ui.Formatter) *SpecCommand {
	return &SpecCommand{
		config:    cfg,
		loader:    loader,
		formatter: formatter,
	}
}

// Execute runs the command
func (sc *SpecCommand) Execute(cmd *cobra.Command, args []string) error {
	tree, err := sc.loader.Load()
	if err != nil {
		return err
	}
	if tree, err = sc.loader.Select(tree); err != nil {
		return err
	}

	if !tree.CanRun() {
		color.Yellow("No tests selected")
		return nil
	}

	if sc.config.Flags.Cloud {
		spec := compiler.CompileCloud(tree.Roots)
		if spec.IsEmpty() {
			color.Yellow("Cloud runs only include fully selected spec files")
		}
		return sc.formatter.PrintJSON(spec)
	}
	return sc.formatter.PrintJSON(compiler.CompileLocal(tree.Roots))
}
