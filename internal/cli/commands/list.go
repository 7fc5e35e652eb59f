package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pwr/internal/config"
	"pwr/internal/storage"
	"pwr/internal/ui"
)

// ListCommand handles the list command
type ListCommand struct {
	config    *config.Config
	loader    *TreeLoader
	storage   storage.Storage
	formatter *ui.Formatter
}

// NewListCommand creates a new ListCommand
func NewListCommand(
	cfg *config.Config,
	loader *TreeLoader,
	st storage.Storage,
	formatter *ui.Formatter,
) *ListCommand {
	return &ListCommand{
		config:    cfg,
		loader:    loader,
		storage:   st,
		formatter: formatter,
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	tree, err := lc.loader.Load()
	if err != nil {
		return err
	}

	if !tree.Selectable {
		color.Yellow("No tests found")
		return nil
	}

	marks := lc.config.Flags.HasSelection()
	if marks {
		if tree, err = lc.loader.Select(tree); err != nil {
			return err
		}
	}

	lc.formatter.PrintTree(tree.Roots, ui.TreeOptions{
		Cases: lc.config.Flags.TestCases,
		Marks: marks,
	})
	return nil
}

// ListSelections prints the names of the saved selections
func (lc *ListCommand) ListSelections(cmd *cobra.Command, args []string) error {
	names, err := lc.storage.List()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		color.Yellow("No saved selections")
		return nil
	}
	for _, name := range names {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}
