package commands

import (
	"fmt"

	"github.com/fatih/color"

	"pwr/internal/config"
	"pwr/internal/discovery"
	"pwr/internal/domain"
	"pwr/internal/logging"
	"pwr/internal/selection"
	"pwr/internal/storage"
)

// TreeLoader discovers the test tree and applies the selection flags
type TreeLoader struct {
	config  *config.Config
	filter  *discovery.Filter
	parser  *discovery.Parser
	storage storage.Storage
}

// NewTreeLoader creates a new TreeLoader
func NewTreeLoader(
	cfg *config.Config,
	filter *discovery.Filter,
	parser *discovery.Parser,
	st storage.Storage,
) *TreeLoader {
	return &TreeLoader{
		config:  cfg,
		filter:  filter,
		parser:  parser,
		storage: st,
	}
}

// Load scans the test directory and builds the selection tree. Nothing is
// checked yet.
func (l *TreeLoader) Load() (selection.Tree, error) {
	builder := discovery.NewTreeBuilder(l.parser, l.config.SpecExtensions)
	scanner := discovery.NewScanner(l.config.ProjectPath, l.config.PathsToIgnore, builder.IsSpecFile)

	root, err := scanner.Scan(l.config.GetTestPath())
	if err != nil {
		return selection.Tree{}, err
	}

	entries := l.filter.FilterTree([]domain.FileEntry{root}, l.config.Flags.NameFilter)
	tree := selection.New(builder.Build(entries))
	logging.Debug("discovery", "found %d case(s) below %s",
		discovery.CountCases(tree.Roots), l.config.GetTestPath())
	return tree, nil
}

// Select checks the nodes named by --all, --selection and --select
func (l *TreeLoader) Select(tree selection.Tree) (selection.Tree, error) {
	flags := l.config.Flags

	if flags.All {
		for _, root := range tree.Roots {
			tree = tree.Check(root.ID, true)
		}
	}

	if flags.Selection != "" {
		ids, err := l.storage.Load(flags.Selection)
		if err != nil {
			return tree, err
		}
		missing := 0
		for _, id := range ids {
			if _, ok := selection.Find(tree.Roots, id); !ok {
				logging.Debug("selection", "saved case %s no longer exists", id)
				missing++
				continue
			}
			tree = tree.Check(id, true)
		}
		if missing > 0 {
			color.Yellow("%d saved test case(s) of %q no longer exist", missing, flags.Selection)
		}
	}

	for _, selector := range flags.Select {
		node, err := selection.Resolve(tree.Roots, selector)
		if err != nil {
			return tree, fmt.Errorf("select %q: %w", selector, err)
		}
		tree = tree.Check(node.ID, true)
	}
	return tree, nil
}

// Save stores the checked cases under --save-selection, if given
func (l *TreeLoader) Save(tree selection.Tree) error {
	name := l.config.Flags.SaveSelection
	if name == "" {
		return nil
	}
	if err := l.storage.Save(name, selection.CheckedCaseIDs(tree.Roots)); err != nil {
		return fmt.Errorf("failed to save selection: %w", err)
	}
	color.Green("Selection %q saved", name)
	return nil
}
