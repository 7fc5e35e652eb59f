package discovery

import (
	"pwr/internal/domain"
)

// TreeBuilder turns the project file tree into the selection tree
type TreeBuilder struct {
	parser     *Parser
	extensions map[string]bool
}

// NewTreeBuilder creates a TreeBuilder that expands files with one of the
// given extensions (e.g. ".spec.ts") into suites and cases.
func NewTreeBuilder(parser *Parser, specExtensions []string) *TreeBuilder {
	extensions := make(map[string]bool)
	for _, ext := range specExtensions {
		extensions[ext] = true
	}
	return &TreeBuilder{parser: parser, extensions: extensions}
}

// IsSpecFile reports whether the entry is a test source file
func (b *TreeBuilder) IsSpecFile(entry domain.FileEntry) bool {
	return entry.Kind == domain.EntryFile && b.extensions[entry.Extension]
}

// Build wraps every entry into a TestNode. Folders keep their children, spec
// files get their parsed suites and cases, every other file is a leaf.
func (b *TreeBuilder) Build(entries []domain.FileEntry) []domain.TestNode {
	nodes := make([]domain.TestNode, 0, len(entries))
	for _, entry := range entries {
		switch {
		case entry.Kind == domain.EntryFolder:
			nodes = append(nodes, domain.TestNode{
				ID:       entry.ID,
				Name:     entry.Name,
				Kind:     domain.KindFolder,
				Children: b.Build(entry.Children),
				Expanded: true,
			})
		case b.IsSpecFile(entry):
			children := b.parser.Parse(entry.Source())
			nodes = append(nodes, domain.TestNode{
				ID:       entry.ID,
				Name:     entry.Name,
				Kind:     domain.KindFile,
				Children: children,
				Expanded: true,
				Count:    CountCases(children),
			})
		default:
			nodes = append(nodes, domain.TestNode{
				ID:       entry.ID,
				Name:     entry.Name,
				Kind:     domain.KindFile,
				Expanded: true,
			})
		}
	}
	return nodes
}
