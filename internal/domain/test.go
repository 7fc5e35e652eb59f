package domain

import "strings"

// EntryKind distinguishes folders from files in the source tree
type EntryKind string

const (
	EntryFolder EntryKind = "folder"
	EntryFile   EntryKind = "file"
)

// SourceFile is one file of the project as handed over by the file store.
// It is never modified here.
type SourceFile struct {
	ID        string
	Name      string
	Extension string
	Content   string
}

// FileEntry is a node of the project file tree
type FileEntry struct {
	ID        string
	Name      string
	Kind      EntryKind
	Extension string
	Content   string
	Children  []FileEntry
}

// Source returns the entry as a SourceFile
func (e FileEntry) Source() SourceFile {
	return SourceFile{
		ID:        e.ID,
		Name:      e.Name,
		Extension: e.Extension,
		Content:   e.Content,
	}
}

// NodeKind is the kind of a selection tree node
type NodeKind string

const (
	KindFolder NodeKind = "folder"
	KindFile   NodeKind = "file"
	KindSuite  NodeKind = "suite"
	KindCase   NodeKind = "case"
)

// TestNode is an element of the selection tree.
// Count is only set on file nodes and holds the number of case descendants.
type TestNode struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Kind     NodeKind   `json:"kind"`
	Children []TestNode `json:"children,omitempty"`
	Checked  bool       `json:"checked"`
	Expanded bool       `json:"expanded"`
	Count    int        `json:"count,omitempty"`
}

// HasChildren reports whether the node is an internal node
func (n TestNode) HasChildren() bool {
	return len(n.Children) > 0
}

// ExtensionOf returns the extension of a file name starting at the second-last
// dot, so "login.spec.ts" yields ".spec.ts" and "README.md" yields ".md".
func ExtensionOf(name string) string {
	last := strings.LastIndex(name, ".")
	if last <= 0 {
		return ""
	}
	if prev := strings.LastIndex(name[:last], "."); prev > 0 {
		return name[prev:]
	}
	return name[last:]
}
