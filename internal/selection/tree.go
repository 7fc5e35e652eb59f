// Package selection implements the checked state of the test tree.
//
// A node without children is checked independently. A node with children is
// checked exactly when all of its children are, and every operation here
// restores that rule before returning. All operations are pure: the input
// slice and its nodes are never modified.
package selection

import "pwr/internal/domain"

// Tree is the selection forest plus the derived run gate
type Tree struct {
	Roots []domain.TestNode
	// Selectable is false when the forest holds no case at all
	Selectable bool
}

// New wraps roots into a Tree
func New(roots []domain.TestNode) Tree {
	return Tree{Roots: roots, Selectable: HasAnySelectableLeaf(roots)}
}

// Toggle returns a copy of the tree with the node toggled
func (t Tree) Toggle(id string) Tree {
	return New(Toggle(t.Roots, id))
}

// Check returns a copy of the tree with the node set to checked
func (t Tree) Check(id string, checked bool) Tree {
	return New(Check(t.Roots, id, checked))
}

// CanRun reports whether the run actions should be enabled
func (t Tree) CanRun() bool {
	return t.Selectable && HasCheckedCase(t.Roots)
}

// Toggle flips the checked state of the node with the given id.
//
// A node with children passes its new value to its whole subtree. Every
// ancestor is then recomputed as the AND of its children. Siblings of a
// toggled leaf are left as they are: checking one case never unchecks another.
// An unknown id returns an unchanged copy.
func Toggle(tree []domain.TestNode, id string) []domain.TestNode {
	updated, _ := toggle(tree, id)
	return updated
}

func toggle(items []domain.TestNode, id string) ([]domain.TestNode, bool) {
	out := make([]domain.TestNode, len(items))
	found := false
	for i, item := range items {
		switch {
		case found:
			out[i] = item
		case item.ID == id:
			item.Checked = !item.Checked
			if item.HasChildren() {
				item.Children = setAll(item.Children, item.Checked)
			}
			out[i] = item
			found = true
		case item.HasChildren():
			children, ok := toggle(item.Children, id)
			if ok {
				item.Children = children
				item.Checked = allChecked(children)
				found = true
			}
			out[i] = item
		default:
			out[i] = item
		}
	}
	return out, found
}

// Check sets the node to checked, toggling it only when the value differs
func Check(tree []domain.TestNode, id string, checked bool) []domain.TestNode {
	node, ok := Find(tree, id)
	if !ok || node.Checked == checked {
		return clone(tree)
	}
	return Toggle(tree, id)
}

// ToggleExpanded flips the expanded flag of the node with the given id
func ToggleExpanded(tree []domain.TestNode, id string) []domain.TestNode {
	out := make([]domain.TestNode, len(tree))
	for i, item := range tree {
		if item.ID == id {
			item.Expanded = !item.Expanded
		}
		if item.HasChildren() {
			item.Children = ToggleExpanded(item.Children, id)
		}
		out[i] = item
	}
	return out
}

// Find returns the node with the given id
func Find(tree []domain.TestNode, id string) (domain.TestNode, bool) {
	for _, item := range tree {
		if item.ID == id {
			return item, true
		}
		if node, ok := Find(item.Children, id); ok {
			return node, true
		}
	}
	return domain.TestNode{}, false
}

// HasAnySelectableLeaf reports whether the tree contains at least one case
func HasAnySelectableLeaf(tree []domain.TestNode) bool {
	for _, item := range tree {
		if item.Kind == domain.KindCase || HasAnySelectableLeaf(item.Children) {
			return true
		}
	}
	return false
}

// HasCheckedCase reports whether at least one case is checked
func HasCheckedCase(tree []domain.TestNode) bool {
	return CheckedCaseCount(tree) > 0
}

// CheckedCaseCount returns the number of checked cases
func CheckedCaseCount(tree []domain.TestNode) int {
	count := 0
	for _, item := range tree {
		if item.Kind == domain.KindCase && item.Checked {
			count++
		}
		count += CheckedCaseCount(item.Children)
	}
	return count
}

// CheckedCaseIDs returns the ids of checked cases in tree order
func CheckedCaseIDs(tree []domain.TestNode) []string {
	var ids []string
	for _, item := range tree {
		if item.Kind == domain.KindCase && item.Checked {
			ids = append(ids, item.ID)
		}
		ids = append(ids, CheckedCaseIDs(item.Children)...)
	}
	return ids
}

func setAll(items []domain.TestNode, checked bool) []domain.TestNode {
	out := make([]domain.TestNode, len(items))
	for i, item := range items {
		item.Checked = checked
		if item.HasChildren() {
			item.Children = setAll(item.Children, checked)
		}
		out[i] = item
	}
	return out
}

func allChecked(items []domain.TestNode) bool {
	for _, item := range items {
		if !item.Checked {
			return false
		}
	}
	return true
}

func clone(items []domain.TestNode) []domain.TestNode {
	if items == nil {
		return nil
	}
	out := make([]domain.TestNode, len(items))
	for i, item := range items {
		item.Children = clone(item.Children)
		out[i] = item
	}
	return out
}
