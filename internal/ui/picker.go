package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"pwr/internal/domain"
	"pwr/internal/selection"
)

// PickAction is what the user chose to do with the selection
type PickAction int

const (
	PickQuit PickAction = iota
	PickRunLocal
	PickRunCloud
)

// Picker lets the user check suites and cases in a tree view
type Picker struct {
	allowCloud bool
}

// NewPicker creates a new Picker. allowCloud enables the cloud run key.
func NewPicker(allowCloud bool) *Picker {
	return &Picker{allowCloud: allowCloud}
}

// Pick shows tree and returns the edited tree with the chosen action
func (p *Picker) Pick(tree selection.Tree) (selection.Tree, PickAction, error) {
	action := PickQuit
	app := tview.NewApplication()

	root := tview.NewTreeNode("tests").SetSelectable(false)
	view := tview.NewTreeView().
		SetRoot(root).
		SetTopLevel(1).
		SetGraphicsColor(tcell.ColorDarkCyan)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)
	footerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)

	rebuild := func() {
		var selectedID string
		if current := view.GetCurrentNode(); current != nil {
			if id, ok := current.GetReference().(string); ok {
				selectedID = id
			}
		}
		root.ClearChildren()
		var selected *tview.TreeNode
		addNodes(root, tree.Roots, selectedID, &selected)
		if selected != nil {
			view.SetCurrentNode(selected)
		} else if children := root.GetChildren(); len(children) > 0 {
			view.SetCurrentNode(children[0])
		}

		headerView.SetText(pickerHeader(tree, p.allowCloud))
		footerView.SetText(pickerFooter(tree))
	}

	currentID := func() (string, bool) {
		node := view.GetCurrentNode()
		if node == nil {
			return "", false
		}
		id, ok := node.GetReference().(string)
		return id, ok
	}

	view.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter:
			if id, ok := currentID(); ok {
				tree.Roots = selection.ToggleExpanded(tree.Roots, id)
				rebuild()
			}
			return nil
		case tcell.KeyCtrlC, tcell.KeyEsc:
			app.Stop()
			return nil
		case tcell.KeyRune:
			switch event.Rune() {
			case ' ':
				if id, ok := currentID(); ok {
					tree = tree.Toggle(id)
					rebuild()
				}
				return nil
			case 'a':
				all := true
				for _, r := range tree.Roots {
					all = all && r.Checked
				}
				for _, r := range tree.Roots {
					tree = tree.Check(r.ID, !all)
				}
				rebuild()
				return nil
			case 'r':
				if tree.CanRun() {
					action = PickRunLocal
					app.Stop()
				}
				return nil
			case 'c':
				if p.allowCloud && tree.CanRun() {
					action = PickRunCloud
					app.Stop()
				}
				return nil
			case 'q':
				app.Stop()
				return nil
			}
		}
		return event
	})

	rebuild()

	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(view, 0, 1, true).
		AddItem(footerView, 1, 0, false)

	if err := app.SetRoot(layout, true).SetFocus(view).Run(); err != nil {
		return tree, PickQuit, fmt.Errorf("failed to run TUI: %w", err)
	}
	return tree, action, nil
}

// addNodes mirrors items below parent. The node with selectedID, if any, is
// stored in selected.
func addNodes(parent *tview.TreeNode, items []domain.TestNode, selectedID string, selected **tview.TreeNode) {
	for _, item := range items {
		node := tview.NewTreeNode(PickerLabel(item)).
			SetReference(item.ID).
			SetColor(kindColor(item.Kind)).
			SetExpanded(item.Expanded)
		parent.AddChild(node)
		if item.ID == selectedID {
			*selected = node
		}
		addNodes(node, item.Children, selectedID, selected)
	}
}

// PickerLabel is the tree view text of a node
func PickerLabel(node domain.TestNode) string {
	label := CheckMark(node) + " " + tview.Escape(node.Name)
	if node.Kind == domain.KindFile && node.Count > 0 {
		label += fmt.Sprintf(" (%d)", node.Count)
	}
	if node.HasChildren() && !node.Expanded {
		label += " …"
	}
	return label
}

func pickerHeader(tree selection.Tree, allowCloud bool) string {
	keys := "[yellow]Space[white] toggle, [yellow]Enter[white] expand, [yellow]a[white] all, [yellow]r[white] run"
	if allowCloud {
		keys += ", [yellow]c[white] run on cloud"
	}
	return fmt.Sprintf(" Select tests (%d checked) | %s, [yellow]q[white] quit ",
		selection.CheckedCaseCount(tree.Roots), keys)
}

func pickerFooter(tree selection.Tree) string {
	switch {
	case !tree.Selectable:
		return "[red]No test cases found[white]"
	case !tree.CanRun():
		return "[gray]Select at least one test case to run[white]"
	default:
		return "[green]Ready to run[white]"
	}
}

func kindColor(kind domain.NodeKind) tcell.Color {
	switch kind {
	case domain.KindFolder:
		return tcell.ColorDarkCyan
	case domain.KindFile:
		return tcell.ColorYellow
	case domain.KindSuite:
		return tcell.ColorFuchsia
	default:
		return tview.Styles.PrimaryTextColor
	}
}
