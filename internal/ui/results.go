package ui

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"pwr/internal/domain"
	"pwr/internal/parser"
)

// ResultViewer browses the results of a run in an interactive TUI
type ResultViewer struct{}

// NewResultViewer creates a new ResultViewer
func NewResultViewer() *ResultViewer {
	return &ResultViewer{}
}

// View displays the results until the user quits
func (rv *ResultViewer) View(results []domain.TestResult) error {
	if len(results) == 0 {
		color.Yellow("No test results to show")
		return nil
	}

	onlyFailed := false
	visible := visibleResults(results, onlyFailed)

	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)
	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)

	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)

	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	detailsContainer := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(detailsView, 0, 1, false).
		AddItem(tview.NewBox(), 2, 0, false)

	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 3, 0, false).
		AddItem(detailsContainer, 0, 1, false)

	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)

	updateHeader := func() {
		summary := parser.Summarize(results)
		filter := "all"
		if onlyFailed {
			filter = "failed only"
		}
		headerView.SetText(fmt.Sprintf(
			" Test Results ([green]%d passed[white], [red]%d failed[white], showing %s) | ↑↓ navigate, [yellow]F[white] failed only, → details, ← back, q to exit ",
			summary.Passed, summary.Failed, filter))
	}

	updateDetails := func() {
		index := list.GetCurrentItem()
		if index < 0 || index >= len(visible) {
			statsView.SetText("")
			detailsView.SetText("")
			return
		}
		result := results[visible[index]]
		statsView.SetText(formatResultStats(result))
		detailsView.SetText(formatResultDetails(result)).ScrollToBeginning()
	}

	fillList := func() {
		list.Clear()
		for n, i := range visible {
			list.AddItem(resultListText(results[i], n+1), "", 0, nil)
		}
	}

	list.SetChangedFunc(func(index int, mainText string, secondaryText string, shortcut rune) {
		updateDetails()
	})

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC, tcell.KeyEsc:
			app.Stop()
			return nil
		case tcell.KeyRune:
			switch event.Rune() {
			case 'f', 'F':
				onlyFailed = !onlyFailed
				visible = visibleResults(results, onlyFailed)
				fillList()
				updateHeader()
				updateDetails()
				return nil
			case 'q', 'Q':
				app.Stop()
				return nil
			}
		}
		return event
	})

	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	fillList()
	updateHeader()
	updateDetails()

	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(flex, 0, 1, true)

	if err := app.SetRoot(mainLayout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// visibleResults returns the indexes of the results to list
func visibleResults(results []domain.TestResult, onlyFailed bool) []int {
	var out []int
	for i, r := range results {
		if !onlyFailed || r.Failed() {
			out = append(out, i)
		}
	}
	return out
}

// resultListText is the list label of a result using tview color tags
func resultListText(result domain.TestResult, number int) string {
	title := tview.Escape(testTitle(result))
	if result.Failed() {
		return fmt.Sprintf("[red]✗ [yellow]%d.[white] %s", number, title)
	}
	return fmt.Sprintf("[green]✓ [yellow]%d.[white] %s", number, title)
}

// testTitle is the part of the result title after its location
func testTitle(result domain.TestResult) string {
	parts := strings.Split(result.Title, " › ")
	if len(parts) >= 3 {
		return strings.Join(parts[2:], " › ")
	}
	return strings.TrimSpace(result.Title)
}

// formatResultDetails formats the collected lines of a result
func formatResultDetails(result domain.TestResult) string {
	var builder strings.Builder
	w := tabwriter.NewWriter(&builder, 0, 0, 2, ' ', 0)

	if result.Failed() {
		fmt.Fprintf(w, "[red]✗ Test:\t%s[white]\n", tview.Escape(testTitle(result)))
	} else {
		fmt.Fprintf(w, "[green]✓ Test:\t%s[white]\n", tview.Escape(testTitle(result)))
	}
	fmt.Fprintf(w, "[cyan]File:\t%s[white]\n", tview.Escape(result.FilePath))
	fmt.Fprintf(w, "[yellow]Line:\t%d[white]\n\n", result.LineNumber)
	w.Flush()

	builder.WriteString("[yellow]Output:[white]\n")
	builder.WriteString(tview.Escape(result.Details))
	builder.WriteString("\n")
	return builder.String()
}

// formatResultStats formats the stats header for a result
func formatResultStats(result domain.TestResult) string {
	status := "[green]passed[white]"
	if result.Failed() {
		status = "[red]failed[white]"
	}
	return fmt.Sprintf("[cyan]path:[white] [yellow]%s[white] | %s\n", tview.Escape(result.ID), status)
}
