package ui

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"pwr/internal/domain"
	"pwr/internal/execution"
	"pwr/internal/parser"
	"pwr/internal/selection"
)

// Selection marks
const (
	markChecked = "☑"
	markPartial = "▣"
	markEmpty   = "☐"
)

// TreeOptions controls PrintTree
type TreeOptions struct {
	// Cases prints suites and cases below each spec file
	Cases bool
	// Marks prefixes every node with its selection state
	Marks bool
}

// Formatter formats and displays output
type Formatter struct {
	out io.Writer
}

// NewFormatter creates a new Formatter writing to color.Output
func NewFormatter() *Formatter {
	return &Formatter{out: color.Output}
}

// SetOutput redirects the formatter
func (f *Formatter) SetOutput(w io.Writer) {
	f.out = w
}

// CheckMark returns the selection mark of a node: checked, partially
// checked (some case below is checked) or empty
func CheckMark(node domain.TestNode) string {
	switch {
	case node.Checked:
		return markChecked
	case selection.HasCheckedCase(node.Children):
		return markPartial
	default:
		return markEmpty
	}
}

// PrintTree prints the test tree
func (f *Formatter) PrintTree(tree []domain.TestNode, opts TreeOptions) {
	files, cases := countTree(tree)
	color.New(color.FgGreen).Fprintf(f.out, "Found %d test case(s) in %d spec file(s):\n\n", cases, files)
	f.printNodes(tree, "", opts)
}

func (f *Formatter) printNodes(items []domain.TestNode, prefix string, opts TreeOptions) {
	for i, item := range items {
		last := i == len(items)-1
		connector, childPrefix := "├── ", prefix+"│   "
		if last {
			connector, childPrefix = "└── ", prefix+"    "
		}

		label := item.Name
		if opts.Marks {
			label = CheckMark(item) + " " + label
		}

		fmt.Fprint(f.out, prefix+connector)
		switch item.Kind {
		case domain.KindFolder:
			color.New(color.FgCyan).Fprintln(f.out, label)
		case domain.KindFile:
			if item.HasChildren() {
				color.New(color.FgYellow).Fprintf(f.out, "%s ", label)
				color.New(color.FgHiBlack).Fprintf(f.out, "(%d)\n", item.Count)
			} else {
				color.New(color.FgHiBlack).Fprintln(f.out, label)
			}
		case domain.KindSuite:
			color.New(color.FgMagenta).Fprintln(f.out, label)
		default:
			fmt.Fprintln(f.out, label)
		}

		if item.Kind == domain.KindFile && !opts.Cases {
			continue
		}
		f.printNodes(item.Children, childPrefix, opts)
	}
}

// countTree returns the number of spec files and cases
func countTree(items []domain.TestNode) (files, cases int) {
	for _, item := range items {
		switch item.Kind {
		case domain.KindFile:
			if item.Count > 0 {
				files++
			}
			cases += item.Count
		case domain.KindFolder:
			f, c := countTree(item.Children)
			files += f
			cases += c
		}
	}
	return files, cases
}

// PrintJSON prints v as indented JSON
func (f *Formatter) PrintJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal spec: %w", err)
	}
	fmt.Fprintln(f.out, string(data))
	return nil
}

// PrintReport prints the outcome of a run followed by the failed tests
func (f *Formatter) PrintReport(state execution.State, results []domain.TestResult, elapsed time.Duration) {
	summary := parser.Summarize(results)

	fmt.Fprintln(f.out)
	cyan := color.New(color.FgCyan)
	cyan.Fprintln(f.out, "╔═══════════════════════════════════════════════════════════════╗")
	cyan.Fprintln(f.out, "║                          Test Run Report                      ║")
	cyan.Fprintln(f.out, "╚═══════════════════════════════════════════════════════════════╝")
	fmt.Fprintln(f.out)

	row := func(name string, c *color.Color, value interface{}) {
		fmt.Fprintf(f.out, "│ %-31s │ ", name)
		c.Fprintf(f.out, "%-27v", value)
		fmt.Fprintln(f.out, " │")
	}
	sep := "├─────────────────────────────────┼─────────────────────────────┤"

	white := color.New(color.FgWhite)
	fmt.Fprintln(f.out, "┌─────────────────────────────────┬─────────────────────────────┐")
	row("Status", stateColor(state), state)
	fmt.Fprintln(f.out, sep)
	row("Tests Reported", white, summary.Total)
	fmt.Fprintln(f.out, sep)
	row("Passed", color.New(color.FgGreen), summary.Passed)
	fmt.Fprintln(f.out, sep)
	row("Failed", color.New(color.FgRed), summary.Failed)
	fmt.Fprintln(f.out, sep)
	row("Duration", white, fmt.Sprintf("%.2fs", elapsed.Seconds()))
	fmt.Fprintln(f.out, "└─────────────────────────────────┴─────────────────────────────┘")
	fmt.Fprintln(f.out)

	switch {
	case summary.Failed > 0:
		color.New(color.FgRed).Fprintf(f.out, "✗ %d test(s) failed\n", summary.Failed)
		f.printFailures(results)
	case state == execution.StateCompleted:
		color.New(color.FgGreen).Fprintln(f.out, "✓ All tests passed!")
	}
}

func (f *Formatter) printFailures(results []domain.TestResult) {
	red := color.New(color.FgRed)
	gray := color.New(color.FgHiBlack)
	for _, r := range results {
		if !r.Failed() {
			continue
		}
		fmt.Fprintln(f.out)
		color.New(color.FgYellow).Fprintf(f.out, "%s:%d\n", r.FilePath, r.LineNumber)
		lines := strings.Split(r.Details, "\n")
		for i, line := range lines {
			if i == 0 {
				red.Fprintf(f.out, "  |_ %s\n", strings.TrimSpace(line))
				continue
			}
			gray.Fprintf(f.out, "     %s\n", line)
		}
	}
}

// PrintRunError prints a failed run's message and details
func (f *Formatter) PrintRunError(err error) {
	color.New(color.FgRed).Fprintf(f.out, "✗ %v\n", err)
	var runErr *execution.RunError
	if errors.As(err, &runErr) && runErr.Details != "" {
		color.New(color.FgHiBlack).Fprintln(f.out, runErr.Details)
	}
}

func stateColor(state execution.State) *color.Color {
	switch state {
	case execution.StateCompleted:
		return color.New(color.FgGreen)
	case execution.StateFailed:
		return color.New(color.FgRed)
	default:
		return color.New(color.FgYellow)
	}
}
