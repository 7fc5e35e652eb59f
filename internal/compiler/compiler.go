// Package compiler turns a selection tree into the run requests understood by
// the local and the cloud runner.
package compiler

import (
	"regexp"

	"pwr/internal/domain"
	"pwr/internal/selection"
)

var specialChars = regexp.MustCompile(`[()\[\]{}^$+?.|\\]`)

// EscapeTitle backslash-escapes the characters that are special in a
// test title pattern
func EscapeTitle(title string) string {
	return specialChars.ReplaceAllString(title, `\${0}`)
}

// CompileLocal builds the local run request.
//
// A single top-level folder whose children are all checked compiles to
// "run everything". Otherwise folders are walked transparently and every spec
// file with at least one checked case becomes an entry: a bare file name when
// the file is fully checked, else the checked suites and cases, where fully
// checked suites collapse to testCases: true.
func CompileLocal(tree []domain.TestNode) domain.LocalSpec {
	if len(tree) == 1 && tree[0].Kind == domain.KindFolder && tree[0].HasChildren() &&
		tree[0].Checked && selection.HasCheckedCase(tree) {
		return domain.LocalSpec{ToBeTested: domain.ToBeTested{SpecFiles: domain.SpecFiles{All: true}}}
	}

	return domain.LocalSpec{ToBeTested: domain.ToBeTested{SpecFiles: domain.SpecFiles{Entries: collectEntries(tree)}}}
}

func collectEntries(items []domain.TestNode) []domain.SpecEntry {
	var entries []domain.SpecEntry
	for _, item := range items {
		switch item.Kind {
		case domain.KindFolder:
			entries = append(entries, collectEntries(item.Children)...)
		case domain.KindFile:
			if entry, ok := fileEntry(item); ok {
				entries = append(entries, entry)
			}
		}
	}
	return entries
}

func fileEntry(file domain.TestNode) (domain.SpecEntry, bool) {
	if selection.CheckedCaseCount(file.Children) == 0 {
		return domain.SpecEntry{}, false
	}
	if file.Checked {
		return domain.SpecEntry{Name: file.Name, Whole: true}, true
	}

	entry := domain.SpecEntry{Name: file.Name}
	for _, child := range file.Children {
		if child.Kind != domain.KindSuite {
			continue
		}
		if cases, ok := selectCases(child.Children); ok {
			entry.Features = append(entry.Features, domain.Feature{Name: child.Name, TestCases: cases})
		}
	}
	if cases, ok := selectCases(file.Children); ok {
		entry.TestCases = &cases
	}
	return entry, true
}

// selectCases returns the checked cases among items, collapsed to All when
// every case is checked. ok is false when none is.
func selectCases(items []domain.TestNode) (domain.CaseSelection, bool) {
	var names []string
	total := 0
	for _, item := range items {
		if item.Kind != domain.KindCase {
			continue
		}
		total++
		if item.Checked {
			names = append(names, item.Name)
		}
	}
	switch {
	case len(names) == 0:
		return domain.CaseSelection{}, false
	case len(names) == total:
		return domain.CaseSelection{All: true}, true
	default:
		return domain.CaseSelection{Names: names}, true
	}
}

// CompileCloud builds the cloud run request: one entry per checked case of
// every checked spec file. Files that are not themselves checked contribute
// nothing, there is no whole-file shortcut in this format.
func CompileCloud(tree []domain.TestNode) domain.CloudSpec {
	var spec domain.CloudSpec
	for _, item := range tree {
		switch item.Kind {
		case domain.KindFolder:
			spec = append(spec, CompileCloud(item.Children)...)
		case domain.KindFile:
			if item.Checked {
				spec = append(spec, collectCases(item.Children, item.Name)...)
			}
		}
	}
	return spec
}

func collectCases(items []domain.TestNode, file string) []domain.CloudEntry {
	var entries []domain.CloudEntry
	for _, item := range items {
		if item.Kind == domain.KindCase && item.Checked {
			entries = append(entries, domain.CloudEntry{
				RawTitle:     item.Name,
				EscapedTitle: EscapeTitle(item.Name),
				File:         file,
			})
		}
		entries = append(entries, collectCases(item.Children, file)...)
	}
	return entries
}
