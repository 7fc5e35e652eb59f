package discovery

import (
	"path/filepath"
	"strings"

	"pwr/internal/domain"
)

// Filter narrows the file tree down to files matching a name pattern
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// MatchName reports whether a file name matches pattern.
// Supports patterns like "*login.spec.ts" or "*checkout*"; a pattern
// without wildcards matches as a substring.
func (f *Filter) MatchName(name, pattern string) bool {
	if pattern == "" {
		return true
	}

	if matched, err := filepath.Match(pattern, name); err == nil && matched {
		return true
	}

	if strings.Contains(pattern, "*") {
		nonEmpty := false
		for _, part := range strings.Split(pattern, "*") {
			if part == "" {
				continue
			}
			nonEmpty = true
			if !strings.Contains(name, part) {
				return false
			}
		}
		return nonEmpty
	}

	if !strings.Contains(pattern, "?") {
		return strings.Contains(name, pattern)
	}
	return false
}

// FilterTree keeps the files whose name matches pattern and the folders that
// still contain something afterwards. The root folders themselves are kept.
func (f *Filter) FilterTree(entries []domain.FileEntry, pattern string) []domain.FileEntry {
	if pattern == "" {
		return entries
	}

	filtered := make([]domain.FileEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.Kind == domain.EntryFolder {
			entry.Children = f.filterChildren(entry.Children, pattern)
			filtered = append(filtered, entry)
			continue
		}
		if f.MatchName(entry.Name, pattern) {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}

func (f *Filter) filterChildren(entries []domain.FileEntry, pattern string) []domain.FileEntry {
	var filtered []domain.FileEntry
	for _, entry := range entries {
		if entry.Kind == domain.EntryFolder {
			entry.Children = f.filterChildren(entry.Children, pattern)
			if len(entry.Children) > 0 {
				filtered = append(filtered, entry)
			}
			continue
		}
		if f.MatchName(entry.Name, pattern) {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}
