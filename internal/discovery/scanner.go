package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"pwr/internal/domain"
)

// Scanner reads a test directory from disk into a file tree
type Scanner struct {
	projectPath string
	skip        map[string]bool
	readContent func(domain.FileEntry) bool
}

// NewScanner creates a new Scanner. Entry ids are paths relative to
// projectPath; names in skip are left out wherever they appear.
// Only files accepted by readContent have their content loaded.
func NewScanner(projectPath string, skip []string, readContent func(domain.FileEntry) bool) *Scanner {
	skipMap := make(map[string]bool)
	for _, name := range skip {
		skipMap[name] = true
	}
	return &Scanner{projectPath: projectPath, skip: skipMap, readContent: readContent}
}

// Scan returns root as a folder entry with its whole subtree
func (s *Scanner) Scan(root string) (domain.FileEntry, error) {
	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return domain.FileEntry{}, fmt.Errorf("test path does not exist: %s", root)
	}
	if !info.IsDir() {
		return domain.FileEntry{}, fmt.Errorf("test path is not a directory: %s", root)
	}

	name := filepath.Base(root)
	if abs, err := filepath.Abs(root); err == nil {
		name = filepath.Base(abs)
	}
	entry := domain.FileEntry{
		ID:   s.relativeID(root),
		Name: name,
		Kind: domain.EntryFolder,
	}
	entry.Children, err = s.scanDir(root)
	if err != nil {
		return domain.FileEntry{}, err
	}
	return entry, nil
}

func (s *Scanner) scanDir(dir string) ([]domain.FileEntry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	// folders first, then files, each alphabetically
	sort.SliceStable(dirEntries, func(i, j int) bool {
		if dirEntries[i].IsDir() != dirEntries[j].IsDir() {
			return dirEntries[i].IsDir()
		}
		return dirEntries[i].Name() < dirEntries[j].Name()
	})

	entries := make([]domain.FileEntry, 0, len(dirEntries))
	for _, d := range dirEntries {
		name := d.Name()
		if strings.HasPrefix(name, ".") || s.skip[name] {
			continue
		}
		path := filepath.Join(dir, name)

		if d.IsDir() {
			children, err := s.scanDir(path)
			if err != nil {
				return nil, err
			}
			entries = append(entries, domain.FileEntry{
				ID:       s.relativeID(path),
				Name:     name,
				Kind:     domain.EntryFolder,
				Children: children,
			})
			continue
		}

		entry := domain.FileEntry{
			ID:        s.relativeID(path),
			Name:      name,
			Kind:      domain.EntryFile,
			Extension: domain.ExtensionOf(name),
		}
		if s.readContent != nil && s.readContent(entry) {
			content, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("error reading file %s: %w", path, err)
			}
			entry.Content = string(content)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *Scanner) relativeID(path string) string {
	if rel, err := filepath.Rel(s.projectPath, path); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel)
	}
	return filepath.ToSlash(path)
}
