package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Selection is one saved set of checked case ids
type Selection struct {
	Cases   []string `json:"cases"`
	SavedAt string   `json:"savedAt"`
}

type selectionsFile struct {
	Selections map[string]Selection `json:"selections"`
}

// Save stores caseIDs under name, replacing an existing selection.
func (s *JSONStorage) Save(name string, caseIDs []string) error {
	if name == "" {
		return errors.New("selection name is empty")
	}
	file, err := s.read()
	if err != nil {
		return err
	}
	if caseIDs == nil {
		caseIDs = []string{}
	}
	file.Selections[name] = Selection{
		Cases:   caseIDs,
		SavedAt: time.Now().Format(time.RFC3339),
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal selections: %w", err)
	}
	path := s.cfg.GetSelectionsPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create selections dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write selections: %w", err)
	}
	return nil
}

// Load returns the case ids saved under name.
func (s *JSONStorage) Load(name string) ([]string, error) {
	file, err := s.read()
	if err != nil {
		return nil, err
	}
	selection, ok := file.Selections[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSelectionNotFound, name)
	}
	return selection.Cases, nil
}

// List returns the saved selection names in alphabetical order.
func (s *JSONStorage) List() ([]string, error) {
	file, err := s.read()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(file.Selections))
	for name := range file.Selections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// read loads the selections file. A missing file reads as empty.
func (s *JSONStorage) read() (*selectionsFile, error) {
	file := &selectionsFile{Selections: map[string]Selection{}}
	data, err := os.ReadFile(s.cfg.GetSelectionsPath())
	if errors.Is(err, os.ErrNotExist) {
		return file, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read selections file: %w", err)
	}
	if err := json.Unmarshal(data, file); err != nil {
		return nil, fmt.Errorf("parse selections: %w", err)
	}
	if file.Selections == nil {
		file.Selections = map[string]Selection{}
	}
	return file, nil
}
