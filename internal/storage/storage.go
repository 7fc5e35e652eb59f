package storage

import (
	"errors"

	"pwr/internal/config"
)

// ErrSelectionNotFound is returned when no selection with the name exists
var ErrSelectionNotFound = errors.New("selection not found")

// Storage persists named selections of test cases between runs.
type Storage interface {
	Save(name string, caseIDs []string) error
	Load(name string) ([]string, error)
	List() ([]string, error)
}

// JSONStorage stores selections in a JSON file under the configured path.
type JSONStorage struct {
	cfg *config.Config
}

// NewJSONStorage returns a Storage that reads/writes the config's selections file.
func NewJSONStorage(cfg *config.Config) *JSONStorage {
	return &JSONStorage{cfg: cfg}
}
