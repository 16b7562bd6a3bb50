package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/habitgarden/internal/logger"
	"github.com/julianstephens/habitgarden/internal/models"
)

// JSONStore keeps the snapshot in a single JSON document.
type JSONStore struct {
	path string
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	return s.Save(models.NewState())
}

func (s *JSONStore) Load() (*models.State, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotInitialized
		}
		return nil, fmt.Errorf("failed to read storage: %w", err)
	}

	state := &models.State{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("failed to parse storage: %w", err)
	}
	if state.Version > models.StateVersion {
		return nil, fmt.Errorf("storage version %d is newer than supported version %d", state.Version, models.StateVersion)
	}
	state.Normalize()
	return state, nil
}

// Save writes to a sibling temp file and renames it over the store.
func (s *JSONStore) Save(state *models.State) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".habitgarden-*.json")
	if err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		logger.Error("Failed to replace storage file", "path", s.path, "error", err)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

// GetConfigPath returns the path of the JSON document.
//
// Running multiple habitgarden processes against the same file at the same
// time is not supported; the last Save wins.
func (s *JSONStore) GetConfigPath() string {
	return s.path
}
