package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mvre-project/mvre-hub/internal/core/domain"
	"github.com/mvre-project/mvre-hub/internal/shell/atomicfile"
)

const (
	appDir   = "mvre-hub"
	fileName = "config.json"
	filePerm = 0o644
)

// ResolvePath returns the state file location:
// $XDG_CONFIG_HOME/mvre-hub/config.json, else $HOME/.config/mvre-hub/config.json.
func ResolvePath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDir, fileName), nil
	}
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".config", appDir, fileName), nil
	}
	return "", domain.ErrEnvironmentUnresolved
}

// Store reads and writes the state file.
type Store struct {
	path string
}

// NewStore creates a store for the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Open creates a store at the resolved default location.
func Open() (*Store, error) {
	path, err := ResolvePath()
	if err != nil {
		return nil, err
	}
	return NewStore(path), nil
}

// Path returns the state file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the state. A missing file yields the empty state.
func (s *Store) Load() (domain.AppState, error) {
	var st domain.AppState

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return st, nil
	}
	if err != nil {
		return st, NewStoreError("Load", s.path, err.Error(), err)
	}

	if err := json.Unmarshal(data, &st); err != nil {
		return domain.AppState{}, NewStoreError("Load", s.path, err.Error(),
			fmt.Errorf("%w: %w", domain.ErrStateCorrupt, err))
	}
	return st, nil
}

// Save replaces the whole state file.
func (s *Store) Save(st domain.AppState) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return NewStoreError("Save", s.path, err.Error(), err)
	}
	data = append(data, '\n')

	if err := atomicfile.WriteFile(s.path, data, filePerm); err != nil {
		return NewStoreError("Save", s.path, "write failed", err)
	}
	return nil
}
