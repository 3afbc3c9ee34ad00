package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"savvy_dca/internal/models"
)

// Store persists the agent state as a single JSON file. The path is an
// explicit dependency so tests and deployments can point it anywhere.
type Store struct {
	Path string
}

func New(path string) *Store {
	return &Store{Path: path}
}

// Load reads and decodes the state file. It does not fall back to a default
// state itself; the agent decides how to recover from a missing or corrupt
// file.
func (s *Store) Load() (models.AgentState, error) {
	var st models.AgentState

	b, err := os.ReadFile(s.Path)
	if err != nil {
		return st, err
	}

	if err := json.Unmarshal(b, &st); err != nil {
		return st, fmt.Errorf("decode state file %s: %w", s.Path, err)
	}

	return st, nil
}

// Save writes the full state to disk using an atomic write pattern:
// write to a temporary file in the same directory, sync, then rename over the
// target. A crash mid-write never leaves a half-written state file.
func (s *Store) Save(st models.AgentState) error {
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	// The state file may live under a data/ directory that does not exist yet.
	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}

	tmp := s.Path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}

	if _, err := f.Write(b); err != nil {
		f.Close()
		return fmt.Errorf("write temp state file: %w", err)
	}

	// Sync before rename so a power failure cannot surface an empty file.
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync temp state file: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp state file: %w", err)
	}

	if err := os.Rename(tmp, s.Path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}

	return nil
}
