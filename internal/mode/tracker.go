package mode

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Tracker persists the current mode in a small state file. The file holds a
// single mode token; a missing file means no profile is applied.
type Tracker struct {
	path string
}

// NewTracker creates a Tracker for the mode file at path.
func NewTracker(path string) *Tracker {
	return &Tracker{path: path}
}

// Current returns the recorded mode. A missing file reads as Restored.
func (t *Tracker) Current() (Mode, error) {
	data, err := os.ReadFile(t.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Restored, nil
		}
		return "", fmt.Errorf("failed to read mode file: %w", err)
	}

	m, err := Parse(strings.TrimSpace(string(data)))
	if err != nil {
		return "", fmt.Errorf("corrupt mode file %s: %w", t.path, err)
	}
	return m, nil
}

// Set records the mode, creating the state directory if needed.
func (t *Tracker) Set(m Mode) error {
	if err := os.MkdirAll(filepath.Dir(t.path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	if err := os.WriteFile(t.path, []byte(string(m)+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write mode file: %w", err)
	}
	return nil
}
