// ABOUTME: Data migration between care4u storage backends.
// ABOUTME: Copies the saved state from a source repository to a destination.

package storage

import (
	"fmt"
	"os"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Accounts    int
	Medications int
	Vitals      int
	History     int
	Messages    int
}

// MigrateData copies the state from src to dst, replacing whatever dst holds.
func MigrateData(src, dst Repository) (*MigrateSummary, error) {
	st, err := src.LoadState()
	if err != nil {
		return nil, fmt.Errorf("load source state: %w", err)
	}
	if err := dst.SaveState(st); err != nil {
		return nil, fmt.Errorf("save destination state: %w", err)
	}
	return &MigrateSummary{
		Accounts:    len(st.Accounts),
		Medications: len(st.Medications),
		Vitals:      len(st.Vitals),
		History:     len(st.History),
		Messages:    len(st.ChatMessages),
	}, nil
}

// IsDirNonEmpty checks whether a directory exists and contains any files or subdirectories.
// Returns false if the directory does not exist or is empty.
func IsDirNonEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read directory %q: %w", path, err)
	}
	return len(entries) > 0, nil
}
