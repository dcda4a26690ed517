package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore implements SnapshotStore using one JSON file per puzzle date.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-based snapshot store rooted at dir.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create sessions directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Save writes the snapshot for its puzzle date, replacing any previous one.
func (fs *FileStore) Save(snap *Snapshot) error {
	if snap == nil {
		return fmt.Errorf("snapshot cannot be nil")
	}
	if err := validDate(snap.PuzzleDate); err != nil {
		return err
	}

	jsonData, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := os.WriteFile(fs.getFilePath(snap.PuzzleDate), jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot file: %w", err)
	}
	return nil
}

// Load reads the snapshot for a puzzle date. A stored snapshot whose
// embedded date disagrees with its filename is treated as corrupt.
func (fs *FileStore) Load(date string) (*Snapshot, error) {
	if err := validDate(date); err != nil {
		return nil, err
	}

	jsonData, err := os.ReadFile(fs.getFilePath(date))
	if os.IsNotExist(err) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(jsonData, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	if snap.PuzzleDate != date {
		return nil, fmt.Errorf("snapshot date %q does not match %q", snap.PuzzleDate, date)
	}
	return &snap, nil
}

// Delete removes the snapshot for a puzzle date.
func (fs *FileStore) Delete(date string) error {
	if err := validDate(date); err != nil {
		return err
	}

	err := os.Remove(fs.getFilePath(date))
	if os.IsNotExist(err) {
		return ErrSnapshotNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to remove snapshot file: %w", err)
	}
	return nil
}

func (fs *FileStore) getFilePath(date string) string {
	return filepath.Join(fs.dir, fmt.Sprintf("%s.json", date))
}

// validDate keeps date keys from escaping the store directory.
func validDate(date string) error {
	if date == "" || strings.ContainsAny(date, "/\\") {
		return fmt.Errorf("invalid puzzle date %q", date)
	}
	return nil
}
