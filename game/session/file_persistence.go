package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FilePersistence implements SnapshotStore using a single JSON file
type FilePersistence struct {
	path string
}

// NewFilePersistence creates a file-based store writing to path
func NewFilePersistence(path string) (*FilePersistence, error) {
	if path == "" {
		return nil, fmt.Errorf("snapshot path cannot be empty")
	}

	// Create the parent directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	return &FilePersistence{path: path}, nil
}

// Path returns the snapshot file location
func (fp *FilePersistence) Path() string {
	return fp.path
}

// Save writes doc to a temporary file next to the snapshot and renames it
// into place, so readers never observe a partial document.
func (fp *FilePersistence) Save(doc []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(fp.path), filepath.Base(fp.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(doc); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write snapshot file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close snapshot file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set snapshot file mode: %w", err)
	}
	if err := os.Rename(tmpName, fp.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace snapshot file: %w", err)
	}

	return nil
}

// Load reads the snapshot file
func (fp *FilePersistence) Load() ([]byte, error) {
	data, err := os.ReadFile(fp.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}
	return data, nil
}

// Exists checks if the snapshot file exists
func (fp *FilePersistence) Exists() bool {
	_, err := os.Stat(fp.path)
	return err == nil
}

// Close is a no-op for the file store
func (fp *FilePersistence) Close() error {
	return nil
}
