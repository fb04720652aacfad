package session

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFilePersistence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "world.json")

	persistence, err := NewFilePersistence(path)
	if err != nil {
		t.Fatalf("Failed to create file persistence: %v", err)
	}

	t.Run("Load before Save", func(t *testing.T) {
		if persistence.Exists() {
			t.Error("Snapshot should not exist yet")
		}
		if _, err := persistence.Load(); !errors.Is(err, ErrSnapshotNotFound) {
			t.Errorf("Expected ErrSnapshotNotFound, got %v", err)
		}
	})

	t.Run("Save and Load", func(t *testing.T) {
		doc := []byte(`{"height":1,"width":1,"tiles":[],"robots":[]}`)
		if err := persistence.Save(doc); err != nil {
			t.Fatalf("Failed to save: %v", err)
		}
		if !persistence.Exists() {
			t.Error("Snapshot should exist after save")
		}

		loaded, err := persistence.Load()
		if err != nil {
			t.Fatalf("Failed to load: %v", err)
		}
		if string(loaded) != string(doc) {
			t.Errorf("Expected %s, got %s", doc, loaded)
		}
	})

	t.Run("Save overwrites", func(t *testing.T) {
		doc := []byte(`{"height":2,"width":2,"tiles":[],"robots":[]}`)
		if err := persistence.Save(doc); err != nil {
			t.Fatalf("Failed to save: %v", err)
		}
		loaded, _ := persistence.Load()
		if string(loaded) != string(doc) {
			t.Errorf("Expected overwritten document, got %s", loaded)
		}
	})

	t.Run("No temp files left behind", func(t *testing.T) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("Failed to read dir: %v", err)
		}
		for _, entry := range entries {
			if strings.HasSuffix(entry.Name(), ".tmp") {
				t.Errorf("Unexpected temp file %s", entry.Name())
			}
		}
		if len(entries) != 1 {
			t.Errorf("Expected only the snapshot file, got %d entries", len(entries))
		}
	})

	if persistence.Path() != path {
		t.Errorf("Expected path %s, got %s", path, persistence.Path())
	}
	if err := persistence.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}

func TestFilePersistence_EmptyPath(t *testing.T) {
	if _, err := NewFilePersistence(""); err == nil {
		t.Error("Expected error for empty path")
	}
}
