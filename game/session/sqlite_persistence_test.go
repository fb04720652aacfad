package session

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/wricardo/rusty-world/game/engine"
	"github.com/wricardo/rusty-world/game/snapshot"
)

func encodeWorld(t *testing.T, robots ...string) []byte {
	t.Helper()
	world := engine.NewWorld(5, 5)
	world.AddTile(engine.Position{X: 1, Y: 1}, engine.Wall)
	for _, name := range robots {
		world.AddRobot(name)
	}
	doc, err := snapshot.Encode(world)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	return doc
}

func TestSQLitePersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db", "world.sqlite")
	store, err := NewSQLitePersistence(path)
	if err != nil {
		t.Fatalf("Failed to open sqlite store: %v", err)
	}
	defer store.Close()

	if store.Exists() {
		t.Error("New database should hold no snapshots")
	}
	if _, err := store.Load(); !errors.Is(err, ErrSnapshotNotFound) {
		t.Errorf("Expected ErrSnapshotNotFound, got %v", err)
	}

	first := encodeWorld(t, "karl")
	second := encodeWorld(t, "karl", "rusty")
	for _, doc := range [][]byte{first, second} {
		if err := store.Save(doc); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	if !store.Exists() {
		t.Error("Expected snapshots to exist")
	}
	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if string(loaded) != string(second) {
		t.Error("Load should return the newest snapshot")
	}

	history, err := store.History(10)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("Expected 2 history records, got %d", len(history))
	}
	if history[0].Robots != 2 || history[1].Robots != 1 {
		t.Errorf("History should be newest first, got %+v", history)
	}
	if history[0].Tiles != 1 || history[0].Size != len(second) {
		t.Errorf("Unexpected record %+v", history[0])
	}
	if history[0].SavedAt.IsZero() {
		t.Error("Expected saved_at to be recorded")
	}

	limited, err := store.History(1)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("Expected 1 record with limit 1, got %d", len(limited))
	}
}

func TestSQLitePersistence_RejectsInvalidDocument(t *testing.T) {
	store, err := NewSQLitePersistence(filepath.Join(t.TempDir(), "world.sqlite"))
	if err != nil {
		t.Fatalf("Failed to open sqlite store: %v", err)
	}
	defer store.Close()

	if err := store.Save([]byte(`{"height":1}`)); !errors.Is(err, snapshot.ErrInvalidSnapshot) {
		t.Errorf("Expected ErrInvalidSnapshot, got %v", err)
	}
	if store.Exists() {
		t.Error("Invalid document should not be stored")
	}
}

func TestSQLitePersistence_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.sqlite")

	store, err := OpenStore(StoreSQLite, path, "")
	if err != nil {
		t.Fatalf("OpenStore failed: %v", err)
	}
	doc := encodeWorld(t, "karl")
	if err := store.Save(doc); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := NewSQLitePersistence(path)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer reopened.Close()

	loaded, err := reopened.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if string(loaded) != string(doc) {
		t.Error("Snapshot should survive reopening the database")
	}
}
