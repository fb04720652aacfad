package session

import (
	"os"
	"testing"
)

func TestPostgresPersistence(t *testing.T) {
	dsn := os.Getenv("RUSTY_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("RUSTY_TEST_POSTGRES_DSN not set")
	}

	store, err := NewPostgresPersistence(dsn)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer store.Close()

	doc := encodeWorld(t, "karl", "rusty")
	if err := store.Save(doc); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !store.Exists() {
		t.Error("Expected snapshot to exist")
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if string(loaded) != string(doc) {
		t.Error("Load should return the document just saved")
	}

	history, err := store.History(1)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 1 || history[0].Robots != 2 {
		t.Errorf("Unexpected history %+v", history)
	}
}

func TestPostgresPersistence_EmptyDSN(t *testing.T) {
	if _, err := NewPostgresPersistence(""); err == nil {
		t.Error("Expected error for empty dsn")
	}
}
