package journal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/wricardo/rusty-world/game/engine"
	"github.com/wricardo/rusty-world/game/service"
)

func TestJournal_RecordsNotifications(t *testing.T) {
	dir := t.TempDir()
	j := New(dir)

	var _ service.Notifier = j

	j.RobotChanged("karl", engine.Position{X: 0, Y: 2})
	j.TileChanged(engine.Wall, engine.Position{X: 3, Y: 4})
	if err := j.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	entries, err := ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}

	robot := entries[0]
	if robot.Event != service.EventRobotChanged || robot.Name != "karl" || robot.X != 0 || robot.Y != 2 {
		t.Errorf("Unexpected robot entry %+v", robot)
	}
	tile := entries[1]
	if tile.Event != service.EventTileChanged || tile.Name != "Wall" || tile.X != 3 || tile.Y != 4 {
		t.Errorf("Unexpected tile entry %+v", tile)
	}
	if robot.ID == "" || robot.ID == tile.ID {
		t.Errorf("Entries need distinct IDs, got %q and %q", robot.ID, tile.ID)
	}
	if robot.Timestamp.IsZero() {
		t.Error("Expected a timestamp")
	}
}

func TestJournal_AppendsAcrossSessions(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"first", "second"} {
		j := New(dir)
		j.RobotChanged(name, engine.Position{})
		if err := j.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
	}

	entries, err := ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 2 || entries[0].Name != "first" || entries[1].Name != "second" {
		t.Errorf("Expected both sessions in order, got %+v", entries)
	}
}

func TestJournal_RotatesHourly(t *testing.T) {
	dir := t.TempDir()
	j := New(dir)

	current := time.Date(2024, 5, 1, 10, 59, 0, 0, time.UTC)
	j.now = func() time.Time { return current }

	j.RobotChanged("karl", engine.Position{})
	current = current.Add(2 * time.Minute)
	j.RobotChanged("karl", engine.Position{X: 1})
	if err := j.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	for _, hour := range []string{"2024-05-01-10", "2024-05-01-11"} {
		path := filepath.Join(dir, "changes-"+hour+".jsonl.zst")
		if _, err := os.Stat(path); err != nil {
			t.Errorf("Expected journal file %s: %v", path, err)
		}
	}

	entries, err := ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 2 || entries[1].X != 1 {
		t.Errorf("Unexpected entries %+v", entries)
	}
}

func TestJournal_CloseWithoutEvents(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "never")
	if err := New(dir).Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("No directory should be created without events")
	}

	entries, err := ReadDir(dir)
	if err != nil || len(entries) != 0 {
		t.Errorf("Expected no entries, got %d (err=%v)", len(entries), err)
	}
}
