package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/wricardo/rusty-world/game/engine"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rustyworld.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.World.Height != 20 || cfg.World.Width != 40 || !cfg.World.OuterWall {
		t.Errorf("Unexpected world defaults %+v", cfg.World)
	}
	if cfg.Robot.Name != "Rusty" || cfg.Robot.X != 5 || cfg.Robot.Y != 5 || cfg.Robot.Charge != 255 {
		t.Errorf("Unexpected robot defaults %+v", cfg.Robot)
	}
	if cfg.Snapshot.Store != "file" || cfg.Snapshot.Path != "world.json" || cfg.Snapshot.Autosave != 0 {
		t.Errorf("Unexpected snapshot defaults %+v", cfg.Snapshot)
	}
	if cfg.Addr() != "localhost:8080" {
		t.Errorf("Expected localhost:8080, got %s", cfg.Addr())
	}
	if cfg.TUI.Redraw != 50*time.Millisecond {
		t.Errorf("Expected 50ms redraw, got %v", cfg.TUI.Redraw)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Defaults should validate: %v", err)
	}
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
world:
  height: 10
  width: 12
  outer_wall: false
  tiles:
    - {tile: ChargePad, x: 3, y: 4}
    - {tile: wall, x: 1, y: 1}
robot:
  name: "  Wall-E "
  x: 2
  y: 2
  charge: 100
snapshot:
  store: SQLite
  autosave: 30s
server:
  port: 9090
journal:
  dir: journal
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.World.Height != 10 || cfg.World.Width != 12 || cfg.World.OuterWall {
		t.Errorf("Unexpected world %+v", cfg.World)
	}
	if cfg.Robot.Name != "Wall-E" || cfg.Robot.Charge != 100 {
		t.Errorf("Unexpected robot %+v", cfg.Robot)
	}
	if cfg.Snapshot.Store != "sqlite" || cfg.Snapshot.Path != "world.db" {
		t.Errorf("Expected normalized sqlite store with default path, got %+v", cfg.Snapshot)
	}
	if cfg.Snapshot.Autosave != 30*time.Second {
		t.Errorf("Expected 30s autosave, got %v", cfg.Snapshot.Autosave)
	}
	if cfg.Addr() != "localhost:9090" {
		t.Errorf("Expected localhost:9090, got %s", cfg.Addr())
	}
	if cfg.Journal.Dir != "journal" {
		t.Errorf("Expected journal dir, got %q", cfg.Journal.Dir)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"zero height", "world: {height: 0}"},
		{"height too large", "world: {height: 1025}"},
		{"width too large", "world: {width: 4294967295}"},
		{"unknown tile", "world: {tiles: [{tile: Lava, x: 1, y: 1}]}"},
		{"empty robot name", "robot: {name: ' '}"},
		{"charge too high", "robot: {charge: 256}"},
		{"unknown store", "snapshot: {store: redis}"},
		{"postgres without dsn", "snapshot: {store: postgres}"},
		{"negative autosave", "snapshot: {autosave: -1s}"},
		{"bad port", "server: {port: 70000}"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, test.content))
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestLoad_SnapshotPathFollowsStore(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		store    string
		expected string
	}{
		{"default store", "robot: {name: karl}", "file", DefaultSnapshotFile},
		{"file store", "snapshot: {store: file}", "file", DefaultSnapshotFile},
		{"sqlite store", "snapshot: {store: sqlite}", "sqlite", DefaultSnapshotDB},
		{"sqlite with path", "snapshot: {store: sqlite, path: data/rusty.db}", "sqlite", "data/rusty.db"},
		{"file with path", "snapshot: {path: ' saves/rusty.json '}", "file", "saves/rusty.json"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, test.content))
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if cfg.Snapshot.Store != test.store || cfg.Snapshot.Path != test.expected {
				t.Errorf("Expected %s store at %s, got %s at %s", test.store, test.expected, cfg.Snapshot.Store, cfg.Snapshot.Path)
			}
		})
	}
}

func TestValidate_MaxDimension(t *testing.T) {
	cfg := Default()
	cfg.World.Height = engine.MaxDimension
	cfg.World.Width = engine.MaxDimension
	if err := cfg.Validate(); err != nil {
		t.Errorf("A %dx%d world should be valid: %v", engine.MaxDimension, engine.MaxDimension, err)
	}

	cfg.World.Width = engine.MaxDimension + 1
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for an oversized world, got %v", err)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
	if _, err := Load(writeConfig(t, "world: [not, a, map]")); err == nil {
		t.Error("Expected error for malformed YAML")
	}
}

func TestNewWorld(t *testing.T) {
	cfg := Default()
	cfg.World.Tiles = []TileSpec{{Tile: "ChargePad", X: 10, Y: 10}}

	world := cfg.NewWorld()
	if world.Height() != 20 || world.Width() != 40 {
		t.Errorf("Unexpected dimensions %dx%d", world.Height(), world.Width())
	}
	if world.TileCount() != 117 {
		t.Errorf("Expected outer wall plus one pad, got %d tiles", world.TileCount())
	}
	if tile, ok := world.TileAt(engine.Position{X: 10, Y: 10}); !ok || tile != engine.ChargePad {
		t.Errorf("Expected charge pad at (10,10), got %v", tile)
	}

	robot, ok := world.Robot("Rusty")
	if !ok {
		t.Fatal("Expected Rusty to be placed")
	}
	if robot.Position != (engine.Position{X: 5, Y: 5}) || robot.Charge != 255 {
		t.Errorf("Unexpected robot %+v", robot)
	}
}

func TestPlaceRobot(t *testing.T) {
	cfg := Default()
	world := engine.NewWorld(20, 40)

	if !cfg.PlaceRobot(world) {
		t.Fatal("Expected robot to be placed in an empty world")
	}
	if cfg.PlaceRobot(world) {
		t.Error("Robot should not be placed twice")
	}
	if len(world.Robots()) != 1 {
		t.Errorf("Expected 1 robot, got %d", len(world.Robots()))
	}
}
