package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/rusty-world/game/engine"
	"github.com/wricardo/rusty-world/game/snapshot"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func hasMessage(result ValidationResult, substr string) bool {
	for _, msg := range result.Errors {
		if strings.Contains(msg, substr) {
			return true
		}
	}
	return false
}

func TestValidateSnapshot_Valid(t *testing.T) {
	world := engine.NewWorld(6, 6)
	world.AddOuterWall(engine.Wall)
	world.AddTile(engine.NewPosition(4, 4), engine.ChargePad)
	robot := world.AddRobot("karl")
	robot.Position = engine.NewPosition(1, 1)

	data, err := snapshot.Encode(world)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	result := validateFile(writeFile(t, "world.json", string(data)))
	if !result.Valid {
		t.Fatalf("Expected valid snapshot, got errors: %v", result.Errors)
	}
	if result.File != "world.json" {
		t.Errorf("Expected file name world.json, got %s", result.File)
	}
	if !hasMessage(result, "Grid 6x6 with 21 tiles and 1 robots") {
		t.Errorf("Expected summary line, got %v", result.Errors)
	}
	if !hasMessage(result, "All 1 charge pads reachable") {
		t.Errorf("Expected connectivity line, got %v", result.Errors)
	}
}

func TestValidateSnapshot_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		expected string
	}{
		{
			name:     "not json",
			doc:      `{"height":`,
			expected: "invalid snapshot",
		},
		{
			name:     "unknown tile",
			doc:      `{"height":2,"width":2,"tiles":[[{"x":0,"y":0},"Lava"]],"robots":[]}`,
			expected: "invalid snapshot",
		},
		{
			name:     "empty grid",
			doc:      `{"height":0,"width":4,"tiles":[],"robots":[]}`,
			expected: "Grid is empty",
		},
		{
			name:     "duplicate tile",
			doc:      `{"height":2,"width":2,"tiles":[[{"x":0,"y":0},"Wall"],[{"x":0,"y":0},"ChargePad"]],"robots":[]}`,
			expected: "Duplicate tile at (0/0)",
		},
		{
			name: "duplicate robot",
			doc: `{"height":2,"width":2,"tiles":[],"robots":[
				{"name":"karl","position":{"x":0,"y":0},"state_of_charge":1},
				{"name":"karl","position":{"x":1,"y":1},"state_of_charge":1}]}`,
			expected: `Duplicate robot name "karl"`,
		},
		{
			name:     "robot outside grid",
			doc:      `{"height":2,"width":2,"tiles":[],"robots":[{"name":"karl","position":{"x":0,"y":5},"state_of_charge":1}]}`,
			expected: "outside the 2x2 grid at (0/5)",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := validateFile(writeFile(t, "world.json", test.doc))
			if result.Valid {
				t.Fatal("Expected invalid snapshot")
			}
			if !hasMessage(result, test.expected) {
				t.Errorf("Expected %q in %v", test.expected, result.Errors)
			}
		})
	}
}

func TestValidateSnapshot_MissingFile(t *testing.T) {
	result := validateFile(filepath.Join(t.TempDir(), "missing.json"))
	if result.Valid || !hasMessage(result, "Failed to read file") {
		t.Errorf("Expected read failure, got %+v", result)
	}
}

func TestReachability_WalledOffPad(t *testing.T) {
	world := engine.NewWorld(5, 7)
	world.AddOuterWall(engine.Wall)
	for y := int32(0); y < 5; y++ {
		world.AddTile(engine.NewPosition(3, y), engine.Wall)
	}
	world.AddTile(engine.NewPosition(5, 2), engine.ChargePad)
	world.AddTile(engine.NewPosition(1, 3), engine.ChargePad)
	robot := world.AddRobot("karl")
	robot.Position = engine.NewPosition(1, 1)

	data, err := snapshot.Encode(world)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	result := validateFile(writeFile(t, "world.json", string(data)))
	if !result.Valid {
		t.Fatalf("Unreachable pads are informational, got errors: %v", result.Errors)
	}
	if !hasMessage(result, "1/2 charge pads walled off from every robot: (5/2)") {
		t.Errorf("Expected the pad behind the wall to be reported, got %v", result.Errors)
	}
}

func TestValidateSettings(t *testing.T) {
	valid := writeFile(t, "rustyworld.yaml", `
world:
  height: 10
  width: 12
robot:
  name: karl
snapshot:
  store: sqlite
`)
	result := validateFile(valid)
	if !result.Valid {
		t.Fatalf("Expected valid settings, got %v", result.Errors)
	}
	if !hasMessage(result, "World 10x12, robot karl, sqlite store") {
		t.Errorf("Unexpected summary %v", result.Errors)
	}

	invalid := writeFile(t, "broken.yml", `
snapshot:
  store: redis
`)
	result = validateFile(invalid)
	if result.Valid {
		t.Error("Expected unknown store to be rejected")
	}
}
