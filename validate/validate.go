// Command validate checks saved worlds and settings files. It accepts file
// paths as arguments and defaults to every *.json and *.yaml file in
// ../configs. It checks:
//   - snapshot documents against the snapshot JSON schema
//   - unique robot names and unique tile positions
//   - robots placed inside the grid
//   - settings files (*.yaml, *.yml) load and pass validation
//
// It also reports, for information only, charge pads that are walled off
// from every robot.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wricardo/rusty-world/game/config"
	"github.com/wricardo/rusty-world/game/engine"
	"github.com/wricardo/rusty-world/game/snapshot"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) info(format string, args ...interface{}) {
	r.Errors = append(r.Errors, "✓ "+fmt.Sprintf(format, args...))
}

// validateFile dispatches on the file extension
func validateFile(filePath string) ValidationResult {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		return validateSettings(filePath)
	default:
		return validateSnapshot(filePath)
	}
}

// validateSettings loads a settings file the way the server does
func validateSettings(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	cfg, err := config.Load(filePath)
	if err != nil {
		result.fail("Invalid settings: %v", err)
		return result
	}

	result.info("World %dx%d, robot %s, %s store", cfg.World.Height, cfg.World.Width, cfg.Robot.Name, cfg.Snapshot.Store)
	return result
}

// validateSnapshot loads and validates a single snapshot document. It performs
// the schema check, semantic checks and a reachability report.
func validateSnapshot(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	doc, err := snapshot.Parse(data)
	if err != nil {
		result.fail("%v", err)
		return result
	}

	if doc.Height == 0 || doc.Width == 0 {
		result.fail("Grid is empty: %dx%d", doc.Height, doc.Width)
	}

	tiles := make(map[engine.Position]engine.Tile, len(doc.Tiles))
	for _, entry := range doc.Tiles {
		if prev, dup := tiles[entry.Position]; dup {
			result.fail("Duplicate tile at %s (%s and %s)", entry.Position, prev, entry.Tile)
		}
		tiles[entry.Position] = entry.Tile
	}

	names := make(map[string]bool, len(doc.Robots))
	for _, robot := range doc.Robots {
		if strings.TrimSpace(robot.Name) == "" {
			result.fail("Robot at %s has an empty name", robot.Position)
		}
		if names[robot.Name] {
			result.fail("Duplicate robot name %q", robot.Name)
		}
		names[robot.Name] = true

		if !inGrid(doc, robot.Position) {
			result.fail("Robot %s is outside the %dx%d grid at %s", robot.Name, doc.Height, doc.Width, robot.Position)
		}
	}

	if !result.Valid {
		return result
	}

	result.info("Grid %dx%d with %d tiles and %d robots", doc.Height, doc.Width, len(tiles), len(doc.Robots))
	result.Errors = append(result.Errors, reachability(doc, tiles)...)
	return result
}

func inGrid(doc *snapshot.Document, pos engine.Position) bool {
	return pos.X >= 0 && pos.Y >= 0 && int64(pos.X) < int64(doc.Width) && int64(pos.Y) < int64(doc.Height)
}

// reachability flood-fills from every robot through non-wall cells and lists
// the charge pads none of them can reach
func reachability(doc *snapshot.Document, tiles map[engine.Position]engine.Tile) []string {
	var pads []engine.Position
	for pos, tile := range tiles {
		if tile == engine.ChargePad && inGrid(doc, pos) {
			pads = append(pads, pos)
		}
	}
	if len(pads) == 0 || len(doc.Robots) == 0 {
		return nil
	}

	passable := func(pos engine.Position) bool {
		return inGrid(doc, pos) && tiles[pos] != engine.Wall
	}

	visited := make(map[engine.Position]bool)
	var queue []engine.Position
	for _, robot := range doc.Robots {
		queue = append(queue, robot.Position)
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if visited[current] {
			continue
		}
		visited[current] = true

		for _, d := range [][2]int32{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
			next := engine.NewPosition(current.X+d[0], current.Y+d[1])
			if !visited[next] && passable(next) {
				queue = append(queue, next)
			}
		}
	}

	var unreachable []string
	for _, pad := range pads {
		if !visited[pad] {
			unreachable = append(unreachable, pad.String())
		}
	}
	if len(unreachable) == 0 {
		return []string{fmt.Sprintf("✓ Connectivity: All %d charge pads reachable", len(pads))}
	}

	sort.Strings(unreachable)
	return []string{fmt.Sprintf("ℹ %d/%d charge pads walled off from every robot: %s",
		len(unreachable), len(pads), strings.Join(unreachable, ", "))}
}

// main validates the files named on the command line, or every snapshot and
// settings file in ../configs, printing a concise report and exiting with
// non-zero status if any are invalid.
func main() {
	files := os.Args[1:]
	if len(files) == 0 {
		configDir := "../configs"
		for _, pattern := range []string{"*.json", "*.yaml", "*.yml"} {
			matches, err := filepath.Glob(filepath.Join(configDir, pattern))
			if err != nil {
				fmt.Printf("Error finding files: %v\n", err)
				os.Exit(1)
			}
			files = append(files, matches...)
		}
	}

	allValid := true
	for _, file := range files {
		result := validateFile(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All files are valid!")
	} else {
		fmt.Println("❌ Some files have errors")
		os.Exit(1)
	}
}
