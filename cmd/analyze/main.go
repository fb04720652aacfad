// Command analyze prints a human-readable summary of saved worlds. It accepts
// JSON snapshot files and SQLite snapshot databases; for databases the latest
// snapshot is analyzed and the save history is listed.
//
//	go run ./cmd/analyze world.json world.db
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/wricardo/rusty-world/game/engine"
	"github.com/wricardo/rusty-world/game/session"
	"github.com/wricardo/rusty-world/game/snapshot"
)

// historyLimit caps the number of history rows printed for a database
const historyLimit = 10

func main() {
	paths := os.Args[1:]
	if len(paths) == 0 {
		paths = []string{"world.json"}
	}

	failed := false
	for _, path := range paths {
		fmt.Printf("\n=== Analyzing %s ===\n", path)
		if err := analyzePath(os.Stdout, path, time.Now()); err != nil {
			fmt.Printf("Error: %v\n", err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func analyzePath(w io.Writer, path string, now time.Time) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return analyzeDatabase(w, path, now)
	default:
		return analyzeFile(w, path, now)
	}
}

func analyzeFile(w io.Writer, path string, now time.Time) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "File: %s, saved %s\n", humanize.Bytes(uint64(info.Size())), humanize.RelTime(info.ModTime(), now, "ago", "from now"))
	return analyzeDocument(w, data)
}

func analyzeDatabase(w io.Writer, path string, now time.Time) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	store, err := session.NewSQLitePersistence(path)
	if err != nil {
		return err
	}
	defer store.Close()

	history, err := store.History(historyLimit)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Snapshots (latest %d):\n", len(history))
	for _, record := range history {
		fmt.Fprintf(w, "  #%d  %s  %s  robots=%d tiles=%d\n",
			record.ID, humanize.RelTime(record.SavedAt, now, "ago", "from now"),
			humanize.Bytes(uint64(record.Size)), record.Robots, record.Tiles)
	}

	data, err := store.Load()
	if err != nil {
		return err
	}
	return analyzeDocument(w, data)
}

// analyzeDocument validates a snapshot and prints its contents and any
// suspicious placements
func analyzeDocument(w io.Writer, data []byte) error {
	doc, err := snapshot.Parse(data)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Grid: %d rows x %d columns\n", doc.Height, doc.Width)

	tiles := make(map[engine.Position]engine.Tile, len(doc.Tiles))
	for _, entry := range doc.Tiles {
		tiles[entry.Position] = entry.Tile
	}
	fmt.Fprintf(w, "Tiles: %s\n", humanize.Comma(int64(len(tiles))))
	for _, kind := range engine.Tiles {
		if n := engine.CountTiles(tiles, kind); n > 0 {
			fmt.Fprintf(w, "  %s: %s\n", kind, humanize.Comma(int64(n)))
		}
	}

	fmt.Fprintf(w, "Robots: %d\n", len(doc.Robots))
	for _, robot := range doc.Robots {
		fmt.Fprintf(w, "  %s at %s, charge %d/%d\n", robot.Name, robot.Position, robot.Charge, engine.MaxCharge)
	}

	warnings := findings(doc, tiles)
	if len(warnings) == 0 {
		fmt.Fprintf(w, "✅ No placement problems found\n")
		return nil
	}
	fmt.Fprintf(w, "⚠️  %d placement problems:\n", len(warnings))
	for _, warning := range warnings {
		fmt.Fprintf(w, "   %s\n", warning)
	}
	return nil
}

func inside(doc *snapshot.Document, pos engine.Position) bool {
	return pos.X >= 0 && pos.Y >= 0 && int64(pos.X) < int64(doc.Width) && int64(pos.Y) < int64(doc.Height)
}

// findings lists robots off the grid, on walls or sharing a cell, and tiles
// that are stored but never drawn
func findings(doc *snapshot.Document, tiles map[engine.Position]engine.Tile) []string {
	var out []string

	occupants := make(map[engine.Position][]string)
	for _, robot := range doc.Robots {
		if !inside(doc, robot.Position) {
			out = append(out, fmt.Sprintf("robot %s is outside the grid at %s", robot.Name, robot.Position))
		}
		if tiles[robot.Position] == engine.Wall {
			out = append(out, fmt.Sprintf("robot %s stands on a wall at %s", robot.Name, robot.Position))
		}
		occupants[robot.Position] = append(occupants[robot.Position], robot.Name)
	}

	var shared []string
	for pos, names := range occupants {
		if len(names) > 1 {
			shared = append(shared, fmt.Sprintf("robots %s share %s", strings.Join(names, ", "), pos))
		}
	}
	sort.Strings(shared)
	out = append(out, shared...)

	hidden := 0
	for pos := range tiles {
		if !inside(doc, pos) {
			hidden++
		}
	}
	if hidden > 0 {
		out = append(out, fmt.Sprintf("%d tiles lie outside the grid and are never drawn", hidden))
	}
	return out
}
