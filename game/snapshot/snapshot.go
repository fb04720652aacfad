// Package snapshot converts a World to and from its persisted JSON document.
//
// The document lists the tile map as explicit (position, tile) pairs rather
// than a sparse grid:
//
//	{
//	  "height": 20,
//	  "width": 40,
//	  "tiles": [[{"x": 0, "y": 0}, "Wall"]],
//	  "robots": [{"name": "karl", "position": {"x": 0, "y": 2}, "state_of_charge": 255}]
//	}
//
// Documents are validated against an embedded JSON schema before a World is
// rebuilt from them.
package snapshot

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/wricardo/rusty-world/game/engine"
)

// ErrInvalidSnapshot is returned for documents that fail schema validation
var ErrInvalidSnapshot = errors.New("invalid snapshot")

//go:embed schema.json
var schemaJSON string

var schema = jsonschema.MustCompileString("snapshot.schema.json", schemaJSON)

// Document is the persisted form of a World
type Document struct {
	Height uint32         `json:"height"`
	Width  uint32         `json:"width"`
	Tiles  []TileEntry    `json:"tiles"`
	Robots []engine.Robot `json:"robots"`
}

// TileEntry is one (position, tile) pair, encoded as a two element array
type TileEntry struct {
	Position engine.Position
	Tile     engine.Tile
}

func (e TileEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{e.Position, e.Tile})
}

func (e *TileEntry) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("tile entry must have 2 elements, got %d", len(pair))
	}
	if err := json.Unmarshal(pair[0], &e.Position); err != nil {
		return fmt.Errorf("tile position: %w", err)
	}
	if err := json.Unmarshal(pair[1], &e.Tile); err != nil {
		return fmt.Errorf("tile kind: %w", err)
	}
	return nil
}

// FromWorld captures the state of w. Tiles are sorted by row then column so
// that equal worlds produce identical documents.
func FromWorld(w *engine.World) *Document {
	tiles := w.Tiles()
	entries := make([]TileEntry, 0, len(tiles))
	for pos, tile := range tiles {
		entries = append(entries, TileEntry{Position: pos, Tile: tile})
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i].Position, entries[j].Position
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})

	return &Document{
		Height: w.Height(),
		Width:  w.Width(),
		Tiles:  entries,
		Robots: w.Robots(),
	}
}

// World rebuilds a World from the document
func (d *Document) World() *engine.World {
	w := engine.NewWorld(d.Height, d.Width)
	for _, entry := range d.Tiles {
		w.AddTile(entry.Position, entry.Tile)
	}
	for _, robot := range d.Robots {
		robot := robot
		w.AddExistingRobot(&robot)
	}
	return w
}

// Encode serializes w as an indented JSON document
func Encode(w *engine.World) ([]byte, error) {
	data, err := json.MarshalIndent(FromWorld(w), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return data, nil
}

// Parse validates data against the snapshot schema and decodes it
func Parse(data []byte) (*Document, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if err := schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	return &doc, nil
}

// Decode rebuilds a World from a snapshot document
func Decode(data []byte) (*engine.World, error) {
	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return doc.World(), nil
}
