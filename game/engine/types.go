package engine

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Tile represents the terrain kind stored at a grid position
type Tile string

const (
	Empty     Tile = "Empty"
	Wall      Tile = "Wall"
	ChargePad Tile = "ChargePad"

	// Movement and robot constants
	MaxForwardStep = 3
	MaxCharge      = 255

	// Default world dimensions
	DefaultHeight = 20
	DefaultWidth  = 40

	// MaxDimension bounds the height and width accepted from settings and
	// snapshots. Frames render every cell.
	MaxDimension = 1024
)

// Tiles lists every valid tile kind in declaration order
var Tiles = []Tile{Empty, Wall, ChargePad}

// Position represents x,y grid coordinates. Two positions with equal
// coordinates are interchangeable, so Position is used directly as a map key.
type Position struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
}

// NewPosition returns the position at (x, y)
func NewPosition(x, y int32) Position {
	return Position{X: x, Y: y}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d/%d)", p.X, p.Y)
}

// Valid reports whether t is one of the known tile kinds
func (t Tile) Valid() bool {
	switch t {
	case Empty, Wall, ChargePad:
		return true
	}
	return false
}

// Glyph returns the character used to draw the tile on a frame
func (t Tile) Glyph() rune {
	switch t {
	case Wall:
		return 'W'
	case ChargePad:
		return 'C'
	}
	return ' '
}

// ParseTile converts a tile token into a Tile. Matching is case-insensitive
// and a JSON-quoted token such as "\"Wall\"" is accepted as well.
func ParseTile(token string) (Tile, error) {
	name := strings.TrimSpace(token)
	var quoted string
	if err := json.Unmarshal([]byte(name), &quoted); err == nil {
		name = strings.TrimSpace(quoted)
	}

	for _, tile := range Tiles {
		if strings.EqualFold(name, string(tile)) {
			return tile, nil
		}
	}
	return "", fmt.Errorf("%w: %q (valid: %s)", ErrUnknownTile, token, tileNames())
}

func tileNames() string {
	names := make([]string, len(Tiles))
	for i, tile := range Tiles {
		names[i] = string(tile)
	}
	return strings.Join(names, ", ")
}

// UnmarshalJSON rejects unknown tile names instead of keeping them verbatim
func (t *Tile) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("tile must be a string: %w", err)
	}
	tile, err := ParseTile(name)
	if err != nil {
		return err
	}
	*t = tile
	return nil
}
