package engine

import "strings"

// Glyphs used when drawing a frame
const (
	RobotGlyph = 'R'
	BlankGlyph = ' '
)

// Frame is a fully rendered view of the grid, detached from the World so it
// can be drawn without holding any lock.
type Frame struct {
	Height uint32   `json:"height"`
	Width  uint32   `json:"width"`
	Cells  [][]rune `json:"-"`
	Robots []Robot  `json:"robots"`
}

// Frame renders rows 0..height and columns 0..width. Robots are drawn over
// tiles and tiles over blank space.
func (w *World) Frame() Frame {
	cells := make([][]rune, w.height)
	for y := range cells {
		row := make([]rune, w.width)
		for x := range row {
			row[x] = BlankGlyph
			if tile, ok := w.tiles[Position{X: int32(x), Y: int32(y)}]; ok {
				row[x] = tile.Glyph()
			}
		}
		cells[y] = row
	}

	for _, robot := range w.robots {
		x, y := robot.Position.X, robot.Position.Y
		if x < 0 || y < 0 || x >= int32(w.width) || y >= int32(w.height) {
			continue
		}
		cells[y][x] = RobotGlyph
	}

	return Frame{
		Height: w.height,
		Width:  w.width,
		Cells:  cells,
		Robots: w.Robots(),
	}
}

// At returns the glyph at (x, y), or a blank for coordinates outside the frame
func (f Frame) At(x, y int) rune {
	if y < 0 || y >= len(f.Cells) || x < 0 || x >= len(f.Cells[y]) {
		return BlankGlyph
	}
	return f.Cells[y][x]
}

// Rows returns the frame as one string per row
func (f Frame) Rows() []string {
	rows := make([]string, len(f.Cells))
	for i, row := range f.Cells {
		rows[i] = string(row)
	}
	return rows
}

func (f Frame) String() string {
	var b strings.Builder
	for _, row := range f.Cells {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

// CountTiles counts the stored tiles of the given kind
func CountTiles(tiles map[Position]Tile, kind Tile) int {
	count := 0
	for _, tile := range tiles {
		if tile == kind {
			count++
		}
	}
	return count
}
