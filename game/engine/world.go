package engine

// World owns the tile map and the robot collection. Height and width bound
// the logical grid but are not enforced on insertion: out-of-range tiles and
// positions are stored and simply never drawn.
//
// World is not safe for concurrent use; callers share it through a guard.
type World struct {
	height uint32
	width  uint32
	tiles  map[Position]Tile
	robots []*Robot
}

// NewWorld creates an empty world with the given dimensions
func NewWorld(height, width uint32) *World {
	return &World{
		height: height,
		width:  width,
		tiles:  make(map[Position]Tile),
		robots: []*Robot{},
	}
}

// Height returns the number of rows
func (w *World) Height() uint32 {
	return w.height
}

// Width returns the number of columns
func (w *World) Width() uint32 {
	return w.width
}

// AddTile stores tile at position, replacing any existing tile there
func (w *World) AddTile(position Position, tile Tile) {
	w.tiles[position] = tile
}

// TileAt returns the tile stored at position, if any
func (w *World) TileAt(position Position) (Tile, bool) {
	tile, ok := w.tiles[position]
	return tile, ok
}

// Tiles returns a copy of the tile map
func (w *World) Tiles() map[Position]Tile {
	tiles := make(map[Position]Tile, len(w.tiles))
	for pos, tile := range w.tiles {
		tiles[pos] = tile
	}
	return tiles
}

// TileCount returns the number of stored tiles
func (w *World) TileCount() int {
	return len(w.tiles)
}

// AddOuterWall places tile along the border of the grid
func (w *World) AddOuterWall(tile Tile) {
	height, width := int32(w.height), int32(w.width)
	if height == 0 || width == 0 {
		return
	}
	for x := int32(0); x < width; x++ {
		w.AddTile(Position{X: x, Y: 0}, tile)
		w.AddTile(Position{X: x, Y: height - 1}, tile)
	}
	for y := int32(1); y < height-1; y++ {
		w.AddTile(Position{X: 0, Y: y}, tile)
		w.AddTile(Position{X: width - 1, Y: y}, tile)
	}
}

// AddRobot appends a new robot with the given name at the default position
func (w *World) AddRobot(name string) *Robot {
	robot := NewRobot(name)
	w.robots = append(w.robots, robot)
	return robot
}

// AddExistingRobot appends a robot that was built before the world existed
func (w *World) AddExistingRobot(robot *Robot) {
	w.robots = append(w.robots, robot)
}

// Robot returns the first robot with the given name
func (w *World) Robot(name string) (*Robot, bool) {
	for _, robot := range w.robots {
		if robot.Name == name {
			return robot, true
		}
	}
	return nil, false
}

// RobotPosition returns the position of the named robot
func (w *World) RobotPosition(name string) (Position, bool) {
	robot, ok := w.Robot(name)
	if !ok {
		return Position{}, false
	}
	return robot.Position, true
}

// Robots returns copies of all robots in insertion order
func (w *World) Robots() []Robot {
	robots := make([]Robot, len(w.robots))
	for i, robot := range w.robots {
		robots[i] = *robot
	}
	return robots
}

// MoveRobot moves the named robot. An unknown name is a no-op that returns
// nil; movement errors such as ErrTooFar are returned unchanged.
func (w *World) MoveRobot(name string, direction Direction) error {
	robot, ok := w.Robot(name)
	if !ok {
		return nil
	}
	return robot.Move(direction)
}

// UpdateRobot overwrites the position and charge of the named robot. It
// reports whether the robot was found.
func (w *World) UpdateRobot(name string, position Position, charge uint8) bool {
	robot, ok := w.Robot(name)
	if !ok {
		return false
	}
	robot.Position = position
	robot.Charge = charge
	return true
}
