package engine

import "fmt"

// Robot is a named entity with a grid position and a charge level
type Robot struct {
	Name     string   `json:"name"`
	Position Position `json:"position"`
	Charge   uint8    `json:"state_of_charge"`
}

// NewRobot creates a robot at (0, 0) with a full charge
func NewRobot(name string) *Robot {
	return &Robot{
		Name:   name,
		Charge: MaxCharge,
	}
}

// Move applies direction to the robot's position. On error the position is
// left unchanged.
func (r *Robot) Move(direction Direction) error {
	pos, err := Apply(r.Position, direction)
	if err != nil {
		return err
	}
	r.Position = pos
	return nil
}

func (r *Robot) String() string {
	return fmt.Sprintf("(Robot name: %s Position: %d, %d)", r.Name, r.Position.X, r.Position.Y)
}
