package spatial

import "fmt"

// Coord is an intersection position on the signal grid.
// X grows eastward, Y grows northward.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Direction identifies one of the four approaches to an intersection.
type Direction int

const (
	North Direction = iota
	South
	East
	West
	NumDirections
)

var directionNames = [NumDirections]string{"north", "south", "east", "west"}

func (d Direction) String() string {
	if d < 0 || d >= NumDirections {
		return "unknown"
	}
	return directionNames[d]
}

// Directions lists all four approaches in a fixed order.
func Directions() [NumDirections]Direction {
	return [NumDirections]Direction{North, South, East, West}
}

// ParseDirection converts a direction name to its enum value.
func ParseDirection(name string) (Direction, error) {
	for i, n := range directionNames {
		if n == name {
			return Direction(i), nil
		}
	}
	return 0, fmt.Errorf("unknown direction %q", name)
}

// IsNorthSouth reports whether the direction lies on the north-south axis.
func (d Direction) IsNorthSouth() bool {
	return d == North || d == South
}

// ManhattanDistance returns the grid distance between two coordinates.
func ManhattanDistance(a, b Coord) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

// Heading returns the approach direction of a vehicle moving from one grid
// cell into an adjacent one. A northward move (increasing Y) enters the next
// intersection from the south, so the vehicle approaches heading north.
// Falls back to North when the cells are not adjacent along one axis.
func Heading(from, to Coord) Direction {
	dx := to.X - from.X
	dy := to.Y - from.Y

	switch {
	case dy > 0:
		return North
	case dy < 0:
		return South
	case dx > 0:
		return East
	case dx < 0:
		return West
	default:
		return North
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
