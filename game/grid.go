package game

import (
	"fmt"
	"math"
)

const (
	DefaultWidth  = 20
	DefaultHeight = 20
)

// Coord is a cell on the grid. X grows to the right, Y grows towards the
// surface.
type Coord struct {
	X int
	Y int
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Grid is the playing field. It wraps around horizontally (a cylinder) and
// is bounded vertically; row Height-1 is the surface where the boats are.
type Grid struct {
	Width  int
	Height int
}

// DefaultGrid is the 20x20 board of the standard game.
func DefaultGrid() Grid {
	return Grid{Width: DefaultWidth, Height: DefaultHeight}
}

func (g Grid) Surface() int {
	return g.Height - 1
}

// Wrap maps any column onto [0, Width).
func (g Grid) Wrap(x int) int {
	x %= g.Width
	if x < 0 {
		x += g.Width
	}
	return x
}

// Contains reports whether c is a cell of the grid. Columns must already be
// wrapped.
func (g Grid) Contains(c Coord) bool {
	return c.X >= 0 && c.X < g.Width && c.Y >= 0 && c.Y < g.Height
}

// DeltaX is the horizontal distance between two columns, going the short
// way around the cylinder.
func (g Grid) DeltaX(a, b int) int {
	d := a - b
	if d < 0 {
		d = -d
	}
	if w := g.Width - d; w < d {
		return w
	}
	return d
}

// Euclidean is the straight-line distance between a and b on the cylinder.
func (g Grid) Euclidean(a, b Coord) float64 {
	dx := float64(g.DeltaX(a.X, b.X))
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Manhattan is the taxicab distance between a and b on the cylinder.
func (g Grid) Manhattan(a, b Coord) float64 {
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	return float64(g.DeltaX(a.X, b.X) + dy)
}
