package domain

import "fmt"

// Point is a screen coordinate in pixels.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Bounds is a bounding rectangle as reported by a UI dump: [X1,Y1][X2,Y2].
type Bounds struct {
	X1, Y1, X2, Y2 int
}

// Center returns the midpoint of the rectangle, rounded down.
func (b Bounds) Center() Point {
	return Point{X: (b.X1 + b.X2) / 2, Y: (b.Y1 + b.Y2) / 2}
}

func (b Bounds) String() string {
	return fmt.Sprintf("[%d,%d][%d,%d]", b.X1, b.Y1, b.X2, b.Y2)
}
