// Package placement lays composed encounter entries out on a 2-D grid.
//
// The layout is pure math: deterministic given the sequence length, with no
// randomness involved.
package placement

import "math"

const (
	// rowWidth is the number of entries placed per row.
	rowWidth = 5
	// spacingMultiplier is the distance between entries in grid units.
	spacingMultiplier = 2
)

// Offset is a grid-unit displacement from the placement origin.
type Offset struct {
	Columns int
	Rows    int
}

// Point is a position in scene coordinates.
type Point struct {
	X float64
	Y float64
}

// Offsets returns the grid-unit offset for each of n entries, filling rows
// of five left to right before moving down.
func Offsets(n int) []Offset {
	if n <= 0 {
		return nil
	}
	offsets := make([]Offset, n)
	for i := 0; i < n; i++ {
		offsets[i] = Offset{
			Columns: (i % rowWidth) * spacingMultiplier,
			Rows:    (i / rowWidth) * spacingMultiplier,
		}
	}
	return offsets
}

// Place anchors the offsets for n entries at origin, scaling by the scene's
// grid cell size. When snap is true each point is snapped to the nearest
// lower grid cell boundary, for scenes that use a non-free-form grid.
func Place(origin Point, gridSize float64, snap bool, n int) []Point {
	offsets := Offsets(n)
	points := make([]Point, len(offsets))
	for i, offset := range offsets {
		point := Point{
			X: origin.X + float64(offset.Columns)*gridSize,
			Y: origin.Y + float64(offset.Rows)*gridSize,
		}
		if snap && gridSize > 0 {
			point.X = math.Floor(point.X/gridSize) * gridSize
			point.Y = math.Floor(point.Y/gridSize) * gridSize
		}
		points[i] = point
	}
	return points
}
