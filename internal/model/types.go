package model

import "fmt"

// Key is a lattice coordinate (h, k, l) identifying one measured value.
// Keys are comparable and can be used directly as map keys.
type Key [3]int

// H returns the first Miller index.
func (k Key) H() int { return k[0] }

// K returns the second Miller index.
func (k Key) K() int { return k[1] }

// L returns the third Miller index.
func (k Key) L() int { return k[2] }

// IsOrigin reports whether the key is (0, 0, 0).
func (k Key) IsOrigin() bool {
	return k[0] == 0 && k[1] == 0 && k[2] == 0
}

func (k Key) String() string {
	return fmt.Sprintf("(%d,%d,%d)", k[0], k[1], k[2])
}

// Point is one sample of a computed curve or scatter set.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// XY splits points into parallel coordinate slices.
func XY(points []Point) ([]float64, []float64) {
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.X
		ys[i] = p.Y
	}
	return xs, ys
}
