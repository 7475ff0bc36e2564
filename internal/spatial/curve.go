package spatial

import (
	"errors"
	"fmt"
	"sort"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/interp"
)

// PathCurve is a piecewise-linear function of arc length shared by the
// three coordinate axes. The knot array is fixed once; every axis is
// fitted over the same knots.
type PathCurve struct {
	knots  []float64
	points []r3.Vector
	axes   [3]interp.PiecewiseLinear
}

// NewPathCurve fits a curve through points at the given knots. Knots
// must be strictly increasing and at least two.
func NewPathCurve(knots []float64, points []r3.Vector) (*PathCurve, error) {
	if len(knots) != len(points) {
		return nil, fmt.Errorf("knots and points differ in length: %d != %d", len(knots), len(points))
	}
	if len(knots) < 2 {
		return nil, errors.New("path curve needs at least two knots")
	}
	// Fit panics on unordered knots
	for i := 1; i < len(knots); i++ {
		if !(knots[i] > knots[i-1]) {
			return nil, fmt.Errorf("knots not strictly increasing at %d", i)
		}
	}

	c := &PathCurve{
		knots:  append([]float64(nil), knots...),
		points: append([]r3.Vector(nil), points...),
	}

	for i := range c.axes {
		axis := make([]float64, len(points))
		for j, p := range points {
			axis[j] = component(p, i)
		}
		if err := c.axes[i].Fit(c.knots, axis); err != nil {
			return nil, fmt.Errorf("failed to fit axis %d: %w", i, err)
		}
	}

	return c, nil
}

// At evaluates the curve at arc length s. Values outside the knot range
// clamp to the nearest end point; an exact knot returns the stored point.
func (c *PathCurve) At(s float64) r3.Vector {
	n := len(c.knots)
	switch {
	case s <= c.knots[0]:
		return c.points[0]
	case s >= c.knots[n-1]:
		return c.points[n-1]
	}

	if i := sort.SearchFloat64s(c.knots, s); i < n && c.knots[i] == s {
		return c.points[i]
	}

	return r3.Vector{
		X: c.axes[0].Predict(s),
		Y: c.axes[1].Predict(s),
		Z: c.axes[2].Predict(s),
	}
}

// Min returns the first knot
func (c *PathCurve) Min() float64 {
	return c.knots[0]
}

// Max returns the last knot
func (c *PathCurve) Max() float64 {
	return c.knots[len(c.knots)-1]
}

// Knots returns the number of knots
func (c *PathCurve) Knots() int {
	return len(c.knots)
}

func component(v r3.Vector, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}
