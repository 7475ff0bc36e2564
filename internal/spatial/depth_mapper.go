package spatial

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/r3"

	"github.com/jengzang/geowell-backend-go/internal/models"
)

// ErrEmptyTrajectory is returned when a well has no survey stations
var ErrEmptyTrajectory = errors.New("spatial: empty trajectory")

// maxResamplePoints bounds Resample output
const maxResamplePoints = 10_000_000

// Options tune the depth mapper
type Options struct {
	// VerticalSign is the direction z moves per unit of measured depth when
	// the trajectory is degenerate: -1 for elevation (z decreasing with
	// depth), +1 for depth-positive z.
	VerticalSign float64
	// MinSpan is the smallest md span treated as a real path
	MinSpan float64
}

// DefaultOptions returns the elevation convention with a 1e-6 span
func DefaultOptions() Options {
	return Options{VerticalSign: -1, MinSpan: 1e-6}
}

// MappedPoint is the answer to a depth query
type MappedPoint struct {
	Point      r3.Vector
	OutOfRange bool // Query was clamped or extrapolated
}

// Point3 converts the mapped point for the data model
func (p MappedPoint) Point3() models.Point3 {
	return ToPoint3(p.Point)
}

// DepthMapper answers "which 3D point lies at measured depth q" for one well
type DepthMapper struct {
	well     string
	curve    *PathCurve // nil when degenerate
	origin   r3.Vector
	originMD float64
	mdMin    float64
	mdMax    float64
	valid    bool
	dropped  int
	sign     float64
	stations []models.TrajectoryPoint
}

// NewDepthMapper builds a mapper from a well's stations in file order.
//
// Knots keep strictly increasing md: a station whose md does not exceed
// the previous kept knot is dropped. A decrease marks the mapper invalid,
// nothing is re-sorted. Fewer than two knots, or a span below MinSpan,
// switch to a vertical well approximation below the first station.
func NewDepthMapper(points []models.TrajectoryPoint, opts Options) (*DepthMapper, error) {
	if len(points) == 0 {
		return nil, ErrEmptyTrajectory
	}
	if opts.MinSpan <= 0 {
		opts.MinSpan = DefaultOptions().MinSpan
	}

	m := &DepthMapper{
		well:     points[0].Well,
		origin:   ToVector(points[0].Point()),
		originMD: points[0].MD,
		valid:    true,
		sign:     -1,
		stations: append([]models.TrajectoryPoint(nil), points...),
	}
	if opts.VerticalSign > 0 {
		m.sign = 1
	}

	knots := make([]float64, 0, len(points))
	vectors := make([]r3.Vector, 0, len(points))
	m.mdMin, m.mdMax = points[0].MD, points[0].MD

	for i, p := range points {
		if i > 0 && p.MD < points[i-1].MD {
			m.valid = false
		}
		m.mdMin = math.Min(m.mdMin, p.MD)
		m.mdMax = math.Max(m.mdMax, p.MD)

		if len(knots) > 0 && p.MD <= knots[len(knots)-1] {
			m.dropped++
			continue
		}
		knots = append(knots, p.MD)
		vectors = append(vectors, ToVector(p.Point()))
	}

	if len(knots) < 2 || knots[len(knots)-1]-knots[0] < opts.MinSpan {
		return m, nil
	}

	curve, err := NewPathCurve(knots, vectors)
	if err != nil {
		return nil, fmt.Errorf("failed to build path curve for %s: %w", m.well, err)
	}
	m.curve = curve
	m.mdMin, m.mdMax = curve.Min(), curve.Max()

	return m, nil
}

// Map returns the 3D point at measured depth q. Outside the md range the
// end point is returned and OutOfRange is set.
func (m *DepthMapper) Map(q float64) MappedPoint {
	if math.IsNaN(q) {
		return MappedPoint{Point: m.origin, OutOfRange: true}
	}

	out := q < m.mdMin || q > m.mdMax
	if m.curve == nil {
		if q == m.originMD {
			return MappedPoint{Point: m.origin, OutOfRange: out}
		}
		p := m.origin
		p.Z += m.sign * (q - m.originMD)
		return MappedPoint{Point: p, OutOfRange: out}
	}

	return MappedPoint{Point: m.curve.At(q), OutOfRange: out}
}

// Well returns the well name of the stations
func (m *DepthMapper) Well() string {
	return m.well
}

// Valid reports whether the md sequence never decreases
func (m *DepthMapper) Valid() bool {
	return m.valid
}

// Degenerate reports whether the vertical fallback is in use
func (m *DepthMapper) Degenerate() bool {
	return m.curve == nil
}

// Range returns the md interval answered without clamping
func (m *DepthMapper) Range() (min, max float64) {
	return m.mdMin, m.mdMax
}

// DroppedKnots returns how many stations were not used as knots
func (m *DepthMapper) DroppedKnots() int {
	return m.dropped
}

// Resample returns stations every step of md from the start of the path,
// excluding the end. A degenerate path is returned unchanged.
func (m *DepthMapper) Resample(step float64) ([]models.TrajectoryPoint, error) {
	if !(step > 0) {
		return nil, fmt.Errorf("resample step must be positive, got %v", step)
	}
	if m.curve == nil {
		return append([]models.TrajectoryPoint(nil), m.stations...), nil
	}
	if (m.mdMax-m.mdMin)/step > maxResamplePoints {
		return nil, fmt.Errorf("resample step %v too small for md span %v", step, m.mdMax-m.mdMin)
	}

	var out []models.TrajectoryPoint
	for k := 0; ; k++ {
		md := m.mdMin + float64(k)*step
		if md >= m.mdMax {
			break
		}
		p := m.curve.At(md)
		out = append(out, models.TrajectoryPoint{
			Well:  m.well,
			Index: k,
			X:     p.X,
			Y:     p.Y,
			Z:     p.Z,
			MD:    md,
		})
	}
	return out, nil
}

// ToVector converts a model point to an r3 vector
func ToVector(p models.Point3) r3.Vector {
	return r3.Vector{X: p.X, Y: p.Y, Z: p.Z}
}

// ToPoint3 converts an r3 vector to a model point
func ToPoint3(v r3.Vector) models.Point3 {
	return models.Point3{X: v.X, Y: v.Y, Z: v.Z}
}

// Distance returns the straight-line distance between two points
func Distance(a, b models.Point3) float64 {
	return ToVector(a).Distance(ToVector(b))
}
