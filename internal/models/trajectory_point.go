package models

// TrajectoryPoint is one deviation survey station of a well
type TrajectoryPoint struct {
	Well  string  `json:"well" db:"well"`
	Index int     `json:"index" db:"point_index"` // Order of appearance within the well
	X     float64 `json:"x" db:"x"`
	Y     float64 `json:"y" db:"y"`
	Z     float64 `json:"z" db:"z"`
	MD    float64 `json:"md" db:"md"` // Measured depth
}

// Point3 is a coordinate in the survey's projected 3D space
type Point3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Point returns the station's spatial coordinate
func (p TrajectoryPoint) Point() Point3 {
	return Point3{X: p.X, Y: p.Y, Z: p.Z}
}

// TrajectorySummary describes the extent of a trajectory
type TrajectorySummary struct {
	Well       string  `json:"well"`
	Points     int     `json:"points"`
	MDMin      float64 `json:"md_min"`
	MDMax      float64 `json:"md_max"`
	XMin       float64 `json:"x_min"`
	XMax       float64 `json:"x_max"`
	YMin       float64 `json:"y_min"`
	YMax       float64 `json:"y_max"`
	ZMin       float64 `json:"z_min"`
	ZMax       float64 `json:"z_max"`
	SigmaX     float64 `json:"sigma_x"`
	SigmaY     float64 `json:"sigma_y"`
	IsVertical bool    `json:"is_vertical"`
	Valid      bool    `json:"valid"` // False when md decreases somewhere
}

// TrajectoryResponse is a well's trajectory with its summary
type TrajectoryResponse struct {
	Well      string            `json:"well"`
	Points    []TrajectoryPoint `json:"points"`
	Summary   TrajectorySummary `json:"summary"`
	Resampled bool              `json:"resampled"`
	Step      float64           `json:"step,omitempty"`
}

// DepthPoint is the 3D position found for one measured depth
type DepthPoint struct {
	MD         float64 `json:"md"`
	Point      Point3  `json:"point"`
	OutOfRange bool    `json:"out_of_range"`
}
