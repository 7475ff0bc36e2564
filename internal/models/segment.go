package models

// Classification of a log interval
type Classification string

// Classification constants
const (
	ClassCollector    Classification = "collector"
	ClassNonCollector Classification = "non_collector"
	ClassOther        Classification = "other"
)

// Classify maps a classified log value to its interval class.
// Only the exact values 1 and 0 are recognised.
func Classify(value float64) Classification {
	switch value {
	case 1:
		return ClassCollector
	case 0:
		return ClassNonCollector
	default:
		return ClassOther
	}
}

// Segment is a depth-bounded, 3D-anchored interval of one classification
type Segment struct {
	Well           string         `json:"well"`
	Classification Classification `json:"classification"`

	// Depth interval along the wellbore
	MDStart float64 `json:"md_start"`
	MDEnd   float64 `json:"md_end"`

	// Spatial anchors produced by the depth mapper
	Start Point3 `json:"start"`
	End   Point3 `json:"end"`

	SampleCount     int  `json:"sample_count"`
	StartOutOfRange bool `json:"start_out_of_range,omitempty"`
	EndOutOfRange   bool `json:"end_out_of_range,omitempty"`
}

// Length returns the measured-depth length of the segment
func (s Segment) Length() float64 {
	return s.MDEnd - s.MDStart
}

// SegmentSummary aggregates the segments of one well.
// Lengths are measured-depth lengths per class, SpatialLength is the
// summed 3D chord length of all segments.
type SegmentSummary struct {
	Well              string                     `json:"well"`
	Segments          int                        `json:"segments"`
	Counts            map[Classification]int     `json:"counts"`
	Lengths           map[Classification]float64 `json:"lengths"`
	SpatialLength     float64                    `json:"spatial_length"`
	CollectorFraction *float64                   `json:"collector_fraction"`
}

// SegmentsResponse is the on-demand segmentation of one well
type SegmentsResponse struct {
	Well     string         `json:"well"`
	Boundary string         `json:"boundary"`
	Segments []Segment      `json:"segments"`
	Summary  SegmentSummary `json:"summary"`
	Warnings []Warning      `json:"warnings,omitempty"`
}
