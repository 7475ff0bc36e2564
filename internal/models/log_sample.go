package models

import "math"

// DefaultNullValue is the LAS sentinel for a missing measurement
const DefaultNullValue = -999.25

// NullOrDefault returns v, or DefaultNullValue when v is zero. A zero
// sentinel is never taken literally since 0 is a classified value.
func NullOrDefault(v float64) float64 {
	if v == 0 {
		return DefaultNullValue
	}
	return v
}

// LogSample is one depth-indexed value of a well-log curve
type LogSample struct {
	Depth float64 `json:"depth" db:"depth"`
	Value float64 `json:"value" db:"curve_value"`
}

// LogSeries is the resolved value curve of one LAS file
type LogSeries struct {
	Well       string      `json:"well"`
	Curve      string      `json:"curve"`       // Resolved value curve mnemonic
	IndexCurve string      `json:"index_curve"` // Resolved depth curve mnemonic
	NullValue  float64     `json:"null_value"`
	Source     string      `json:"source,omitempty"`
	Samples    []LogSample `json:"samples"`
}

// Null returns the effective sentinel of the series, see NullOrDefault
func (s LogSeries) Null() float64 {
	return NullOrDefault(s.NullValue)
}

// IsNull reports whether v is the series sentinel or NaN
func (s LogSeries) IsNull(v float64) bool {
	return v == s.Null() || math.IsNaN(v)
}

// DepthRange returns the smallest and largest sample depth.
// ok is false for an empty series.
func (s LogSeries) DepthRange() (min, max float64, ok bool) {
	if len(s.Samples) == 0 {
		return 0, 0, false
	}
	min, max = s.Samples[0].Depth, s.Samples[0].Depth
	for _, sample := range s.Samples[1:] {
		if sample.Depth < min {
			min = sample.Depth
		}
		if sample.Depth > max {
			max = sample.Depth
		}
	}
	return min, max, true
}
