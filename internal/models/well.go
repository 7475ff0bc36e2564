package models

import "time"

// Well is the merged thickness record of a single well, keyed by name
type Well struct {
	ID   int64   `json:"id,omitempty" db:"id"`
	Name string  `json:"name" db:"name"`
	X    float64 `json:"x" db:"x"` // Surface location
	Y    float64 `json:"y" db:"y"`
	Z    float64 `json:"z" db:"z"`

	// Thickness attributes, nil when the source table had no row for the well
	H              *float64 `json:"h" db:"h"`
	EffH           *float64 `json:"eff_h" db:"eff_h"`
	CollectorRatio *float64 `json:"collector_ratio" db:"collector_ratio"` // eff_h / h

	CreatedAt *time.Time `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// HasRatio reports whether the collector ratio is defined
func (w Well) HasRatio() bool {
	return w.CollectorRatio != nil
}

// Float returns a pointer to v, used for nullable thickness attributes
func Float(v float64) *float64 {
	return &v
}
