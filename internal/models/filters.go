package models

// WellFilter represents filter parameters for querying wells. A nil ratio
// bound is unset; zero is a valid bound.
type WellFilter struct {
	HasRatio *bool    `form:"hasRatio"`
	MinRatio *float64 `form:"minRatio"`
	MaxRatio *float64 `form:"maxRatio"`
	Page     int      `form:"page"`
	PageSize int      `form:"pageSize"`
}

// SegmentQuery represents query parameters for on-demand segmentation
type SegmentQuery struct {
	Boundary string   `form:"boundary"` // sample, contiguous
	MinDepth *float64 `form:"minDepth"`
	MaxDepth *float64 `form:"maxDepth"`
}

// WellsResponse represents a paginated response of wells
type WellsResponse struct {
	Data       []Well `json:"data"`
	Total      int64  `json:"total"`
	Page       int    `json:"page"`
	PageSize   int    `json:"pageSize"`
	TotalPages int    `json:"totalPages"`
}

// RatioStats summarises collector ratios across wells
type RatioStats struct {
	Wells     int     `json:"wells"`
	WithRatio int     `json:"with_ratio"`
	Mean      float64 `json:"mean"`
	StdDev    float64 `json:"std_dev"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
}
