package models

import "time"

// LoadSummary accompanies the results of one load
type LoadSummary struct {
	LoadID       string    `json:"load_id"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
	Wells        int       `json:"wells"`
	Trajectories int       `json:"trajectories"`
	LogSeries    int       `json:"log_series"`
	Warnings     []Warning `json:"warnings"`

	// Persistence outcome, zero when the load was not persisted
	Persisted          bool    `json:"persisted"`
	WellsSaved         int     `json:"wells_saved"`
	TrajectoriesSaved  int     `json:"trajectories_saved"`
	LogSeriesSaved     int     `json:"log_series_saved"`
	Failed             int     `json:"failed"`
	SuccessRatePercent float64 `json:"success_rate_percent"`
	Succeeded          bool    `json:"succeeded"` // At least half of the expected records saved
}
