package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jengzang/geowell-backend-go/internal/database"
	"github.com/jengzang/geowell-backend-go/internal/models"
)

// LASRepository handles database operations for well-log samples
type LASRepository struct {
	db *sql.DB
}

// NewLASRepository creates a new log sample repository
func NewLASRepository(db *sql.DB) *LASRepository {
	return &LASRepository{db: db}
}

// Replace stores the samples of a series in place of the well's earlier
// samples. Sentinel and NaN values are not stored; a zero NullValue
// means the LAS default. The well must exist.
func (r *LASRepository) Replace(ctx context.Context, series models.LogSeries) (int, error) {
	stored := 0
	err := database.Transaction(ctx, r.db, func(tx *sql.Tx) error {
		id, err := wellID(ctx, tx, series.Well)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM las_data WHERE well_id = ?", id); err != nil {
			return fmt.Errorf("failed to clear log samples of %s: %w", series.Well, err)
		}

		stmt, err := tx.PrepareContext(ctx, "INSERT INTO las_data (well_id, depth, curve_value) VALUES (?, ?, ?)")
		if err != nil {
			return fmt.Errorf("failed to prepare log sample insert: %w", err)
		}
		defer stmt.Close()

		for _, s := range series.Samples {
			if series.IsNull(s.Value) || s.Value == models.DefaultNullValue {
				continue
			}
			if _, err := stmt.ExecContext(ctx, id, s.Depth, s.Value); err != nil {
				return fmt.Errorf("failed to insert log sample of %s: %w", series.Well, err)
			}
			stored++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return stored, nil
}

// GetByWell retrieves the stored samples of a well ordered by depth
func (r *LASRepository) GetByWell(ctx context.Context, well string) (models.LogSeries, error) {
	series := models.LogSeries{Well: well, NullValue: models.DefaultNullValue, Samples: []models.LogSample{}}

	id, err := wellID(ctx, r.db, well)
	if err != nil {
		return series, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT depth, curve_value
		FROM las_data
		WHERE well_id = ?
		ORDER BY depth, id
	`, id)
	if err != nil {
		return series, fmt.Errorf("failed to query log samples: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s models.LogSample
		if err := rows.Scan(&s.Depth, &s.Value); err != nil {
			return series, fmt.Errorf("failed to scan log sample: %w", err)
		}
		series.Samples = append(series.Samples, s)
	}
	return series, rows.Err()
}

// Count returns the number of wells with stored log samples
func (r *LASRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(DISTINCT well_id) FROM las_data").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count log series: %w", err)
	}
	return n, nil
}
