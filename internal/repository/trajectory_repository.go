package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jengzang/geowell-backend-go/internal/database"
	"github.com/jengzang/geowell-backend-go/internal/models"
)

// TrajectoryRepository handles database operations for trajectory stations
type TrajectoryRepository struct {
	db *sql.DB
}

// NewTrajectoryRepository creates a new trajectory repository
func NewTrajectoryRepository(db *sql.DB) *TrajectoryRepository {
	return &TrajectoryRepository{db: db}
}

// Replace stores the stations of a well in place of any earlier ones.
// A well that does not exist yet is created at its first station.
func (r *TrajectoryRepository) Replace(ctx context.Context, well string, points []models.TrajectoryPoint) (int, error) {
	if len(points) == 0 {
		return 0, nil
	}

	err := database.Transaction(ctx, r.db, func(tx *sql.Tx) error {
		id, err := ensureWell(ctx, tx, well, points[0].Point())
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM trajectories WHERE well_id = ?", id); err != nil {
			return fmt.Errorf("failed to clear trajectory of %s: %w", well, err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO trajectories (well_id, point_index, x, y, z, md)
			VALUES (?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare trajectory insert: %w", err)
		}
		defer stmt.Close()

		for i, p := range points {
			if _, err := stmt.ExecContext(ctx, id, i, p.X, p.Y, p.Z, p.MD); err != nil {
				return fmt.Errorf("failed to insert station %d of %s: %w", i, well, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(points), nil
}

// GetByWell retrieves the stations of a well in survey order
func (r *TrajectoryRepository) GetByWell(ctx context.Context, well string) ([]models.TrajectoryPoint, error) {
	id, err := wellID(ctx, r.db, well)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT point_index, x, y, z, md
		FROM trajectories
		WHERE well_id = ?
		ORDER BY point_index
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query trajectory: %w", err)
	}
	defer rows.Close()

	points := []models.TrajectoryPoint{}
	for rows.Next() {
		p := models.TrajectoryPoint{Well: well}
		if err := rows.Scan(&p.Index, &p.X, &p.Y, &p.Z, &p.MD); err != nil {
			return nil, fmt.Errorf("failed to scan trajectory point: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// Count returns the number of wells with at least one station
func (r *TrajectoryRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(DISTINCT well_id) FROM trajectories").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count trajectories: %w", err)
	}
	return n, nil
}
