package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jengzang/geowell-backend-go/internal/models"
)

// ErrWellNotFound is returned when no well has the requested name
var ErrWellNotFound = errors.New("well not found")

const wellColumns = `id, name, x, y, z, h, eff_h, collector_ratio, created_at, updated_at`

// WellRepository handles database operations for wells
type WellRepository struct {
	db *sql.DB
}

// NewWellRepository creates a new well repository
func NewWellRepository(db *sql.DB) *WellRepository {
	return &WellRepository{db: db}
}

// Upsert inserts a well or replaces every attribute of the existing well
// with the same name, returning its ID
func (r *WellRepository) Upsert(ctx context.Context, w models.Well) (int64, error) {
	query := `
		INSERT INTO wells (name, x, y, z, h, eff_h, collector_ratio)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			x = excluded.x,
			y = excluded.y,
			z = excluded.z,
			h = excluded.h,
			eff_h = excluded.eff_h,
			collector_ratio = excluded.collector_ratio,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		w.Name, w.X, w.Y, w.Z, nullFloat(w.H), nullFloat(w.EffH), nullFloat(w.CollectorRatio),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert well %s: %w", w.Name, err)
	}
	return id, nil
}

// GetByName retrieves a single well
func (r *WellRepository) GetByName(ctx context.Context, name string) (*models.Well, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+wellColumns+` FROM wells WHERE name = ?`, name)

	w, err := scanWell(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrWellNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get well: %w", err)
	}
	return w, nil
}

// List retrieves wells with filtering and pagination, ordered by name
func (r *WellRepository) List(ctx context.Context, filter models.WellFilter) ([]models.Well, int64, error) {
	var conditions []string
	var args []interface{}

	if filter.HasRatio != nil {
		if *filter.HasRatio {
			conditions = append(conditions, "collector_ratio IS NOT NULL")
		} else {
			conditions = append(conditions, "collector_ratio IS NULL")
		}
	}
	if filter.MinRatio != nil {
		conditions = append(conditions, "collector_ratio >= ?")
		args = append(args, *filter.MinRatio)
	}
	if filter.MaxRatio != nil {
		conditions = append(conditions, "collector_ratio <= ?")
		args = append(args, *filter.MaxRatio)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM wells"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count wells: %w", err)
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 100
	}
	if filter.PageSize > 1000 {
		filter.PageSize = 1000
	}
	offset := (filter.Page - 1) * filter.PageSize

	query := `SELECT ` + wellColumns + ` FROM wells` + where + ` ORDER BY name LIMIT ? OFFSET ?`
	args = append(args, filter.PageSize, offset)

	wells, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return wells, total, nil
}

// All retrieves every well ordered by name
func (r *WellRepository) All(ctx context.Context) ([]models.Well, error) {
	return r.query(ctx, `SELECT `+wellColumns+` FROM wells ORDER BY name`)
}

func (r *WellRepository) query(ctx context.Context, query string, args ...interface{}) ([]models.Well, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query wells: %w", err)
	}
	defer rows.Close()

	wells := []models.Well{}
	for rows.Next() {
		w, err := scanWell(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan well: %w", err)
		}
		wells = append(wells, *w)
	}
	return wells, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanWell(s scanner) (*models.Well, error) {
	var w models.Well
	var h, effH, ratio sql.NullFloat64
	var createdAt, updatedAt interface{}

	err := s.Scan(&w.ID, &w.Name, &w.X, &w.Y, &w.Z, &h, &effH, &ratio, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	w.H = floatPtr(h)
	w.EffH = floatPtr(effH)
	w.CollectorRatio = floatPtr(ratio)
	w.CreatedAt = parseTimestamp(createdAt)
	w.UpdatedAt = parseTimestamp(updatedAt)
	return &w, nil
}

// ensureWell returns the ID of a well, creating it at the given surface
// location when it does not exist yet
func ensureWell(ctx context.Context, tx *sql.Tx, name string, at models.Point3) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx, "SELECT id FROM wells WHERE name = ?", name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to look up well %s: %w", name, err)
	}

	err = tx.QueryRowContext(ctx,
		"INSERT INTO wells (name, x, y, z) VALUES (?, ?, ?, ?) RETURNING id",
		name, at.X, at.Y, at.Z,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create well %s: %w", name, err)
	}
	return id, nil
}

func wellID(ctx context.Context, q interface {
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}, name string) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx, "SELECT id FROM wells WHERE name = ?", name).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("%w: %s", ErrWellNotFound, name)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to look up well %s: %w", name, err)
	}
	return id, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return models.Float(v.Float64)
}

// parseTimestamp accepts the time.Time or text forms SQLite hands back
func parseTimestamp(v interface{}) *time.Time {
	var s string
	switch t := v.(type) {
	case time.Time:
		return &t
	case string:
		s = t
	case []byte:
		s = string(t)
	default:
		return nil
	}
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339Nano} {
		if parsed, err := time.Parse(layout, s); err == nil {
			return &parsed
		}
	}
	return nil
}
