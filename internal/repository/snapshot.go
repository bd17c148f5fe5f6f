package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/semaglide/backend/pkg/model"
	"go.uber.org/zap"
)

// SnapshotRepository manages the append-only medication level history
type SnapshotRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewSnapshotRepository creates a new SnapshotRepository
func NewSnapshotRepository(db *pgxpool.Pool, logger *zap.Logger) *SnapshotRepository {
	return &SnapshotRepository{
		db:     db,
		logger: logger,
	}
}

// Create appends a level snapshot. Snapshots are never updated or
// deleted afterwards.
func (r *SnapshotRepository) Create(ctx context.Context, snap *model.MedicationLevelSnapshot) error {
	query := `
		INSERT INTO level_snapshots (
			id, user_id, date, medication, dosage,
			calculated_level, percentage_of_peak, dose_event_id,
			days_since_last_dose, hours_since_last_dose,
			next_due_date, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
	`

	_, err := r.db.Exec(ctx, query,
		snap.ID,
		snap.UserID,
		snap.Date,
		snap.Medication,
		snap.Dosage,
		snap.CalculatedLevel,
		snap.PercentageOfPeak,
		snap.DoseEventID,
		snap.DaysSinceLastDose,
		snap.HoursSinceLastDose,
		snap.NextDueDate,
		snap.Status,
	)

	if err != nil {
		r.logger.Error("failed to create level snapshot",
			zap.Error(err),
			zap.String("snapshot_id", snap.ID),
			zap.String("user_id", snap.UserID),
		)
		return fmt.Errorf("failed to create level snapshot: %w", err)
	}

	return nil
}

// FindByUserID retrieves level snapshots for a user in a date range,
// newest first. Zero bounds disable the range filter.
func (r *SnapshotRepository) FindByUserID(ctx context.Context, userID string, from, to time.Time, limit int) ([]model.MedicationLevelSnapshot, error) {
	query := `
		SELECT
			id, user_id, date, medication, dosage,
			calculated_level, percentage_of_peak, dose_event_id,
			days_since_last_dose, hours_since_last_dose,
			next_due_date, status, created_at
		FROM level_snapshots
		WHERE user_id = $1
		  AND ($2::timestamptz IS NULL OR date >= $2)
		  AND ($3::timestamptz IS NULL OR date <= $3)
		ORDER BY date DESC
	`

	var fromArg, toArg interface{}
	if !from.IsZero() {
		fromArg = from
	}
	if !to.IsZero() {
		toArg = to
	}
	args := []interface{}{userID, fromArg, toArg}
	if limit > 0 {
		query += " LIMIT $4"
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to find level snapshots", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to find level snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []model.MedicationLevelSnapshot
	for rows.Next() {
		var snap model.MedicationLevelSnapshot
		err := rows.Scan(
			&snap.ID,
			&snap.UserID,
			&snap.Date,
			&snap.Medication,
			&snap.Dosage,
			&snap.CalculatedLevel,
			&snap.PercentageOfPeak,
			&snap.DoseEventID,
			&snap.DaysSinceLastDose,
			&snap.HoursSinceLastDose,
			&snap.NextDueDate,
			&snap.Status,
			&snap.CreatedAt,
		)
		if err != nil {
			r.logger.Error("failed to scan level snapshot", zap.Error(err))
			continue
		}
		snapshots = append(snapshots, snap)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating level snapshots", zap.Error(err))
		return nil, fmt.Errorf("error iterating level snapshots: %w", err)
	}

	return snapshots, nil
}
