package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/semaglide/backend/pkg/model"
	"go.uber.org/zap"
)

// WeightRepository manages logged weight measurements
type WeightRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewWeightRepository creates a new WeightRepository
func NewWeightRepository(db *pgxpool.Pool, logger *zap.Logger) *WeightRepository {
	return &WeightRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new weight entry
func (r *WeightRepository) Create(ctx context.Context, entry *model.WeightEntry) error {
	query := `
		INSERT INTO weight_entries (id, user_id, date, weight, unit, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`

	_, err := r.db.Exec(ctx, query,
		entry.ID,
		entry.UserID,
		entry.Date,
		entry.Weight,
		entry.Unit,
		entry.Notes,
	)

	if err != nil {
		r.logger.Error("failed to create weight entry",
			zap.Error(err),
			zap.String("entry_id", entry.ID),
			zap.String("user_id", entry.UserID),
		)
		return fmt.Errorf("failed to create weight entry: %w", err)
	}

	return nil
}

// FindByUserID retrieves weight entries for a user in a date range,
// newest first. Zero bounds disable the range filter.
func (r *WeightRepository) FindByUserID(ctx context.Context, userID string, from, to time.Time) ([]model.WeightEntry, error) {
	query := `
		SELECT id, user_id, date, weight, unit, notes, created_at
		FROM weight_entries
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

	rows, err := r.db.Query(ctx, query, userID, fromArg, toArg)
	if err != nil {
		r.logger.Error("failed to find weight entries", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to find weight entries: %w", err)
	}
	defer rows.Close()

	var entries []model.WeightEntry
	for rows.Next() {
		var entry model.WeightEntry
		err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Date,
			&entry.Weight,
			&entry.Unit,
			&entry.Notes,
			&entry.CreatedAt,
		)
		if err != nil {
			r.logger.Error("failed to scan weight entry", zap.Error(err))
			continue
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating weight entries", zap.Error(err))
		return nil, fmt.Errorf("error iterating weight entries: %w", err)
	}

	return entries, nil
}

// FindEarliestByUserID retrieves the user's first logged weight, used
// as the baseline for change calculations. Returns nil without error
// when none exists.
func (r *WeightRepository) FindEarliestByUserID(ctx context.Context, userID string) (*model.WeightEntry, error) {
	query := `
		SELECT id, user_id, date, weight, unit, notes, created_at
		FROM weight_entries
		WHERE user_id = $1
		ORDER BY date ASC
		LIMIT 1
	`

	var entry model.WeightEntry
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&entry.ID,
		&entry.UserID,
		&entry.Date,
		&entry.Weight,
		&entry.Unit,
		&entry.Notes,
		&entry.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("failed to find earliest weight entry", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to find earliest weight entry: %w", err)
	}

	return &entry, nil
}

// Delete deletes a weight entry
func (r *WeightRepository) Delete(ctx context.Context, entryID string) error {
	query := `DELETE FROM weight_entries WHERE id = $1`

	result, err := r.db.Exec(ctx, query, entryID)
	if err != nil {
		r.logger.Error("failed to delete weight entry",
			zap.Error(err),
			zap.String("entry_id", entryID),
		)
		return fmt.Errorf("failed to delete weight entry: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("weight entry not found: %s", entryID)
	}

	return nil
}
