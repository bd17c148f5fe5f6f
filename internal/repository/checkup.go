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

// CheckupRepository manages weekly checkup data
type CheckupRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewCheckupRepository creates a new CheckupRepository
func NewCheckupRepository(db *pgxpool.Pool, logger *zap.Logger) *CheckupRepository {
	return &CheckupRepository{
		db:     db,
		logger: logger,
	}
}

const checkupColumns = `
	id, user_id, date, current_weight, weight_unit,
	weight_change, weight_change_percent, side_effects,
	overall_severity, recommendation, recommendation_reason,
	confidence, notes, created_at, updated_at
`

func scanCheckup(row pgx.Row) (*model.WeeklyCheckupRecord, error) {
	var checkup model.WeeklyCheckupRecord
	err := row.Scan(
		&checkup.ID,
		&checkup.UserID,
		&checkup.Date,
		&checkup.CurrentWeight,
		&checkup.WeightUnit,
		&checkup.WeightChange,
		&checkup.WeightChangePercent,
		&checkup.SideEffects,
		&checkup.OverallSeverity,
		&checkup.Recommendation,
		&checkup.RecommendationReason,
		&checkup.Confidence,
		&checkup.Notes,
		&checkup.CreatedAt,
		&checkup.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &checkup, nil
}

// Create inserts a new weekly checkup
func (r *CheckupRepository) Create(ctx context.Context, checkup *model.WeeklyCheckupRecord) error {
	query := `
		INSERT INTO weekly_checkups (
			id, user_id, date, current_weight, weight_unit,
			weight_change, weight_change_percent, side_effects,
			overall_severity, recommendation, recommendation_reason,
			confidence, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
	`

	_, err := r.db.Exec(ctx, query,
		checkup.ID,
		checkup.UserID,
		checkup.Date,
		checkup.CurrentWeight,
		checkup.WeightUnit,
		checkup.WeightChange,
		checkup.WeightChangePercent,
		checkup.SideEffects,
		checkup.OverallSeverity,
		checkup.Recommendation,
		checkup.RecommendationReason,
		checkup.Confidence,
		checkup.Notes,
	)

	if err != nil {
		r.logger.Error("failed to create weekly checkup",
			zap.Error(err),
			zap.String("checkup_id", checkup.ID),
			zap.String("user_id", checkup.UserID),
		)
		return fmt.Errorf("failed to create weekly checkup: %w", err)
	}

	return nil
}

// FindByUserID retrieves all checkups for a user, newest first
func (r *CheckupRepository) FindByUserID(ctx context.Context, userID string) ([]model.WeeklyCheckupRecord, error) {
	query := `
		SELECT ` + checkupColumns + `
		FROM weekly_checkups
		WHERE user_id = $1
		ORDER BY date DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("failed to find weekly checkups", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to find weekly checkups: %w", err)
	}
	defer rows.Close()

	var checkups []model.WeeklyCheckupRecord
	for rows.Next() {
		checkup, err := scanCheckup(rows)
		if err != nil {
			r.logger.Error("failed to scan weekly checkup", zap.Error(err))
			continue
		}
		checkups = append(checkups, *checkup)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating weekly checkups", zap.Error(err))
		return nil, fmt.Errorf("error iterating weekly checkups: %w", err)
	}

	return checkups, nil
}

// FindByID retrieves a checkup by ID
func (r *CheckupRepository) FindByID(ctx context.Context, checkupID string) (*model.WeeklyCheckupRecord, error) {
	query := `
		SELECT ` + checkupColumns + `
		FROM weekly_checkups
		WHERE id = $1
	`

	checkup, err := scanCheckup(r.db.QueryRow(ctx, query, checkupID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("weekly checkup not found: %s", checkupID)
		}
		r.logger.Error("failed to find weekly checkup", zap.Error(err), zap.String("checkup_id", checkupID))
		return nil, fmt.Errorf("failed to find weekly checkup: %w", err)
	}

	return checkup, nil
}

// FindLatestByUserID retrieves the most recent checkup for a user.
// Returns nil without error when the user has none.
func (r *CheckupRepository) FindLatestByUserID(ctx context.Context, userID string) (*model.WeeklyCheckupRecord, error) {
	query := `
		SELECT ` + checkupColumns + `
		FROM weekly_checkups
		WHERE user_id = $1
		ORDER BY date DESC
		LIMIT 1
	`

	checkup, err := scanCheckup(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("failed to find latest checkup", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to find latest checkup: %w", err)
	}

	return checkup, nil
}

// FindPreviousByUserID retrieves the most recent checkup dated strictly
// before the given time. Returns nil without error when none exists.
func (r *CheckupRepository) FindPreviousByUserID(ctx context.Context, userID string, before time.Time) (*model.WeeklyCheckupRecord, error) {
	query := `
		SELECT ` + checkupColumns + `
		FROM weekly_checkups
		WHERE user_id = $1 AND date < $2
		ORDER BY date DESC
		LIMIT 1
	`

	checkup, err := scanCheckup(r.db.QueryRow(ctx, query, userID, before))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("failed to find previous checkup", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to find previous checkup: %w", err)
	}

	return checkup, nil
}

// Update updates an existing weekly checkup
func (r *CheckupRepository) Update(ctx context.Context, checkup *model.WeeklyCheckupRecord) error {
	query := `
		UPDATE weekly_checkups SET
			date = $2,
			current_weight = $3,
			weight_unit = $4,
			weight_change = $5,
			weight_change_percent = $6,
			side_effects = $7,
			overall_severity = $8,
			recommendation = $9,
			recommendation_reason = $10,
			confidence = $11,
			notes = $12,
			updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		checkup.ID,
		checkup.Date,
		checkup.CurrentWeight,
		checkup.WeightUnit,
		checkup.WeightChange,
		checkup.WeightChangePercent,
		checkup.SideEffects,
		checkup.OverallSeverity,
		checkup.Recommendation,
		checkup.RecommendationReason,
		checkup.Confidence,
		checkup.Notes,
	)

	if err != nil {
		r.logger.Error("failed to update weekly checkup",
			zap.Error(err),
			zap.String("checkup_id", checkup.ID),
		)
		return fmt.Errorf("failed to update weekly checkup: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("weekly checkup not found: %s", checkup.ID)
	}

	return nil
}

// Delete deletes a weekly checkup
func (r *CheckupRepository) Delete(ctx context.Context, checkupID string) error {
	query := `DELETE FROM weekly_checkups WHERE id = $1`

	result, err := r.db.Exec(ctx, query, checkupID)
	if err != nil {
		r.logger.Error("failed to delete weekly checkup",
			zap.Error(err),
			zap.String("checkup_id", checkupID),
		)
		return fmt.Errorf("failed to delete weekly checkup: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("weekly checkup not found: %s", checkupID)
	}

	return nil
}
