package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/semaglide/backend/pkg/model"
	"go.uber.org/zap"
)

// ScheduleRepository manages dosing schedule data
type ScheduleRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewScheduleRepository creates a new ScheduleRepository
func NewScheduleRepository(db *pgxpool.Pool, logger *zap.Logger) *ScheduleRepository {
	return &ScheduleRepository{
		db:     db,
		logger: logger,
	}
}

const scheduleColumns = `
	id, user_id, medication, dosage, frequency,
	custom_interval, preferred_time, specific_time, time_zone,
	active, start_date, end_date, reminders, adherence,
	created_at, updated_at
`

func scanSchedule(row pgx.Row) (*model.ScheduleConfig, error) {
	var sched model.ScheduleConfig
	err := row.Scan(
		&sched.ID,
		&sched.UserID,
		&sched.Medication,
		&sched.Dosage,
		&sched.Frequency,
		&sched.CustomInterval,
		&sched.PreferredTime,
		&sched.SpecificTime,
		&sched.TimeZone,
		&sched.Active,
		&sched.StartDate,
		&sched.EndDate,
		&sched.Reminders,
		&sched.Adherence,
		&sched.CreatedAt,
		&sched.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &sched, nil
}

// CreateActive inserts a new schedule and deactivates any other active
// schedule of the same user in the same transaction, so at most one
// schedule per user is ever active.
func (r *ScheduleRepository) CreateActive(ctx context.Context, sched *model.ScheduleConfig) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	deactivate := `
		UPDATE schedules
		SET active = false, updated_at = NOW()
		WHERE user_id = $1 AND active = true
	`
	if _, err := tx.Exec(ctx, deactivate, sched.UserID); err != nil {
		r.logger.Error("failed to deactivate previous schedules",
			zap.Error(err),
			zap.String("user_id", sched.UserID),
		)
		return fmt.Errorf("failed to deactivate previous schedules: %w", err)
	}

	insert := `
		INSERT INTO schedules (
			id, user_id, medication, dosage, frequency,
			custom_interval, preferred_time, specific_time, time_zone,
			active, start_date, end_date, reminders, adherence,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, true, $10, $11, $12, $13, NOW(), NOW())
	`
	_, err = tx.Exec(ctx, insert,
		sched.ID,
		sched.UserID,
		sched.Medication,
		sched.Dosage,
		sched.Frequency,
		sched.CustomInterval,
		sched.PreferredTime,
		sched.SpecificTime,
		sched.TimeZone,
		sched.StartDate,
		sched.EndDate,
		sched.Reminders,
		sched.Adherence,
	)
	if err != nil {
		r.logger.Error("failed to create schedule",
			zap.Error(err),
			zap.String("schedule_id", sched.ID),
			zap.String("user_id", sched.UserID),
		)
		return fmt.Errorf("failed to create schedule: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit schedule creation: %w", err)
	}

	sched.Active = true
	return nil
}

// Update updates an existing schedule's configuration
func (r *ScheduleRepository) Update(ctx context.Context, sched *model.ScheduleConfig) error {
	query := `
		UPDATE schedules
		SET medication = $1, dosage = $2, frequency = $3,
		    custom_interval = $4, preferred_time = $5, specific_time = $6,
		    time_zone = $7, start_date = $8, end_date = $9,
		    reminders = $10, updated_at = NOW()
		WHERE id = $11
	`

	result, err := r.db.Exec(ctx, query,
		sched.Medication,
		sched.Dosage,
		sched.Frequency,
		sched.CustomInterval,
		sched.PreferredTime,
		sched.SpecificTime,
		sched.TimeZone,
		sched.StartDate,
		sched.EndDate,
		sched.Reminders,
		sched.ID,
	)

	if err != nil {
		r.logger.Error("failed to update schedule",
			zap.Error(err),
			zap.String("schedule_id", sched.ID),
		)
		return fmt.Errorf("failed to update schedule: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("schedule not found: %s", sched.ID)
	}

	return nil
}

// FindActiveByUserID retrieves the user's active schedule. Returns nil
// without error when the user has no active schedule.
func (r *ScheduleRepository) FindActiveByUserID(ctx context.Context, userID string) (*model.ScheduleConfig, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM schedules
		WHERE user_id = $1 AND active = true
		ORDER BY created_at DESC
		LIMIT 1
	`

	sched, err := scanSchedule(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("failed to find active schedule", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to find active schedule: %w", err)
	}

	return sched, nil
}

// FindByID retrieves a schedule by ID
func (r *ScheduleRepository) FindByID(ctx context.Context, scheduleID string) (*model.ScheduleConfig, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM schedules
		WHERE id = $1
	`

	sched, err := scanSchedule(r.db.QueryRow(ctx, query, scheduleID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("schedule not found: %s", scheduleID)
		}
		r.logger.Error("failed to find schedule", zap.Error(err), zap.String("schedule_id", scheduleID))
		return nil, fmt.Errorf("failed to find schedule: %w", err)
	}

	return sched, nil
}

// ListActiveWithReminders retrieves every active schedule whose
// reminders are enabled, for the reminder sweeper.
func (r *ScheduleRepository) ListActiveWithReminders(ctx context.Context) ([]model.ScheduleConfig, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM schedules
		WHERE active = true AND (reminders->>'enabled')::boolean = true
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("failed to list schedules with reminders", zap.Error(err))
		return nil, fmt.Errorf("failed to list schedules with reminders: %w", err)
	}
	defer rows.Close()

	var schedules []model.ScheduleConfig
	for rows.Next() {
		sched, err := scanSchedule(rows)
		if err != nil {
			r.logger.Error("failed to scan schedule", zap.Error(err))
			continue
		}
		schedules = append(schedules, *sched)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating schedules", zap.Error(err))
		return nil, fmt.Errorf("error iterating schedules: %w", err)
	}

	return schedules, nil
}

// SaveAdherence persists a recomputed adherence summary on a schedule
func (r *ScheduleRepository) SaveAdherence(ctx context.Context, scheduleID string, adherence model.AdherenceSummary) error {
	query := `
		UPDATE schedules
		SET adherence = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.db.Exec(ctx, query, adherence, scheduleID)
	if err != nil {
		r.logger.Error("failed to save adherence summary",
			zap.Error(err),
			zap.String("schedule_id", scheduleID),
		)
		return fmt.Errorf("failed to save adherence summary: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("schedule not found: %s", scheduleID)
	}

	return nil
}

// AppendAdjustment records a schedule change in the append-only
// adjustment history
func (r *ScheduleRepository) AppendAdjustment(ctx context.Context, adj *model.ScheduleAdjustment) error {
	query := `
		INSERT INTO schedule_adjustments (id, schedule_id, date, reason, old_value, new_value, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		adj.ID,
		adj.ScheduleID,
		adj.Date,
		adj.Reason,
		adj.OldValue,
		adj.NewValue,
		adj.Notes,
	)

	if err != nil {
		r.logger.Error("failed to append schedule adjustment",
			zap.Error(err),
			zap.String("schedule_id", adj.ScheduleID),
		)
		return fmt.Errorf("failed to append schedule adjustment: %w", err)
	}

	return nil
}

// FindAdjustments retrieves a schedule's adjustment history newest first
func (r *ScheduleRepository) FindAdjustments(ctx context.Context, scheduleID string) ([]model.ScheduleAdjustment, error) {
	query := `
		SELECT id, schedule_id, date, reason, old_value, new_value, notes
		FROM schedule_adjustments
		WHERE schedule_id = $1
		ORDER BY date DESC
	`

	rows, err := r.db.Query(ctx, query, scheduleID)
	if err != nil {
		r.logger.Error("failed to find schedule adjustments", zap.Error(err), zap.String("schedule_id", scheduleID))
		return nil, fmt.Errorf("failed to find schedule adjustments: %w", err)
	}
	defer rows.Close()

	var adjustments []model.ScheduleAdjustment
	for rows.Next() {
		var adj model.ScheduleAdjustment
		err := rows.Scan(
			&adj.ID,
			&adj.ScheduleID,
			&adj.Date,
			&adj.Reason,
			&adj.OldValue,
			&adj.NewValue,
			&adj.Notes,
		)
		if err != nil {
			r.logger.Error("failed to scan schedule adjustment", zap.Error(err))
			continue
		}
		adjustments = append(adjustments, adj)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating schedule adjustments", zap.Error(err))
		return nil, fmt.Errorf("error iterating schedule adjustments: %w", err)
	}

	return adjustments, nil
}
