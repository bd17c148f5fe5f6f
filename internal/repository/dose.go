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

// DoseRepository manages dose event data
type DoseRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewDoseRepository creates a new DoseRepository
func NewDoseRepository(db *pgxpool.Pool, logger *zap.Logger) *DoseRepository {
	return &DoseRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new dose event
func (r *DoseRepository) Create(ctx context.Context, dose *model.DoseEvent) error {
	query := `
		INSERT INTO dose_events (
			id, user_id, date, medication, dosage,
			injection_site, pain_level, side_effects, notes,
			next_due_date, photo_path, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
	`

	_, err := r.db.Exec(ctx, query,
		dose.ID,
		dose.UserID,
		dose.Date,
		dose.Medication,
		dose.Dosage,
		dose.InjectionSite,
		dose.PainLevel,
		dose.SideEffects,
		dose.Notes,
		dose.NextDueDate,
		dose.PhotoPath,
	)

	if err != nil {
		r.logger.Error("failed to create dose event",
			zap.Error(err),
			zap.String("dose_id", dose.ID),
			zap.String("user_id", dose.UserID),
		)
		return fmt.Errorf("failed to create dose event: %w", err)
	}

	return nil
}

const doseColumns = `
	id, user_id, date, medication, dosage,
	injection_site, pain_level, side_effects, notes,
	next_due_date, photo_path, created_at, updated_at
`

func scanDose(row pgx.Row) (*model.DoseEvent, error) {
	var dose model.DoseEvent
	err := row.Scan(
		&dose.ID,
		&dose.UserID,
		&dose.Date,
		&dose.Medication,
		&dose.Dosage,
		&dose.InjectionSite,
		&dose.PainLevel,
		&dose.SideEffects,
		&dose.Notes,
		&dose.NextDueDate,
		&dose.PhotoPath,
		&dose.CreatedAt,
		&dose.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &dose, nil
}

// FindByUserID retrieves dose events for a user newest first, with an
// optional date range and limit. Zero time bounds and a zero limit
// disable the respective filters.
func (r *DoseRepository) FindByUserID(ctx context.Context, userID string, from, to time.Time, limit int) ([]model.DoseEvent, error) {
	query := `
		SELECT ` + doseColumns + `
		FROM dose_events
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
		r.logger.Error("failed to find dose events", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to find dose events: %w", err)
	}
	defer rows.Close()

	var doses []model.DoseEvent
	for rows.Next() {
		dose, err := scanDose(rows)
		if err != nil {
			r.logger.Error("failed to scan dose event", zap.Error(err))
			continue
		}
		doses = append(doses, *dose)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating dose events", zap.Error(err))
		return nil, fmt.Errorf("error iterating dose events: %w", err)
	}

	return doses, nil
}

// FindByID retrieves a dose event by ID
func (r *DoseRepository) FindByID(ctx context.Context, doseID string) (*model.DoseEvent, error) {
	query := `
		SELECT ` + doseColumns + `
		FROM dose_events
		WHERE id = $1
	`

	dose, err := scanDose(r.db.QueryRow(ctx, query, doseID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("dose event not found: %s", doseID)
		}
		r.logger.Error("failed to find dose event", zap.Error(err), zap.String("dose_id", doseID))
		return nil, fmt.Errorf("failed to find dose event: %w", err)
	}

	return dose, nil
}

// FindLatestByUserID retrieves the most recent dose event for a user.
// Returns nil without error when the user has no doses yet.
func (r *DoseRepository) FindLatestByUserID(ctx context.Context, userID string) (*model.DoseEvent, error) {
	query := `
		SELECT ` + doseColumns + `
		FROM dose_events
		WHERE user_id = $1
		ORDER BY date DESC
		LIMIT 1
	`

	dose, err := scanDose(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("failed to find latest dose event", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to find latest dose event: %w", err)
	}

	return dose, nil
}

// FindLatestBefore retrieves the most recent dose event at or before a
// point in time. Returns nil without error when none exists.
func (r *DoseRepository) FindLatestBefore(ctx context.Context, userID string, at time.Time) (*model.DoseEvent, error) {
	query := `
		SELECT ` + doseColumns + `
		FROM dose_events
		WHERE user_id = $1 AND date <= $2
		ORDER BY date DESC
		LIMIT 1
	`

	dose, err := scanDose(r.db.QueryRow(ctx, query, userID, at))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("failed to find dose event before date", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to find dose event before date: %w", err)
	}

	return dose, nil
}

// RecentSites returns the injection sites of the newest dose events,
// newest first
func (r *DoseRepository) RecentSites(ctx context.Context, userID string, limit int) ([]model.InjectionSite, error) {
	query := `
		SELECT injection_site
		FROM dose_events
		WHERE user_id = $1
		ORDER BY date DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		r.logger.Error("failed to get recent injection sites", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to get recent injection sites: %w", err)
	}
	defer rows.Close()

	var sites []model.InjectionSite
	for rows.Next() {
		var site model.InjectionSite
		if err := rows.Scan(&site); err != nil {
			r.logger.Error("failed to scan injection site", zap.Error(err))
			continue
		}
		sites = append(sites, site)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating injection sites", zap.Error(err))
		return nil, fmt.Errorf("error iterating injection sites: %w", err)
	}

	return sites, nil
}

// Update updates an existing dose event
func (r *DoseRepository) Update(ctx context.Context, dose *model.DoseEvent) error {
	query := `
		UPDATE dose_events
		SET date = $1, medication = $2, dosage = $3,
		    injection_site = $4, pain_level = $5, side_effects = $6,
		    notes = $7, next_due_date = $8, photo_path = $9,
		    updated_at = NOW()
		WHERE id = $10
	`

	result, err := r.db.Exec(ctx, query,
		dose.Date,
		dose.Medication,
		dose.Dosage,
		dose.InjectionSite,
		dose.PainLevel,
		dose.SideEffects,
		dose.Notes,
		dose.NextDueDate,
		dose.PhotoPath,
		dose.ID,
	)

	if err != nil {
		r.logger.Error("failed to update dose event",
			zap.Error(err),
			zap.String("dose_id", dose.ID),
		)
		return fmt.Errorf("failed to update dose event: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("dose event not found: %s", dose.ID)
	}

	return nil
}

// Delete deletes a dose event
func (r *DoseRepository) Delete(ctx context.Context, doseID string) error {
	query := `DELETE FROM dose_events WHERE id = $1`

	result, err := r.db.Exec(ctx, query, doseID)
	if err != nil {
		r.logger.Error("failed to delete dose event",
			zap.Error(err),
			zap.String("dose_id", doseID),
		)
		return fmt.Errorf("failed to delete dose event: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("dose event not found: %s", doseID)
	}

	return nil
}

// DoseStats aggregates a user's dose history
type DoseStats struct {
	TotalDoses       int                         `json:"total_doses"`
	AveragePainLevel float64                     `json:"average_pain_level"`
	FirstDoseDate    *time.Time                  `json:"first_dose_date,omitempty"`
	LastDoseDate     *time.Time                  `json:"last_dose_date,omitempty"`
	SiteCounts       map[model.InjectionSite]int `json:"site_counts"`
}

// Stats computes aggregate statistics over a user's dose history
func (r *DoseRepository) Stats(ctx context.Context, userID string) (*DoseStats, error) {
	query := `
		SELECT COUNT(*), COALESCE(AVG(pain_level), 0), MIN(date), MAX(date)
		FROM dose_events
		WHERE user_id = $1
	`

	stats := &DoseStats{SiteCounts: make(map[model.InjectionSite]int)}
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&stats.TotalDoses,
		&stats.AveragePainLevel,
		&stats.FirstDoseDate,
		&stats.LastDoseDate,
	)
	if err != nil {
		r.logger.Error("failed to compute dose stats", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to compute dose stats: %w", err)
	}

	siteQuery := `
		SELECT injection_site, COUNT(*)
		FROM dose_events
		WHERE user_id = $1
		GROUP BY injection_site
	`

	rows, err := r.db.Query(ctx, siteQuery, userID)
	if err != nil {
		r.logger.Error("failed to compute site counts", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to compute site counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var site model.InjectionSite
		var count int
		if err := rows.Scan(&site, &count); err != nil {
			r.logger.Error("failed to scan site count", zap.Error(err))
			continue
		}
		stats.SiteCounts[site] = count
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating site counts", zap.Error(err))
		return nil, fmt.Errorf("error iterating site counts: %w", err)
	}

	return stats, nil
}
