package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/ecs-booking-api/internal/models"
)

// AvailabilityRepository persists per-slot overrides and weekly recurring patterns.
// Overrides and patterns live in separate tables keyed by (date, time_slot) and
// day_of_week respectively.
type AvailabilityRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRepository constructs an availability repository.
func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// ListOverridesByDate returns all override rows for one calendar date.
func (r *AvailabilityRepository) ListOverridesByDate(ctx context.Context, date time.Time) ([]models.AvailabilityOverride, error) {
	const query = `SELECT id, date, time_slot, is_available, is_blocked, admin_notes, updated_by, created_at, updated_at
FROM availability_overrides WHERE date = $1 ORDER BY time_slot ASC`
	var overrides []models.AvailabilityOverride
	if err := r.db.SelectContext(ctx, &overrides, query, date); err != nil {
		return nil, fmt.Errorf("list overrides: %w", err)
	}
	return overrides, nil
}

// ListOverridesInRange returns override rows between start and end inclusive.
func (r *AvailabilityRepository) ListOverridesInRange(ctx context.Context, start, end time.Time) ([]models.AvailabilityOverride, error) {
	const query = `SELECT id, date, time_slot, is_available, is_blocked, admin_notes, updated_by, created_at, updated_at
FROM availability_overrides WHERE date >= $1 AND date <= $2 ORDER BY date ASC, time_slot ASC`
	var overrides []models.AvailabilityOverride
	if err := r.db.SelectContext(ctx, &overrides, query, start, end); err != nil {
		return nil, fmt.Errorf("list overrides in range: %w", err)
	}
	return overrides, nil
}

// GetOverride fetches the override for one (date, slot) pair, nil when absent.
func (r *AvailabilityRepository) GetOverride(ctx context.Context, date time.Time, slot string) (*models.AvailabilityOverride, error) {
	const query = `SELECT id, date, time_slot, is_available, is_blocked, admin_notes, updated_by, created_at, updated_at
FROM availability_overrides WHERE date = $1 AND time_slot = $2`
	var override models.AvailabilityOverride
	if err := r.db.GetContext(ctx, &override, query, date, slot); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get override: %w", err)
	}
	return &override, nil
}

// UpsertOverride inserts or updates the override for its (date, slot) pair.
func (r *AvailabilityRepository) UpsertOverride(ctx context.Context, override *models.AvailabilityOverride) error {
	if override.ID == "" {
		override.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if override.CreatedAt.IsZero() {
		override.CreatedAt = now
	}
	override.UpdatedAt = now

	const query = `
INSERT INTO availability_overrides (id, date, time_slot, is_available, is_blocked, admin_notes, updated_by, created_at, updated_at)
VALUES (:id, :date, :time_slot, :is_available, :is_blocked, :admin_notes, :updated_by, :created_at, :updated_at)
ON CONFLICT (date, time_slot) DO UPDATE
SET is_available = EXCLUDED.is_available,
    is_blocked = EXCLUDED.is_blocked,
    admin_notes = EXCLUDED.admin_notes,
    updated_by = EXCLUDED.updated_by,
    updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, override); err != nil {
		return fmt.Errorf("upsert override: %w", err)
	}
	return nil
}

// BulkUpsertOverrides applies one availability decision across a dates × slots
// grid inside a single transaction.
func (r *AvailabilityRepository) BulkUpsertOverrides(ctx context.Context, dates []time.Time, slots []string, isAvailable, isBlocked bool, updatedBy *string) error {
	if len(dates) == 0 || len(slots) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bulk upsert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const query = `
INSERT INTO availability_overrides (id, date, time_slot, is_available, is_blocked, updated_by, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
ON CONFLICT (date, time_slot) DO UPDATE
SET is_available = EXCLUDED.is_available,
    is_blocked = EXCLUDED.is_blocked,
    updated_by = EXCLUDED.updated_by,
    updated_at = EXCLUDED.updated_at`

	now := time.Now().UTC()
	for _, date := range dates {
		for _, slot := range slots {
			if _, err := tx.ExecContext(ctx, query, uuid.NewString(), date, slot, isAvailable, isBlocked, updatedBy, now); err != nil {
				return fmt.Errorf("bulk upsert override: %w", err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit bulk upsert: %w", err)
	}
	return nil
}

// DeleteOverridesForDate removes every override row for a date, restoring
// pattern or default behaviour.
func (r *AvailabilityRepository) DeleteOverridesForDate(ctx context.Context, date time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM availability_overrides WHERE date = $1`, date)
	if err != nil {
		return 0, fmt.Errorf("delete overrides: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return affected, nil
}

// GetPattern fetches the recurring pattern for a weekday, nil when absent.
func (r *AvailabilityRepository) GetPattern(ctx context.Context, dayOfWeek int) (*models.RecurringPattern, error) {
	const query = `SELECT day_of_week, slots, updated_by, updated_at FROM recurring_patterns WHERE day_of_week = $1`
	var pattern models.RecurringPattern
	if err := r.db.GetContext(ctx, &pattern, query, dayOfWeek); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pattern: %w", err)
	}
	return &pattern, nil
}

// ListPatterns returns every stored weekday pattern.
func (r *AvailabilityRepository) ListPatterns(ctx context.Context) ([]models.RecurringPattern, error) {
	const query = `SELECT day_of_week, slots, updated_by, updated_at FROM recurring_patterns ORDER BY day_of_week ASC`
	var patterns []models.RecurringPattern
	if err := r.db.SelectContext(ctx, &patterns, query); err != nil {
		return nil, fmt.Errorf("list patterns: %w", err)
	}
	return patterns, nil
}

// UpsertPattern replaces the weekly template for one weekday.
func (r *AvailabilityRepository) UpsertPattern(ctx context.Context, pattern *models.RecurringPattern) error {
	pattern.UpdatedAt = time.Now().UTC()
	const query = `
INSERT INTO recurring_patterns (day_of_week, slots, updated_by, updated_at)
VALUES (:day_of_week, :slots, :updated_by, :updated_at)
ON CONFLICT (day_of_week) DO UPDATE
SET slots = EXCLUDED.slots,
    updated_by = EXCLUDED.updated_by,
    updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, pattern); err != nil {
		return fmt.Errorf("upsert pattern: %w", err)
	}
	return nil
}
