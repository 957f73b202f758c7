package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/ecs-booking-api/internal/dto"
	"github.com/noah-isme/ecs-booking-api/internal/models"
	appErrors "github.com/noah-isme/ecs-booking-api/pkg/errors"
)

type overrideWriter interface {
	ListOverridesInRange(ctx context.Context, start, end time.Time) ([]models.AvailabilityOverride, error)
	UpsertOverride(ctx context.Context, override *models.AvailabilityOverride) error
	BulkUpsertOverrides(ctx context.Context, dates []time.Time, slots []string, isAvailable, isBlocked bool, updatedBy *string) error
	DeleteOverridesForDate(ctx context.Context, date time.Time) (int64, error)
	ListPatterns(ctx context.Context) ([]models.RecurringPattern, error)
	UpsertPattern(ctx context.Context, pattern *models.RecurringPattern) error
}

type cacheInvalidator interface {
	InvalidateDate(ctx context.Context, date time.Time)
}

// AvailabilityAdminService carries the admin-side calendar mutations:
// single and bulk overrides, weekly patterns and date resets. Every write
// invalidates the affected dates in the read cache.
type AvailabilityAdminService struct {
	repo      overrideWriter
	cache     cacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAvailabilityAdminService constructs the admin service. cache may be nil.
func NewAvailabilityAdminService(repo overrideWriter, cache cacheInvalidator, validate *validator.Validate, logger *zap.Logger) *AvailabilityAdminService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityAdminService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// ListOverrides returns the override rows in an inclusive date range.
func (s *AvailabilityAdminService) ListOverrides(ctx context.Context, start, end time.Time) ([]models.AvailabilityOverride, error) {
	if end.Before(start) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end date precedes start date")
	}
	overrides, err := s.repo.ListOverridesInRange(ctx, truncateToDay(start), truncateToDay(end))
	if err != nil {
		return nil, mapStoreError(err, s.logger, "failed to list overrides")
	}
	return overrides, nil
}

// UpsertOverride sets the availability decision for one (date, slot) pair.
func (s *AvailabilityAdminService) UpsertOverride(ctx context.Context, req dto.UpsertOverrideRequest, claims *models.JWTClaims) (*models.AvailabilityOverride, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, validationMessage(err))
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date, expected YYYY-MM-DD")
	}

	override := &models.AvailabilityOverride{
		Date:        date,
		TimeSlot:    req.TimeSlot,
		IsAvailable: req.IsAvailable,
		IsBlocked:   req.IsBlocked,
		AdminNotes:  optional(req.AdminNotes),
		UpdatedBy:   &claims.UserID,
	}
	if err := s.repo.UpsertOverride(ctx, override); err != nil {
		return nil, mapStoreError(err, s.logger, "failed to save override")
	}
	s.invalidate(ctx, date)
	return override, nil
}

// BulkUpsert applies one decision across a dates × slots grid.
func (s *AvailabilityAdminService) BulkUpsert(ctx context.Context, req dto.BulkOverrideRequest, claims *models.JWTClaims) (int, error) {
	if claims == nil {
		return 0, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, validationMessage(err))
	}

	dates := make([]time.Time, 0, len(req.Dates))
	for _, raw := range req.Dates {
		date, err := time.Parse(dateLayout, raw)
		if err != nil {
			return 0, appErrors.Clone(appErrors.ErrValidation, "invalid date, expected YYYY-MM-DD")
		}
		dates = append(dates, date)
	}

	if err := s.repo.BulkUpsertOverrides(ctx, dates, req.TimeSlots, req.IsAvailable, req.IsBlocked, &claims.UserID); err != nil {
		return 0, mapStoreError(err, s.logger, "failed to apply bulk overrides")
	}
	for _, date := range dates {
		s.invalidate(ctx, date)
	}
	return len(dates) * len(req.TimeSlots), nil
}

// ResetDate removes every override for a date so pattern or default
// behaviour applies again.
func (s *AvailabilityAdminService) ResetDate(ctx context.Context, date time.Time, claims *models.JWTClaims) (int64, error) {
	if claims == nil {
		return 0, appErrors.ErrUnauthorized
	}
	removed, err := s.repo.DeleteOverridesForDate(ctx, truncateToDay(date))
	if err != nil {
		return 0, mapStoreError(err, s.logger, "failed to reset date")
	}
	s.invalidate(ctx, date)
	return removed, nil
}

// ListPatterns returns every stored weekday template.
func (s *AvailabilityAdminService) ListPatterns(ctx context.Context) ([]models.RecurringPattern, error) {
	patterns, err := s.repo.ListPatterns(ctx)
	if err != nil {
		return nil, mapStoreError(err, s.logger, "failed to list patterns")
	}
	return patterns, nil
}

// UpsertPattern replaces the weekly template for one weekday. An empty slot
// list is a valid template meaning the weekday is closed.
func (s *AvailabilityAdminService) UpsertPattern(ctx context.Context, dayOfWeek int, req dto.UpsertPatternRequest, claims *models.JWTClaims) (*models.RecurringPattern, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "day_of_week must be between 0 (Sunday) and 6 (Saturday)")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, validationMessage(err))
	}

	pattern := &models.RecurringPattern{
		DayOfWeek: dayOfWeek,
		Slots:     models.SlotList(req.Slots),
		UpdatedBy: &claims.UserID,
	}
	if err := s.repo.UpsertPattern(ctx, pattern); err != nil {
		return nil, mapStoreError(err, s.logger, "failed to save pattern")
	}
	// Pattern changes affect every future date on this weekday; cached
	// entries are short-lived so only the next two occurrences are dropped.
	s.invalidateWeekday(ctx, dayOfWeek)
	return pattern, nil
}

func (s *AvailabilityAdminService) invalidate(ctx context.Context, date time.Time) {
	if s.cache != nil {
		s.cache.InvalidateDate(ctx, date)
	}
}

func (s *AvailabilityAdminService) invalidateWeekday(ctx context.Context, dayOfWeek int) {
	if s.cache == nil {
		return
	}
	date := truncateToDay(time.Now())
	for i := 0; i < 14; i++ {
		if int(date.Weekday()) == dayOfWeek {
			s.cache.InvalidateDate(ctx, date)
		}
		date = date.AddDate(0, 0, 1)
	}
}
