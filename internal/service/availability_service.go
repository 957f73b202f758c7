package service

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/ecs-booking-api/internal/models"
)

type availabilityStore interface {
	ListOverridesByDate(ctx context.Context, date time.Time) ([]models.AvailabilityOverride, error)
	GetOverride(ctx context.Context, date time.Time, slot string) (*models.AvailabilityOverride, error)
	GetPattern(ctx context.Context, dayOfWeek int) (*models.RecurringPattern, error)
}

type bookedSlotLister interface {
	ListActiveSlotsByDate(ctx context.Context, date time.Time) ([]string, error)
}

type slotCache interface {
	Get(ctx context.Context, date time.Time) ([]string, bool)
	Set(ctx context.Context, date time.Time, slots []string)
	Delete(ctx context.Context, date time.Time)
}

// ResolverConfig parameterises slot resolution.
type ResolverConfig struct {
	// DefaultSlots is used when a date has no explicit-available overrides
	// and its weekday has no recurring pattern.
	DefaultSlots []string
	// WeekendDefaults extends the default fallback to Saturday and Sunday.
	// When false a weekend without a pattern resolves to no slots.
	WeekendDefaults bool
}

// ResolveSlots computes the bookable slots for a date. Precedence, highest first:
// blocked overrides always remove a slot; explicit-available overrides replace
// the weekly pattern entirely for that date rather than merging with it; the
// weekday pattern replaces the default list; booked slots are removed last.
// The result is sorted by parsed minute-of-day. An empty result is valid.
func ResolveSlots(date time.Time, overrides []models.AvailabilityOverride, pattern *models.RecurringPattern, bookedSlots []string, cfg ResolverConfig) []string {
	blocked := make(map[string]struct{})
	explicitlyAvailable := []string{}
	for _, override := range overrides {
		if override.IsBlocked || !override.IsAvailable {
			blocked[override.TimeSlot] = struct{}{}
			continue
		}
		explicitlyAvailable = append(explicitlyAvailable, override.TimeSlot)
	}

	var base []string
	switch {
	case len(explicitlyAvailable) > 0:
		base = explicitlyAvailable
	case pattern != nil && len(pattern.Slots) > 0:
		base = pattern.Slots
	default:
		if isWeekend(date) && !cfg.WeekendDefaults {
			return []string{}
		}
		base = cfg.DefaultSlots
	}

	booked := make(map[string]struct{}, len(bookedSlots))
	for _, slot := range bookedSlots {
		booked[slot] = struct{}{}
	}

	available := make([]string, 0, len(base))
	for _, slot := range base {
		if _, isBlocked := blocked[slot]; isBlocked {
			continue
		}
		if _, isBooked := booked[slot]; isBooked {
			continue
		}
		available = append(available, slot)
	}

	sort.SliceStable(available, func(i, j int) bool {
		return minuteOfDay(available[i]) < minuteOfDay(available[j])
	})
	return available
}

func isWeekend(date time.Time) bool {
	weekday := date.Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}

// minuteOfDay parses an HH:MM label for chronological ordering. Labels that
// fail to parse sort last so they remain visible rather than vanishing.
func minuteOfDay(slot string) int {
	parts := strings.SplitN(slot, ":", 2)
	if len(parts) != 2 {
		return 1<<31 - 1
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 1<<31 - 1
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 1<<31 - 1
	}
	return hours*60 + minutes
}

// AvailabilityService answers slot availability queries backed by the
// override store, booking occupancy and an optional read cache.
type AvailabilityService struct {
	repo     availabilityStore
	bookings bookedSlotLister
	cache    slotCache
	cfg      ResolverConfig
	logger   *zap.Logger
}

// NewAvailabilityService constructs the service. cache may be nil.
func NewAvailabilityService(repo availabilityStore, bookings bookedSlotLister, cache slotCache, cfg ResolverConfig, logger *zap.Logger) *AvailabilityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{repo: repo, bookings: bookings, cache: cache, cfg: cfg, logger: logger}
}

// AvailableSlots returns the bookable slots for a date, cheapest source first.
func (s *AvailabilityService) AvailableSlots(ctx context.Context, date time.Time) ([]string, error) {
	date = truncateToDay(date)

	if s.cache != nil {
		if slots, ok := s.cache.Get(ctx, date); ok {
			return slots, nil
		}
	}

	overrides, err := s.repo.ListOverridesByDate(ctx, date)
	if err != nil {
		return nil, s.storeError(err, "failed to load overrides")
	}
	pattern, err := s.repo.GetPattern(ctx, int(date.Weekday()))
	if err != nil {
		return nil, s.storeError(err, "failed to load weekly pattern")
	}
	booked, err := s.bookings.ListActiveSlotsByDate(ctx, date)
	if err != nil {
		return nil, s.storeError(err, "failed to load bookings")
	}

	slots := ResolveSlots(date, overrides, pattern, booked, s.cfg)

	if s.cache != nil {
		s.cache.Set(ctx, date, slots)
	}
	return slots, nil
}

// SlotBlocked reports whether an override marks the single (date, slot) pair
// blocked or unavailable. Occupancy by other bookings is not consulted here;
// the store's conditional insert settles that race at commit time.
func (s *AvailabilityService) SlotBlocked(ctx context.Context, date time.Time, slot string) (bool, error) {
	override, err := s.repo.GetOverride(ctx, truncateToDay(date), slot)
	if err != nil {
		return false, s.storeError(err, "failed to load override")
	}
	if override == nil {
		return false, nil
	}
	return override.IsBlocked || !override.IsAvailable, nil
}

// InvalidateDate drops any cached slot list for a date. Called after any
// write that can change that date's availability.
func (s *AvailabilityService) InvalidateDate(ctx context.Context, date time.Time) {
	if s.cache != nil {
		s.cache.Delete(ctx, truncateToDay(date))
	}
}

func (s *AvailabilityService) storeError(err error, message string) error {
	return mapStoreError(err, s.logger, message)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
