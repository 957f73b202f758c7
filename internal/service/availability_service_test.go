package service

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ecs-booking-api/internal/models"
	appErrors "github.com/noah-isme/ecs-booking-api/pkg/errors"
)

var defaultTestSlots = []string{"09:00", "09:30", "10:00", "10:30", "11:00"}

func override(slot string, available, blocked bool) models.AvailabilityOverride {
	return models.AvailabilityOverride{TimeSlot: slot, IsAvailable: available, IsBlocked: blocked}
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	date, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return date
}

func TestResolveSlotsDefaultsOnWeekday(t *testing.T) {
	wednesday := mustDate(t, "2026-09-02")
	slots := ResolveSlots(wednesday, nil, nil, nil, ResolverConfig{DefaultSlots: defaultTestSlots})
	assert.Equal(t, defaultTestSlots, slots)
}

func TestResolveSlotsPatternReplacesDefaults(t *testing.T) {
	wednesday := mustDate(t, "2026-09-02")
	pattern := &models.RecurringPattern{DayOfWeek: 3, Slots: models.SlotList{"13:00", "14:00"}}
	slots := ResolveSlots(wednesday, nil, pattern, nil, ResolverConfig{DefaultSlots: defaultTestSlots})
	assert.Equal(t, []string{"13:00", "14:00"}, slots)
}

func TestResolveSlotsExplicitAvailableReplacesPattern(t *testing.T) {
	wednesday := mustDate(t, "2026-09-02")
	pattern := &models.RecurringPattern{DayOfWeek: 3, Slots: models.SlotList{"13:00", "14:00"}}
	overrides := []models.AvailabilityOverride{override("16:00", true, false)}

	slots := ResolveSlots(wednesday, overrides, pattern, nil, ResolverConfig{DefaultSlots: defaultTestSlots})

	assert.Equal(t, []string{"16:00"}, slots, "explicit availability must replace the pattern, not merge with it")
}

func TestResolveSlotsBlockedAlwaysWins(t *testing.T) {
	wednesday := mustDate(t, "2026-09-02")
	overrides := []models.AvailabilityOverride{
		override("09:00", true, false),
		override("10:00", true, false),
		override("10:00", true, true),
	}

	slots := ResolveSlots(wednesday, overrides, nil, nil, ResolverConfig{DefaultSlots: defaultTestSlots})

	assert.Equal(t, []string{"09:00"}, slots)
}

func TestResolveSlotsUnavailableOverrideBlocks(t *testing.T) {
	wednesday := mustDate(t, "2026-09-02")
	overrides := []models.AvailabilityOverride{override("09:30", false, false)}

	slots := ResolveSlots(wednesday, overrides, nil, nil, ResolverConfig{DefaultSlots: defaultTestSlots})

	assert.NotContains(t, slots, "09:30")
	assert.Contains(t, slots, "09:00")
}

func TestResolveSlotsBookedRemoved(t *testing.T) {
	wednesday := mustDate(t, "2026-09-02")
	booked := []string{"09:00", "10:30"}

	slots := ResolveSlots(wednesday, nil, nil, booked, ResolverConfig{DefaultSlots: defaultTestSlots})

	assert.Equal(t, []string{"09:30", "10:00", "11:00"}, slots)
}

func TestResolveSlotsChronologicalOrder(t *testing.T) {
	wednesday := mustDate(t, "2026-09-02")
	overrides := []models.AvailabilityOverride{
		override("13:00", true, false),
		override("9:00", true, false),
		override("10:30", true, false),
	}

	slots := ResolveSlots(wednesday, overrides, nil, nil, ResolverConfig{DefaultSlots: defaultTestSlots})

	assert.Equal(t, []string{"9:00", "10:30", "13:00"}, slots, "slots must sort by time of day, not lexically")
}

func TestResolveSlotsWeekend(t *testing.T) {
	saturday := mustDate(t, "2026-09-05")

	t.Run("no defaults without pattern", func(t *testing.T) {
		slots := ResolveSlots(saturday, nil, nil, nil, ResolverConfig{DefaultSlots: defaultTestSlots})
		assert.Empty(t, slots)
	})

	t.Run("pattern opens the weekend", func(t *testing.T) {
		pattern := &models.RecurringPattern{DayOfWeek: 6, Slots: models.SlotList{"10:00"}}
		slots := ResolveSlots(saturday, nil, pattern, nil, ResolverConfig{DefaultSlots: defaultTestSlots})
		assert.Equal(t, []string{"10:00"}, slots)
	})

	t.Run("weekend defaults flag", func(t *testing.T) {
		slots := ResolveSlots(saturday, nil, nil, nil, ResolverConfig{DefaultSlots: defaultTestSlots, WeekendDefaults: true})
		assert.Equal(t, defaultTestSlots, slots)
	})
}

func TestResolveSlotsEmptyResultIsValid(t *testing.T) {
	wednesday := mustDate(t, "2026-09-02")
	overrides := make([]models.AvailabilityOverride, 0, len(defaultTestSlots))
	for _, slot := range defaultTestSlots {
		overrides = append(overrides, override(slot, false, true))
	}

	slots := ResolveSlots(wednesday, overrides, nil, nil, ResolverConfig{DefaultSlots: defaultTestSlots})

	require.NotNil(t, slots)
	assert.Empty(t, slots)
}

type fakeAvailabilityStore struct {
	overrides []models.AvailabilityOverride
	pattern   *models.RecurringPattern
	single    *models.AvailabilityOverride
	err       error
}

func (f *fakeAvailabilityStore) ListOverridesByDate(context.Context, time.Time) ([]models.AvailabilityOverride, error) {
	return f.overrides, f.err
}

func (f *fakeAvailabilityStore) GetOverride(context.Context, time.Time, string) (*models.AvailabilityOverride, error) {
	return f.single, f.err
}

func (f *fakeAvailabilityStore) GetPattern(context.Context, int) (*models.RecurringPattern, error) {
	return f.pattern, f.err
}

type fakeBookedLister struct {
	slots []string
	err   error
}

func (f *fakeBookedLister) ListActiveSlotsByDate(context.Context, time.Time) ([]string, error) {
	return f.slots, f.err
}

type fakeSlotCache struct {
	entries map[string][]string
	deleted []string
}

func newFakeSlotCache() *fakeSlotCache {
	return &fakeSlotCache{entries: map[string][]string{}}
}

func (f *fakeSlotCache) Get(_ context.Context, date time.Time) ([]string, bool) {
	slots, ok := f.entries[date.Format("2006-01-02")]
	return slots, ok
}

func (f *fakeSlotCache) Set(_ context.Context, date time.Time, slots []string) {
	f.entries[date.Format("2006-01-02")] = slots
}

func (f *fakeSlotCache) Delete(_ context.Context, date time.Time) {
	key := date.Format("2006-01-02")
	delete(f.entries, key)
	f.deleted = append(f.deleted, key)
}

func TestAvailableSlotsUsesCache(t *testing.T) {
	date := mustDate(t, "2026-09-02")
	cache := newFakeSlotCache()
	cache.Set(context.Background(), date, []string{"11:00"})

	store := &fakeAvailabilityStore{err: errors.New("must not be called")}
	svc := NewAvailabilityService(store, &fakeBookedLister{}, cache, ResolverConfig{DefaultSlots: defaultTestSlots}, nil)

	slots, err := svc.AvailableSlots(context.Background(), date)
	require.NoError(t, err)
	assert.Equal(t, []string{"11:00"}, slots)
}

func TestAvailableSlotsPopulatesCache(t *testing.T) {
	date := mustDate(t, "2026-09-02")
	cache := newFakeSlotCache()
	svc := NewAvailabilityService(&fakeAvailabilityStore{}, &fakeBookedLister{}, cache, ResolverConfig{DefaultSlots: defaultTestSlots}, nil)

	slots, err := svc.AvailableSlots(context.Background(), date)
	require.NoError(t, err)
	assert.Equal(t, defaultTestSlots, slots)

	cached, ok := cache.Get(context.Background(), date)
	require.True(t, ok)
	assert.Equal(t, defaultTestSlots, cached)
}

func TestAvailableSlotsStoreUnavailable(t *testing.T) {
	date := mustDate(t, "2026-09-02")
	store := &fakeAvailabilityStore{err: driver.ErrBadConn}
	svc := NewAvailabilityService(store, &fakeBookedLister{}, nil, ResolverConfig{DefaultSlots: defaultTestSlots}, nil)

	_, err := svc.AvailableSlots(context.Background(), date)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrStoreUnavailable.Code, appErrors.FromError(err).Code)
	assert.Equal(t, appErrors.ErrStoreUnavailable.Status, appErrors.FromError(err).Status)
}

func TestSlotBlocked(t *testing.T) {
	date := mustDate(t, "2026-09-02")

	t.Run("no override", func(t *testing.T) {
		svc := NewAvailabilityService(&fakeAvailabilityStore{}, &fakeBookedLister{}, nil, ResolverConfig{}, nil)
		blocked, err := svc.SlotBlocked(context.Background(), date, "09:00")
		require.NoError(t, err)
		assert.False(t, blocked)
	})

	t.Run("blocked override", func(t *testing.T) {
		store := &fakeAvailabilityStore{single: &models.AvailabilityOverride{TimeSlot: "09:00", IsBlocked: true}}
		svc := NewAvailabilityService(store, &fakeBookedLister{}, nil, ResolverConfig{}, nil)
		blocked, err := svc.SlotBlocked(context.Background(), date, "09:00")
		require.NoError(t, err)
		assert.True(t, blocked)
	})

	t.Run("unavailable override", func(t *testing.T) {
		store := &fakeAvailabilityStore{single: &models.AvailabilityOverride{TimeSlot: "09:00", IsAvailable: false}}
		svc := NewAvailabilityService(store, &fakeBookedLister{}, nil, ResolverConfig{}, nil)
		blocked, err := svc.SlotBlocked(context.Background(), date, "09:00")
		require.NoError(t, err)
		assert.True(t, blocked)
	})
}
