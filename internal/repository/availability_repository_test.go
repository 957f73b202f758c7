package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ecs-booking-api/internal/models"
)

func TestGetOverride(t *testing.T) {
	date := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
	columns := []string{"id", "date", "time_slot", "is_available", "is_blocked", "admin_notes", "updated_by", "created_at", "updated_at"}

	t.Run("found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAvailabilityRepository(db)

		mock.ExpectQuery("SELECT id, date, time_slot").
			WithArgs(date, "09:00").
			WillReturnRows(sqlmock.NewRows(columns).AddRow(
				"ov-1", date, "09:00", false, true, nil, nil, time.Now(), time.Now()))

		override, err := repo.GetOverride(context.Background(), date, "09:00")
		require.NoError(t, err)
		require.NotNil(t, override)
		assert.True(t, override.IsBlocked)
	})

	t.Run("absent returns nil without error", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAvailabilityRepository(db)

		mock.ExpectQuery("SELECT id, date, time_slot").
			WithArgs(date, "09:00").
			WillReturnRows(sqlmock.NewRows(columns))

		override, err := repo.GetOverride(context.Background(), date, "09:00")
		require.NoError(t, err)
		assert.Nil(t, override)
	})
}

func TestUpsertOverride(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAvailabilityRepository(db)

	mock.ExpectExec("INSERT INTO availability_overrides").
		WillReturnResult(sqlmock.NewResult(0, 1))

	override := &models.AvailabilityOverride{
		Date:      time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
		TimeSlot:  "09:00",
		IsBlocked: true,
	}
	require.NoError(t, repo.UpsertOverride(context.Background(), override))
	assert.NotEmpty(t, override.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkUpsertOverrides(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAvailabilityRepository(db)

	dates := []time.Time{
		time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC),
	}
	slots := []string{"09:00", "09:30"}

	mock.ExpectBegin()
	for range dates {
		for range slots {
			mock.ExpectExec("INSERT INTO availability_overrides").
				WillReturnResult(sqlmock.NewResult(0, 1))
		}
	}
	mock.ExpectCommit()

	require.NoError(t, repo.BulkUpsertOverrides(context.Background(), dates, slots, false, true, nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkUpsertOverridesEmptyGridIsNoop(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAvailabilityRepository(db)

	require.NoError(t, repo.BulkUpsertOverrides(context.Background(), nil, []string{"09:00"}, true, false, nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteOverridesForDate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAvailabilityRepository(db)

	date := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM availability_overrides WHERE date = $1`)).
		WithArgs(date).
		WillReturnResult(sqlmock.NewResult(0, 3))

	removed, err := repo.DeleteOverridesForDate(context.Background(), date)
	require.NoError(t, err)
	assert.EqualValues(t, 3, removed)
}

func TestGetPattern(t *testing.T) {
	t.Run("found decodes slot list", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAvailabilityRepository(db)

		mock.ExpectQuery("SELECT day_of_week, slots").
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows([]string{"day_of_week", "slots", "updated_by", "updated_at"}).
				AddRow(1, []byte(`["10:00","11:00"]`), nil, time.Now()))

		pattern, err := repo.GetPattern(context.Background(), 1)
		require.NoError(t, err)
		require.NotNil(t, pattern)
		assert.Equal(t, models.SlotList{"10:00", "11:00"}, pattern.Slots)
	})

	t.Run("absent returns nil", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAvailabilityRepository(db)

		mock.ExpectQuery("SELECT day_of_week, slots").
			WithArgs(5).
			WillReturnRows(sqlmock.NewRows([]string{"day_of_week", "slots", "updated_by", "updated_at"}))

		pattern, err := repo.GetPattern(context.Background(), 5)
		require.NoError(t, err)
		assert.Nil(t, pattern)
	})
}

func TestUpsertPattern(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAvailabilityRepository(db)

	mock.ExpectExec("INSERT INTO recurring_patterns").
		WillReturnResult(sqlmock.NewResult(0, 1))

	pattern := &models.RecurringPattern{DayOfWeek: 1, Slots: models.SlotList{"10:00"}}
	require.NoError(t, repo.UpsertPattern(context.Background(), pattern))
	assert.False(t, pattern.UpdatedAt.IsZero())
}
